// Package gstbackend grabs the display through a GStreamer pipeline:
//
//	<source> ! videoconvert ! video/x-raw,format=BGRx ! appsink
//
// The appsink keeps a single buffer and drops stale ones, so Acquire
// always hands out the most recent image of the screen.
package gstbackend

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tauraamui/dragoncast/pkg/log"
	"github.com/tauraamui/dragoncast/pkg/video/videobackend"
	"github.com/tauraamui/dragoncast/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
)

const (
	DefaultSourceElement = "ximagesrc"
	outputCaps           = "video/x-raw,format=BGRx"
	busPollInterval      = 50 * time.Millisecond
)

type backend struct{}

func Backend() videobackend.Backend {
	return &backend{}
}

func (b *backend) Name() string { return "gstreamer" }

func (b *backend) Connect(ctx context.Context, settings videobackend.Settings) (videobackend.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, xerror.Errorf("connection cancelled: %w", err)
	}

	gst.Init(nil)

	conn := newConnection()
	if err := conn.build(settings); err != nil {
		conn.teardown()
		return nil, err
	}

	if err := conn.pipeline.SetState(gst.StatePlaying); err != nil {
		conn.teardown()
		return nil, xerror.Errorf("unable to start capture pipeline: %w", err)
	}

	conn.wg.Add(1)
	go conn.monitorBus()

	return conn, nil
}

// rawSample is a copy of one appsink buffer plus the caps it came with.
type rawSample struct {
	data   []byte
	width  int
	height int
	format string
}

type connection struct {
	uuid     string
	pipeline *gst.Pipeline
	samples  chan rawSample
	done     chan struct{}
	wg       sync.WaitGroup

	mu     sync.Mutex
	isOpen bool
	pool   sync.Pool
}

func newConnection() *connection {
	return &connection{
		uuid:    uuid.NewString(),
		samples: make(chan rawSample, 1),
		done:    make(chan struct{}),
		isOpen:  true,
	}
}

// build assembles the pipeline. Whatever it managed to create is left
// on c for teardown when it fails.
func (c *connection) build(settings videobackend.Settings) error {
	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return xerror.Errorf("unable to create capture pipeline: %w", err)
	}
	c.pipeline = pipeline

	sourceName := settings.SourceElement
	if len(sourceName) == 0 {
		sourceName = DefaultSourceElement
	}
	source, err := gst.NewElement(sourceName)
	if err != nil {
		return xerror.Errorf("unable to create capture source %s: %w", sourceName, err)
	}
	if sourceName == DefaultSourceElement {
		if len(settings.Display) > 0 {
			if err := setProperty(source, "display-name", settings.Display); err != nil {
				return err
			}
		}
		if err := setProperty(source, "show-pointer", settings.ShowPointer); err != nil {
			return err
		}
		if err := setProperty(source, "use-damage", false); err != nil {
			return err
		}
	}

	convert, err := gst.NewElement("videoconvert")
	if err != nil {
		return xerror.Errorf("unable to create videoconvert: %w", err)
	}

	capsfilter, err := gst.NewElement("capsfilter")
	if err != nil {
		return xerror.Errorf("unable to create capsfilter: %w", err)
	}
	if err := setProperty(capsfilter, "caps", gst.NewCapsFromString(outputCaps)); err != nil {
		return err
	}

	sink, err := app.NewAppSink()
	if err != nil {
		return xerror.Errorf("unable to create appsink: %w", err)
	}
	for name, value := range map[string]interface{}{
		"sync":        false,
		"max-buffers": 1,
		"drop":        true,
	} {
		if err := setProperty(sink.Element, name, value); err != nil {
			return err
		}
	}
	sink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: c.onNewSample,
	})

	if err := pipeline.AddMany(source, convert, capsfilter, sink.Element); err != nil {
		return xerror.Errorf("unable to assemble capture pipeline: %w", err)
	}
	if err := gst.ElementLinkMany(source, convert, capsfilter, sink.Element); err != nil {
		return xerror.Errorf("unable to link capture pipeline: %w", err)
	}

	return nil
}

var setProperty = func(element *gst.Element, name string, value interface{}) error {
	if err := element.SetProperty(name, value); err != nil {
		return xerror.Errorf("unable to set %s on %s: %w", name, element.GetName(), err)
	}
	return nil
}

var stopPipeline = func(pipeline *gst.Pipeline) error {
	return pipeline.SetState(gst.StateNull)
}

func (c *connection) teardown() {
	if c.pipeline == nil {
		return
	}
	if err := stopPipeline(c.pipeline); err != nil {
		log.Warn("Unable to tear down capture pipeline: %v", err)
	}
}

func (c *connection) onNewSample(sink *app.Sink) gst.FlowReturn {
	sample := sink.PullSample()
	if sample == nil {
		return gst.FlowOK
	}

	width, height, format := describeCaps(sample.GetCaps())

	buffer := sample.GetBuffer()
	if buffer == nil {
		return gst.FlowOK
	}
	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	copied := c.take(len(data))
	copy(copied, data)
	buffer.Unmap()

	c.deliver(rawSample{data: copied, width: width, height: height, format: format})
	return gst.FlowOK
}

func describeCaps(caps *gst.Caps) (width, height int, format string) {
	if caps == nil || caps.GetSize() == 0 {
		return 0, 0, ""
	}
	structure := caps.GetStructureAt(0)
	if val, err := structure.GetValue("width"); err == nil {
		width, _ = val.(int)
	}
	if val, err := structure.GetValue("height"); err == nil {
		height, _ = val.(int)
	}
	if val, err := structure.GetValue("format"); err == nil {
		format, _ = val.(string)
	}
	return width, height, format
}

// deliver replaces whatever sample is waiting with s.
func (c *connection) deliver(s rawSample) {
	for {
		select {
		case c.samples <- s:
			return
		default:
		}
		select {
		case stale := <-c.samples:
			c.recycle(stale.data)
		default:
		}
	}
}

func (c *connection) take(n int) []byte {
	if b, ok := c.pool.Get().([]byte); ok && cap(b) >= n {
		return b[:n]
	}
	return make([]byte, n)
}

func (c *connection) recycle(b []byte) {
	c.pool.Put(b[:0]) //nolint:staticcheck
}

func (c *connection) UUID() string {
	return c.uuid
}

func (c *connection) Acquire(timeout time.Duration) (*videoframe.Frame, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case s := <-c.samples:
		return c.toFrame(s)
	case <-timer.C:
		return nil, videobackend.ErrTimeout
	case <-c.done:
		return nil, videobackend.ErrClosed
	}
}

func (c *connection) toFrame(s rawSample) (*videoframe.Frame, error) {
	format := pixelFormat(s.format)
	if err := videobackend.CheckFormat(format); err != nil {
		c.recycle(s.data)
		return nil, err
	}

	if s.height <= 0 {
		c.recycle(s.data)
		return nil, xerror.Errorf("capture sample has no usable height: %d", s.height)
	}

	frame, err := videoframe.New(s.data, s.width, s.height, len(s.data)/s.height, format, func() {
		c.recycle(s.data)
	})
	if err != nil {
		c.recycle(s.data)
		return nil, err
	}
	return frame, nil
}

var pixelFormats = map[string]videoframe.PixelFormat{
	"BGRx":  videoframe.PixelFormatB8G8R8X8UNorm,
	"BGRA":  videoframe.PixelFormatB8G8R8A8UNorm,
	"RGBA":  videoframe.PixelFormatR8G8B8A8UNorm,
	"RGBx":  videoframe.PixelFormatR8G8B8X8UNorm,
	"BGR":   videoframe.PixelFormatB8G8R8,
	"GRAY8": videoframe.PixelFormatGray8,
}

func pixelFormat(name string) videoframe.PixelFormat {
	if f, ok := pixelFormats[name]; ok {
		return f
	}
	return videoframe.PixelFormatUnknown
}

func (c *connection) monitorBus() {
	defer c.wg.Done()
	bus := c.pipeline.GetPipelineBus()
	for {
		select {
		case <-c.done:
			return
		default:
		}

		msg := bus.TimedPop(busPollInterval)
		if msg == nil {
			continue
		}

		switch msg.Type() {
		case gst.MessageEOS:
			log.Warn("Capture pipeline reached end of stream")
		case gst.MessageError:
			gerr := msg.ParseError()
			log.Error("Capture pipeline error: %s (%s)", gerr.Error(), gerr.DebugString())
		}
	}
}

func (c *connection) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isOpen
}

func (c *connection) Close() error {
	c.mu.Lock()
	if !c.isOpen {
		c.mu.Unlock()
		return nil
	}
	c.isOpen = false
	close(c.done)
	c.mu.Unlock()

	c.wg.Wait()
	if c.pipeline != nil {
		return stopPipeline(c.pipeline)
	}
	return nil
}
