// Package cvbackend captures frames from anything OpenCV can open:
// camera indexes, video files, stream URLs or GStreamer pipelines.
package cvbackend

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tauraamui/dragoncast/pkg/video/videobackend"
	"github.com/tauraamui/dragoncast/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

type capture interface {
	Read(*gocv.Mat) bool
	IsOpened() bool
	Set(gocv.VideoCaptureProperties, float64)
	Close() error
}

type backend struct{}

func Backend() videobackend.Backend {
	return &backend{}
}

func (b *backend) Name() string { return "opencv" }

func (b *backend) Connect(ctx context.Context, settings videobackend.Settings) (videobackend.Connection, error) {
	conn := &connection{uuid: uuid.NewString()}
	if err := conn.connect(ctx, settings); err != nil {
		return nil, err
	}
	return conn, nil
}

type openResult struct {
	vc  capture
	err error
}

type readResult struct {
	mat gocv.Mat
	ok  bool
}

type connection struct {
	uuid   string
	mu     sync.Mutex
	isOpen bool
	vc     capture

	// a read outlives the Acquire that timed out on it, the next
	// Acquire picks its result up instead of starting another
	pending chan readResult
}

func (c *connection) connect(ctx context.Context, settings videobackend.Settings) error {
	results := make(chan openResult, 1)
	go func() {
		vc, err := openVideoCapture(device(settings.Device))
		results <- openResult{vc: vc, err: err}
	}()

	select {
	case r := <-results:
		if r.err != nil {
			return xerror.Errorf("unable to open capture device %q: %w", settings.Device, r.err)
		}
		if settings.Width > 0 && settings.Height > 0 {
			r.vc.Set(gocv.VideoCaptureFrameWidth, float64(settings.Width))
			r.vc.Set(gocv.VideoCaptureFrameHeight, float64(settings.Height))
		}
		c.vc = r.vc
		c.isOpen = true
		return nil
	case <-ctx.Done():
		go func() {
			if r := <-results; r.err == nil {
				r.vc.Close()
			}
		}()
		return xerror.Errorf("connection cancelled: %w", ctx.Err())
	}
}

// device turns "0" into camera index 0, anything else is opened as is.
func device(d string) interface{} {
	if i, err := strconv.Atoi(d); err == nil {
		return i
	}
	return d
}

var openVideoCapture = func(device interface{}) (capture, error) {
	return gocv.OpenVideoCapture(device)
}

func (c *connection) UUID() string {
	return c.uuid
}

func (c *connection) Acquire(timeout time.Duration) (*videoframe.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isOpen {
		return nil, videobackend.ErrClosed
	}

	if c.pending == nil {
		c.pending = make(chan readResult, 1)
		go read(c.vc, c.pending)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-c.pending:
		c.pending = nil
		defer r.mat.Close()
		if !r.ok || r.mat.Empty() {
			return nil, xerror.New("unable to read from video connection")
		}
		return toFrame(r.mat)
	case <-timer.C:
		return nil, videobackend.ErrTimeout
	}
}

func read(vc capture, results chan<- readResult) {
	mat := gocv.NewMat()
	ok := vc.IsOpened() && vc.Read(&mat)
	results <- readResult{mat: mat, ok: ok}
}

// toFrame converts whatever OpenCV decoded into tightly packed BGRA.
func toFrame(mat gocv.Mat) (*videoframe.Frame, error) {
	bgra := gocv.NewMat()
	defer bgra.Close()

	switch mat.Channels() {
	case 4:
		mat.CopyTo(&bgra)
	case 3:
		gocv.CvtColor(mat, &bgra, gocv.ColorBGRToBGRA)
	case 1:
		gocv.CvtColor(mat, &bgra, gocv.ColorGrayToBGRA)
	default:
		return nil, xerror.Errorf("%w: %d channels", videobackend.ErrUnsupportedFormat, mat.Channels())
	}

	if bgra.Type() != gocv.MatTypeCV8UC4 {
		return nil, xerror.Errorf("%w: mat type %d", videobackend.ErrUnsupportedFormat, bgra.Type())
	}

	w, h := bgra.Cols(), bgra.Rows()
	return videoframe.New(bgra.ToBytes(), w, h, w*videoframe.BytesPerPixel, videoframe.PixelFormatB8G8R8A8UNorm, nil)
}

func (c *connection) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isOpen {
		return c.vc.IsOpened()
	}
	return false
}

func (c *connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isOpen {
		return nil
	}
	c.isOpen = false
	if c.pending != nil {
		// the reader still owns the capture until it returns
		r := <-c.pending
		r.mat.Close()
		c.pending = nil
	}
	return c.vc.Close()
}
