package process

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tauraamui/dragoncast/pkg/log"
	"github.com/tauraamui/dragoncast/pkg/video/videobackend"
	"github.com/tauraamui/dragoncast/pkg/video/videoencoder"
)

const (
	DefaultAcquireTimeout = 500 * time.Millisecond
	DefaultPacingInterval = 30 * time.Millisecond
)

// FrameSender puts one encoded frame on the wire and reports how many
// fragments it took.
type FrameSender interface {
	Send(buf []byte, frameNumber uint16) (int, error)
}

type StreamSettings struct {
	Conn           videobackend.Connection
	Encoder        videoencoder.Encoder
	Options        videoencoder.Options
	Sender         FrameSender
	AcquireTimeout time.Duration
	PacingInterval time.Duration
	Stats          *Stats
}

type streamProcess struct {
	ctx         context.Context
	cancel      context.CancelFunc
	stopping    chan interface{}
	settings    StreamSettings
	stats       *Stats
	frameNumber uint16

	mu      sync.Mutex
	started bool
}

// NewStreamProcess returns the capture, encode and send loop. Once
// started it runs until stopped, skipping any cycle whose capture or
// encode fails.
func NewStreamProcess(settings StreamSettings) Process {
	if settings.AcquireTimeout <= 0 {
		settings.AcquireTimeout = DefaultAcquireTimeout
	}
	if settings.PacingInterval <= 0 {
		settings.PacingInterval = DefaultPacingInterval
	}
	stats := settings.Stats
	if stats == nil {
		stats = &Stats{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &streamProcess{
		ctx: ctx, cancel: cancel,
		stopping: make(chan interface{}),
		settings: settings,
		stats:    stats,
	}
}

func (proc *streamProcess) Setup() Process { return proc }

// Start launches the loop. It has no effect once the process has
// been started or stopped.
func (proc *streamProcess) Start() {
	proc.mu.Lock()
	defer proc.mu.Unlock()
	if proc.started {
		return
	}
	proc.started = true

	log.Info("Streaming frames to [%s]", destination(proc.settings.Sender))
	go proc.run()
}

func (proc *streamProcess) run() {
	defer close(proc.stopping)
	for {
		proc.cycle()
		pace(proc.settings.PacingInterval)

		select {
		case <-proc.ctx.Done():
			return
		default:
		}
	}
}

var pace = func(d time.Duration) {
	time.Sleep(d)
}

func (proc *streamProcess) cycle() {
	frame, err := proc.settings.Conn.Acquire(proc.settings.AcquireTimeout)
	if err != nil {
		if errors.Is(err, videobackend.ErrTimeout) {
			atomic.AddUint64(&proc.stats.timeouts, 1)
			log.Debug("No new frame within %s", proc.settings.AcquireTimeout)
			return
		}
		atomic.AddUint64(&proc.stats.captureFailures, 1)
		log.Error("Unable to acquire frame: %v", err)
		return
	}
	atomic.AddUint64(&proc.stats.framesCaptured, 1)

	buf, err := proc.settings.Encoder.Encode(frame, proc.settings.Options)
	frame.Close()
	if err != nil {
		atomic.AddUint64(&proc.stats.encodeFailures, 1)
		log.Error("Unable to encode frame: %v", err)
		return
	}
	defer buf.Close()

	frameNumber := proc.frameNumber
	fragments, err := proc.settings.Sender.Send(buf.Bytes(), frameNumber)
	if err != nil {
		atomic.AddUint64(&proc.stats.sendFailures, 1)
		log.Error("Unable to send frame %d: %v", frameNumber, err)
	} else {
		atomic.AddUint64(&proc.stats.framesSent, 1)
		atomic.AddUint64(&proc.stats.fragmentsSent, uint64(fragments))
		atomic.AddUint64(&proc.stats.encodedBytes, uint64(buf.Len()))
	}
	proc.frameNumber++
}

func (proc *streamProcess) Stop() {
	log.Info("Stopping frame stream...")
	proc.cancel()

	proc.mu.Lock()
	defer proc.mu.Unlock()
	// a loop that never ran has nothing to wait for
	if !proc.started {
		proc.started = true
		close(proc.stopping)
	}
}

func (proc *streamProcess) Wait() {
	<-proc.stopping
}

func destination(sender FrameSender) string {
	if d, ok := sender.(interface{ Destination() string }); ok {
		return d.Destination()
	}
	return "unknown"
}
