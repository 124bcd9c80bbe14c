package process_test

import (
	"errors"
	"sync"
	"time"

	"github.com/tauraamui/dragoncast/pkg/video/videobackend"
	"github.com/tauraamui/dragoncast/pkg/video/videoencoder"
	"github.com/tauraamui/dragoncast/pkg/video/videoframe"
)

type acquireResult struct {
	data []byte
	err  error
}

type fakeConn struct {
	mu       sync.Mutex
	results  []acquireResult
	acquired int
	released int
	timeouts []time.Duration
}

// Acquire replays results in order, then keeps handing out a single
// pixel frame.
func (c *fakeConn) Acquire(timeout time.Duration) (*videoframe.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeouts = append(c.timeouts, timeout)

	r := acquireResult{data: []byte{1, 2, 3, 4}}
	if c.acquired < len(c.results) {
		r = c.results[c.acquired]
	}
	c.acquired++
	if r.err != nil {
		return nil, r.err
	}

	return videoframe.New(r.data, len(r.data)/videoframe.BytesPerPixel, 1, len(r.data), videoframe.PixelFormatB8G8R8A8UNorm, func() {
		c.mu.Lock()
		c.released++
		c.mu.Unlock()
	})
}

func (c *fakeConn) releasedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}

func (c *fakeConn) acquiredCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acquired
}

func (c *fakeConn) UUID() string { return "fake-conn" }
func (c *fakeConn) IsOpen() bool { return true }
func (c *fakeConn) Close() error { return nil }

type fakeEncoder struct {
	failOn  map[int]error
	calls   int
	buffers int
	closed  int
	opts    []videoencoder.Options
}

func (e *fakeEncoder) Encode(frame *videoframe.Frame, opts videoencoder.Options) (videoencoder.Buffer, error) {
	defer func() { e.calls++ }()
	e.opts = append(e.opts, opts)
	if err, ok := e.failOn[e.calls]; ok {
		return nil, err
	}
	e.buffers++
	return videoencoder.NewBuffer(append([]byte{}, frame.Data...), func() { e.closed++ }), nil
}

func (e *fakeEncoder) Close() error { return nil }

type sentFrame struct {
	data        []byte
	frameNumber uint16
}

type fakeSender struct {
	mu     sync.Mutex
	sent   []sentFrame
	err    error
	frames int
}

func (s *fakeSender) Send(buf []byte, frameNumber uint16) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames++
	if s.err != nil {
		return 0, s.err
	}
	s.sent = append(s.sent, sentFrame{data: append([]byte{}, buf...), frameNumber: frameNumber})
	return 1, nil
}

func (s *fakeSender) Destination() string { return "127.0.0.1:57956" }

func (s *fakeSender) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

var (
	errCaptureLost = errors.New("capture device lost")
	errCodec       = errors.New("codec failure")
)

var _ videobackend.Connection = &fakeConn{}
