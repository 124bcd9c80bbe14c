package videobackend

import (
	"context"
	"time"

	"github.com/tauraamui/dragoncast/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

var (
	ErrTimeout           = xerror.New("timed out waiting for next frame")
	ErrUnsupportedFormat = xerror.New("capture produced unsupported pixel format")
	ErrClosed            = xerror.New("capture connection is closed")
)

// Settings are the knobs a capture backend may read when connecting.
// Backends ignore the fields that do not apply to them.
type Settings struct {
	// SourceElement names the GStreamer element producing the display image.
	SourceElement string
	// Display selects which X display to grab, empty means the default.
	Display     string
	ShowPointer bool
	// Device is an OpenCV capture device index, file, URL or pipeline.
	Device string
	Width  int
	Height int
}

// Connection is a live capture session. Acquire must block no longer
// than timeout, returning ErrTimeout when no frame arrived in time.
// The returned frame belongs to the caller and must be closed before
// the next Acquire.
type Connection interface {
	UUID() string
	Acquire(timeout time.Duration) (*videoframe.Frame, error)
	IsOpen() bool
	Close() error
}

type Backend interface {
	Name() string
	Connect(context.Context, Settings) (Connection, error)
}

// Mock returns a backend producing a synthetic test card, for running
// without a display or camera.
func Mock() Backend {
	return &mockVideoBackend{}
}

// CheckFormat returns ErrUnsupportedFormat unless f is one of the
// accepted 32-bit BGR(A) layouts.
func CheckFormat(f videoframe.PixelFormat) error {
	if f.Accepted() {
		return nil
	}
	return xerror.Errorf("%w: %s", ErrUnsupportedFormat, f)
}
