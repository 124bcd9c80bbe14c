package videoframe

import (
	"sync"

	"github.com/tauraamui/xerror"
)

// BytesPerPixel is the width of every accepted pixel format.
const BytesPerPixel = 4

type Dimensions struct {
	W, H int
}

// Frame is one raw captured image. It must be closed exactly once by
// whoever acquired it, which hands the underlying resource back to the
// capture backend.
type Frame struct {
	Data   []byte
	Width  int
	Height int
	Stride int
	Format PixelFormat

	once    sync.Once
	release func()
}

// New wraps data as a frame, checking the buffer matches the declared
// geometry. release, if given, runs on the first Close.
func New(data []byte, width, height, stride int, format PixelFormat, release func()) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, xerror.Errorf("invalid frame dimensions: %dx%d", width, height)
	}

	if stride < width*BytesPerPixel {
		return nil, xerror.Errorf("row stride %d too small for width %d", stride, width)
	}

	if len(data) != stride*height {
		return nil, xerror.Errorf(
			"frame buffer length %d does not match stride %d x height %d", len(data), stride, height,
		)
	}

	return &Frame{
		Data: data, Width: width, Height: height, Stride: stride, Format: format, release: release,
	}, nil
}

func (f *Frame) Dimensions() Dimensions {
	return Dimensions{W: f.Width, H: f.Height}
}

// Row returns the visible pixels of row y, without stride padding.
func (f *Frame) Row(y int) []byte {
	start := y * f.Stride
	return f.Data[start : start+f.Width*BytesPerPixel]
}

// Close releases the frame back to its backend. Only the first call
// has any effect.
func (f *Frame) Close() {
	f.once.Do(func() {
		if f.release != nil {
			f.release()
		}
	})
}
