package videoencoder

import (
	"sync"

	"github.com/tauraamui/dragoncast/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

type mockEncoderBackend struct{}

func (b *mockEncoderBackend) Name() string { return "mock" }

func (b *mockEncoderBackend) Open() (Encoder, error) {
	return &mockEncoder{}, nil
}

type mockEncoder struct {
	closed bool
}

func (e *mockEncoder) Encode(frame *videoframe.Frame, opts Options) (Buffer, error) {
	if e.closed {
		return nil, xerror.New("encoder is closed")
	}
	if err := CheckOptions(opts); err != nil {
		return nil, err
	}

	out := make([]byte, 0, frame.Width*frame.Height*videoframe.BytesPerPixel)
	for y := 0; y < frame.Height; y++ {
		out = append(out, frame.Row(y)...)
	}
	return NewBuffer(out, nil), nil
}

func (e *mockEncoder) Close() error {
	e.closed = true
	return nil
}

type buffer struct {
	data    []byte
	once    sync.Once
	release func()
}

// NewBuffer wraps data as a Buffer. release, if given, runs on the
// first Close.
func NewBuffer(data []byte, release func()) Buffer {
	return &buffer{data: data, release: release}
}

func (b *buffer) Bytes() []byte { return b.data }

func (b *buffer) Len() int { return len(b.data) }

func (b *buffer) Close() {
	b.once.Do(func() {
		if b.release != nil {
			b.release()
		}
		b.data = nil
	})
}
