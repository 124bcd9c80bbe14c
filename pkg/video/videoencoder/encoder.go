package videoencoder

import (
	"github.com/tauraamui/dragoncast/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

const DefaultQuality = 90

var ErrInvalidQuality = xerror.New("quality must be between 0 and 100")

// Buffer is one encoded frame. It belongs to whoever received it from
// Encode and must be closed once they are done with the bytes.
type Buffer interface {
	Bytes() []byte
	Len() int
	Close()
}

type Options struct {
	Quality     int
	Subsampling Subsampling
}

func DefaultOptions() Options {
	return Options{Quality: DefaultQuality, Subsampling: Subsampling422}
}

// Encoder compresses raw frames. Implementations keep state between
// calls and are not safe for concurrent use.
type Encoder interface {
	Encode(*videoframe.Frame, Options) (Buffer, error)
	Close() error
}

type Backend interface {
	Name() string
	Open() (Encoder, error)
}

// CheckOptions validates opts before anything is handed to a codec.
func CheckOptions(opts Options) error {
	if opts.Quality < 0 || opts.Quality > 100 {
		return ErrInvalidQuality
	}
	if _, ok := subsamplingNames[opts.Subsampling]; !ok {
		return xerror.Errorf("%w: %d", ErrUnknownSubsampling, opts.Subsampling)
	}
	return nil
}

// Mock returns a backend whose encoders copy each frame's visible
// pixels out verbatim.
func Mock() Backend {
	return &mockEncoderBackend{}
}
