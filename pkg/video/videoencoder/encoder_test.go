package videoencoder_test

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/dragoncast/pkg/video/videoencoder"
	"github.com/tauraamui/dragoncast/pkg/video/videoframe"
)

func TestParseSubsamplingNames(t *testing.T) {
	is := is.New(t)

	for name, want := range map[string]videoencoder.Subsampling{
		"4:4:4": videoencoder.Subsampling444,
		"4:2:2": videoencoder.Subsampling422,
		"420":   videoencoder.Subsampling420,
		"4:4:0": videoencoder.Subsampling440,
		" 411 ": videoencoder.Subsampling411,
	} {
		got, err := videoencoder.ParseSubsampling(name)
		is.NoErr(err)
		is.Equal(got, want)
	}
}

func TestParseSubsamplingUnknown(t *testing.T) {
	is := is.New(t)
	_, err := videoencoder.ParseSubsampling("4:3:1")
	is.True(errors.Is(err, videoencoder.ErrUnknownSubsampling))
}

func TestDefaultOptions(t *testing.T) {
	is := is.New(t)
	opts := videoencoder.DefaultOptions()
	is.Equal(opts.Quality, 90)
	is.Equal(opts.Subsampling.String(), "4:2:2")
	is.NoErr(videoencoder.CheckOptions(opts))
}

func TestCheckOptionsRejectsBadQuality(t *testing.T) {
	is := is.New(t)
	is.Equal(videoencoder.CheckOptions(videoencoder.Options{Quality: 101}), videoencoder.ErrInvalidQuality)
	is.Equal(videoencoder.CheckOptions(videoencoder.Options{Quality: -1}), videoencoder.ErrInvalidQuality)
}

func TestMockEncoderStripsStridePadding(t *testing.T) {
	is := is.New(t)
	data := []byte{
		1, 2, 3, 4, 5, 6, 7, 8, 0, 0,
		9, 10, 11, 12, 13, 14, 15, 16, 0, 0,
	}
	frame, err := videoframe.New(data, 2, 2, 10, videoframe.PixelFormatB8G8R8X8UNorm, nil)
	is.NoErr(err)

	enc, err := videoencoder.Mock().Open()
	is.NoErr(err)
	defer enc.Close()

	buf, err := enc.Encode(frame, videoencoder.DefaultOptions())
	is.NoErr(err)
	defer buf.Close()

	is.Equal(buf.Len(), 16)
	is.Equal(buf.Bytes(), []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16})
}

func TestBufferCloseReleasesOnce(t *testing.T) {
	is := is.New(t)
	released := 0
	buf := videoencoder.NewBuffer([]byte{1, 2, 3}, func() { released++ })

	buf.Close()
	buf.Close()
	is.Equal(released, 1)
	is.Equal(buf.Len(), 0)
}
