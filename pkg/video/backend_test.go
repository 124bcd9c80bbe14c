package video_test

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/dragoncast/pkg/video"
)

func TestVideoBackendDefaultBackend(t *testing.T) {
	is := is.New(t)
	is.True(video.DefaultBackend() != nil)
	is.Equal(video.DefaultBackend().Name(), "gstreamer")
	is.Equal(video.DefaultEncoder().Name(), "opencv")
}

func TestResolveBackendByName(t *testing.T) {
	is := is.New(t)
	for name, want := range map[string]string{
		"":          "gstreamer",
		"GStreamer": "gstreamer",
		"opencv":    "opencv",
		"mock":      "mock",
	} {
		b, err := video.ResolveBackend(name)
		is.NoErr(err)
		is.Equal(b.Name(), want)
	}
}

func TestResolveBackendUnknown(t *testing.T) {
	is := is.New(t)
	_, err := video.ResolveBackend("v4l2")
	is.True(errors.Is(err, video.ErrUnknownBackend))
}

func TestResolveEncoderByName(t *testing.T) {
	is := is.New(t)
	enc, err := video.ResolveEncoder("mock")
	is.NoErr(err)
	is.Equal(enc.Name(), "mock")

	_, err = video.ResolveEncoder("turbojpeg")
	is.True(errors.Is(err, video.ErrUnknownEncoder))
}
