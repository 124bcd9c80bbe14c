package video

import (
	"strings"

	"github.com/tauraamui/dragoncast/pkg/video/cvbackend"
	"github.com/tauraamui/dragoncast/pkg/video/cvencoder"
	"github.com/tauraamui/dragoncast/pkg/video/gstbackend"
	"github.com/tauraamui/dragoncast/pkg/video/videobackend"
	"github.com/tauraamui/dragoncast/pkg/video/videoencoder"
	"github.com/tauraamui/xerror"
)

var (
	ErrUnknownBackend = xerror.New("unknown capture backend")
	ErrUnknownEncoder = xerror.New("unknown encoder backend")
)

func DefaultBackend() videobackend.Backend {
	return gstbackend.Backend()
}

func DefaultEncoder() videoencoder.Backend {
	return cvencoder.Backend()
}

// ResolveBackend maps a configured capture backend name onto its
// implementation. An empty name picks the default.
func ResolveBackend(name string) (videobackend.Backend, error) {
	switch strings.ToLower(name) {
	case "", "gstreamer":
		return DefaultBackend(), nil
	case "opencv":
		return cvbackend.Backend(), nil
	case "mock":
		return videobackend.Mock(), nil
	default:
		return nil, xerror.Errorf("%w: %s", ErrUnknownBackend, name)
	}
}

func ResolveEncoder(name string) (videoencoder.Backend, error) {
	switch strings.ToLower(name) {
	case "", "opencv":
		return DefaultEncoder(), nil
	case "mock":
		return videoencoder.Mock(), nil
	default:
		return nil, xerror.Errorf("%w: %s", ErrUnknownEncoder, name)
	}
}
