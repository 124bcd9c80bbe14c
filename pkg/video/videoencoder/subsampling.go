package videoencoder

import (
	"strings"

	"github.com/tauraamui/xerror"
)

// Subsampling is the chroma subsampling scheme used when encoding.
type Subsampling uint8

const (
	Subsampling444 Subsampling = iota
	Subsampling422
	Subsampling420
	Subsampling440
	Subsampling411
)

var ErrUnknownSubsampling = xerror.New("unknown chroma subsampling")

var subsamplingNames = map[Subsampling]string{
	Subsampling444: "4:4:4",
	Subsampling422: "4:2:2",
	Subsampling420: "4:2:0",
	Subsampling440: "4:4:0",
	Subsampling411: "4:1:1",
}

func (s Subsampling) String() string {
	if name, ok := subsamplingNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseSubsampling accepts "4:2:2" as well as "422".
func ParseSubsampling(s string) (Subsampling, error) {
	s = strings.TrimSpace(s)
	for sub, name := range subsamplingNames {
		if s == name || s == strings.ReplaceAll(name, ":", "") {
			return sub, nil
		}
	}
	return 0, xerror.Errorf("%w: %q", ErrUnknownSubsampling, s)
}
