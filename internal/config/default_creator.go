package config

import "github.com/tauraamui/dragoncast/pkg/configdef"

// DefaultCreator writes the default stream settings to the resolved
// config path, refusing to replace a file already there.
func DefaultCreator() configdef.Creator {
	return defaultCreator{}
}

type defaultCreator struct{}

func (d defaultCreator) Create() error {
	return create()
}
