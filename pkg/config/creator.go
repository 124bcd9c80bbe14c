package config

import (
	"github.com/tauraamui/dragoncast/internal/config"
	"github.com/tauraamui/dragoncast/pkg/configdef"
)

// Creator writes a fresh config file, used by dragoncast setup.
type Creator interface {
	configdef.Creator
}

func DefaultCreator() Creator {
	return config.DefaultCreator()
}
