package config

import (
	"github.com/tauraamui/dragoncast/internal/config"
	"github.com/tauraamui/dragoncast/pkg/configdef"
)

type Resolver interface {
	configdef.Resolver
}

func DefaultResolver() Resolver {
	return config.DefaultResolver()
}
