package config

import (
	"github.com/tauraamui/dragoncast/internal/config"
	"github.com/tauraamui/dragoncast/pkg/configdef"
)

type Destroyer interface {
	configdef.Destroyer
}

func DefaultDestroyer() Destroyer {
	return config.DefaultDestroyer()
}
