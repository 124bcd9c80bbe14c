// Package config exposes the default on-disk configuration handling
// to the rest of the program.
package config

import (
	"github.com/tauraamui/dragoncast/internal/config"
	"github.com/tauraamui/dragoncast/pkg/configdef"
)

type CreateResolver interface {
	configdef.CreateResolver
}

func DefaultCreateResolver() CreateResolver {
	return config.DefaultCreateResolver()
}
