package main

import (
	"testing"

	"github.com/matryer/is"
)

func TestLoggingLevelFallsBackToConfigDebug(t *testing.T) {
	is := is.New(t)
	is.Equal(loggingLevel("", true), "debug")
	is.Equal(loggingLevel("", false), "")
}

func TestLoggingLevelEnvWinsOverConfig(t *testing.T) {
	is := is.New(t)
	is.Equal(loggingLevel("info", true), "info")
	is.Equal(loggingLevel("silent", false), "silent")
}
