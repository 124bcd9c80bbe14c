package gstbackend

import (
	"github.com/tauraamui/dragoncast/pkg/video/videobackend"
	"github.com/tinyzimmer/go-gst/gst"
)

type TestConnection interface {
	videobackend.Connection
	Deliver(data []byte, width, height int, format string)
}

type testConnection struct {
	*connection
}

func (c testConnection) Deliver(data []byte, width, height int, format string) {
	c.deliver(rawSample{data: data, width: width, height: height, format: format})
}

func NewTestConnection() TestConnection {
	return testConnection{newConnection()}
}

func OverloadSetProperty(overload func(*gst.Element, string, interface{}) error) func() {
	setPropertyRef := setProperty
	setProperty = overload
	return func() { setProperty = setPropertyRef }
}

func OverloadStopPipeline(overload func(*gst.Pipeline) error) func() {
	stopPipelineRef := stopPipeline
	stopPipeline = overload
	return func() { stopPipeline = stopPipelineRef }
}
