package configdef_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/tauraamui/dragoncast/pkg/configdef"
)

func TestDefaultValuesPassValidation(t *testing.T) {
	is := is.New(t)
	values := configdef.Default()
	is.NoErr(values.RunValidate())

	is.Equal(values.Destination.Address, "127.0.0.1")
	is.Equal(values.Destination.Port, 57956)
	is.Equal(values.Destination.MaxPayloadSize, 1300)
	is.Equal(values.Encoder.Quality, 90)
	is.Equal(values.Encoder.Subsampling, "4:2:2")
	is.Equal(values.Capture.AcquireTimeout(), 500*time.Millisecond)
	is.Equal(values.PacingInterval(), 30*time.Millisecond)
	is.Equal(values.StatsInterval(), 10*time.Second)
}

func TestPartialConfigKeepsDefaultsForMissingFields(t *testing.T) {
	is := is.New(t)
	body := `{
			"destination": {"address": "10.0.0.7"},
			"encoder": {"quality": 70}
		}`
	values := configdef.Default()
	is.NoErr(json.Unmarshal([]byte(body), &values))
	is.NoErr(values.RunValidate())

	is.Equal(values.Destination.Address, "10.0.0.7")
	is.Equal(values.Destination.Port, 57956)
	is.Equal(values.Encoder.Quality, 70)
	is.Equal(values.Encoder.Subsampling, "4:2:2")
}

func TestValidateFailsForOutOfRangePacingInterval(t *testing.T) {
	is := is.New(t)
	values := configdef.Default()
	values.PacingIntervalMS = 0
	is.Equal(values.RunValidate().Error(), `Validation error in field "PacingIntervalMS" of type "int" using validator "gte=1"`)
}

func TestValidateFailsForOutOfRangeQuality(t *testing.T) {
	is := is.New(t)
	values := configdef.Default()
	values.Encoder.Quality = 101
	is.True(values.RunValidate() != nil)
}

func TestValidateFailsForUnknownCaptureBackend(t *testing.T) {
	is := is.New(t)
	values := configdef.Default()
	values.Capture.Backend = "dxgi"
	is.Equal(values.RunValidate().Error(), `validation failed: unknown capture backend "dxgi"`)
}

func TestValidateFailsForUnknownEncoderBackend(t *testing.T) {
	is := is.New(t)
	values := configdef.Default()
	values.Encoder.Backend = "turbojpeg"
	is.Equal(values.RunValidate().Error(), `validation failed: unknown encoder backend "turbojpeg"`)
}

func TestValidateFailsForUnknownSubsampling(t *testing.T) {
	is := is.New(t)
	values := configdef.Default()
	values.Encoder.Subsampling = "4:3:1"
	is.Equal(values.RunValidate().Error(), `validation failed: unknown chroma subsampling "4:3:1"`)
}

func TestValidateAcceptsCompactSubsamplingAndBackendCase(t *testing.T) {
	is := is.New(t)
	values := configdef.Default()
	values.Encoder.Subsampling = "420"
	values.Capture.Backend = "Mock"
	is.NoErr(values.RunValidate())
}

func TestValidateFailsForOpenCVCaptureWithoutDevice(t *testing.T) {
	is := is.New(t)
	values := configdef.Default()
	values.Capture.Backend = "opencv"
	values.Capture.Device = ""
	is.Equal(values.RunValidate().Error(), "validation failed: opencv capture needs a device")
}
