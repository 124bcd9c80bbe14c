package configdef

import (
	"strings"
	"time"

	"github.com/tauraamui/xerror"
	"gopkg.in/dealancer/validate.v2"
)

const (
	DefaultAddress          = "127.0.0.1"
	DefaultPort             = 57956
	DefaultMaxPayloadSize   = 1300
	DefaultPacingIntervalMS = 30
	DefaultStatsIntervalS   = 10
	DefaultAcquireTimeoutMS = 500
	DefaultCaptureBackend   = "gstreamer"
	DefaultSourceElement    = "ximagesrc"
	DefaultDevice           = "0"
	DefaultMockWidth        = 640
	DefaultMockHeight       = 360
	DefaultEncoderBackend   = "opencv"
	DefaultQuality          = 90
	DefaultSubsampling      = "4:2:2"
)

var (
	captureBackends = []string{"gstreamer", "opencv", "mock"}
	encoderBackends = []string{"opencv", "mock"}
	subsamplings    = []string{"4:4:4", "4:2:2", "4:2:0", "4:4:0", "4:1:1", "444", "422", "420", "440", "411"}
)

type Destination struct {
	Address         string `json:"address" yaml:"address" validate:"empty=false"`
	Port            int    `json:"port" yaml:"port" validate:"gte=1 & lte=65535"`
	MaxPayloadSize  int    `json:"max_payload_size" yaml:"max_payload_size" validate:"gte=1 & lte=65535"`
	PadDatagrams    bool   `json:"pad_datagrams" yaml:"pad_datagrams"`
	SendBufferBytes int    `json:"send_buffer_bytes" yaml:"send_buffer_bytes" validate:"gte=0"`
}

type Capture struct {
	Backend          string `json:"backend" yaml:"backend"`
	AcquireTimeoutMS int    `json:"acquire_timeout_ms" yaml:"acquire_timeout_ms" validate:"gte=1 & lte=60000"`
	SourceElement    string `json:"source_element" yaml:"source_element"`
	Display          string `json:"display" yaml:"display"`
	ShowPointer      bool   `json:"show_pointer" yaml:"show_pointer"`
	Device           string `json:"device" yaml:"device"`
	MockWidth        int    `json:"mock_width" yaml:"mock_width" validate:"gte=1 & lte=7680"`
	MockHeight       int    `json:"mock_height" yaml:"mock_height" validate:"gte=1 & lte=4320"`
}

type Encoder struct {
	Backend     string `json:"backend" yaml:"backend"`
	Quality     int    `json:"quality" yaml:"quality" validate:"gte=0 & lte=100"`
	Subsampling string `json:"subsampling" yaml:"subsampling"`
}

type Values struct {
	Debug            bool        `json:"debug" yaml:"debug"`
	RecordSessions   bool        `json:"record_sessions" yaml:"record_sessions"`
	PacingIntervalMS int         `json:"pacing_interval_ms" yaml:"pacing_interval_ms" validate:"gte=1 & lte=10000"`
	StatsIntervalS   int         `json:"stats_interval_seconds" yaml:"stats_interval_seconds" validate:"gte=0"`
	Destination      Destination `json:"destination" yaml:"destination"`
	Capture          Capture     `json:"capture" yaml:"capture"`
	Encoder          Encoder     `json:"encoder" yaml:"encoder"`
}

// Default returns the values used for anything a config file leaves out.
func Default() Values {
	return Values{
		PacingIntervalMS: DefaultPacingIntervalMS,
		StatsIntervalS:   DefaultStatsIntervalS,
		Destination: Destination{
			Address:        DefaultAddress,
			Port:           DefaultPort,
			MaxPayloadSize: DefaultMaxPayloadSize,
		},
		Capture: Capture{
			Backend:          DefaultCaptureBackend,
			AcquireTimeoutMS: DefaultAcquireTimeoutMS,
			SourceElement:    DefaultSourceElement,
			ShowPointer:      true,
			Device:           DefaultDevice,
			MockWidth:        DefaultMockWidth,
			MockHeight:       DefaultMockHeight,
		},
		Encoder: Encoder{
			Backend:     DefaultEncoderBackend,
			Quality:     DefaultQuality,
			Subsampling: DefaultSubsampling,
		},
	}
}

// RunValidate checks every field's tag rules, then the rules spanning
// several fields.
func (v Values) RunValidate() error {
	if err := validate.Validate(&v); err != nil {
		return err
	}
	return v.Validate()
}

func (v Values) Validate() error {
	if !oneOf(v.Capture.Backend, captureBackends) {
		return xerror.Errorf("validation failed: unknown capture backend %q", v.Capture.Backend)
	}
	if !oneOf(v.Encoder.Backend, encoderBackends) {
		return xerror.Errorf("validation failed: unknown encoder backend %q", v.Encoder.Backend)
	}
	if !oneOf(v.Encoder.Subsampling, subsamplings) {
		return xerror.Errorf("validation failed: unknown chroma subsampling %q", v.Encoder.Subsampling)
	}
	if strings.EqualFold(v.Capture.Backend, "opencv") && len(v.Capture.Device) == 0 {
		return xerror.New("validation failed: opencv capture needs a device")
	}
	return nil
}

func (v Values) PacingInterval() time.Duration {
	return time.Duration(v.PacingIntervalMS) * time.Millisecond
}

func (v Values) StatsInterval() time.Duration {
	return time.Duration(v.StatsIntervalS) * time.Second
}

func (c Capture) AcquireTimeout() time.Duration {
	return time.Duration(c.AcquireTimeoutMS) * time.Millisecond
}

func oneOf(s string, options []string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, o := range options {
		if s == o {
			return true
		}
	}
	return false
}
