package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func init() {
	registerForAutomigration(&Session{})
}

// Session records one run of the streamer, from start to shutdown.
type Session struct {
	gorm.Model
	UUID            string `gorm:"uniqueIndex"`
	Destination     string
	CaptureBackend  string
	EncoderBackend  string
	Quality         int
	Subsampling     string
	StartedAt       time.Time
	EndedAt         *time.Time
	FramesCaptured  uint64
	FramesSent      uint64
	FragmentsSent   uint64
	BytesSent       uint64
	Timeouts        uint64
	CaptureFailures uint64
	EncodeFailures  uint64
	SendErrors      uint64
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if len(s.UUID) == 0 {
		s.UUID = uuid.NewString()
	}
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now()
	}
	return nil
}

// Duration is how long the session ran, or has been running so far.
func (s *Session) Duration() time.Duration {
	if s.EndedAt == nil {
		return time.Since(s.StartedAt)
	}
	return s.EndedAt.Sub(s.StartedAt)
}
