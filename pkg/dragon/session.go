package dragon

import (
	"time"

	data "github.com/tauraamui/dragoncast/pkg/database"
	"github.com/tauraamui/dragoncast/pkg/database/dbconn"
	"github.com/tauraamui/dragoncast/pkg/database/models"
	"github.com/tauraamui/dragoncast/pkg/database/repos"
	"github.com/tauraamui/dragoncast/pkg/dragon/process"
	"github.com/tauraamui/dragoncast/pkg/log"
	"github.com/tauraamui/dragoncast/pkg/transport"
)

var connectDB = func() (dbconn.GormWrapper, error) {
	return data.Connect()
}

type sessionRecorder struct {
	db      dbconn.GormWrapper
	repo    repos.SessionRepository
	session *models.Session
}

func (s *Server) sessionDetails() *models.Session {
	return &models.Session{
		Destination:    s.sender.Destination(),
		CaptureBackend: s.captureBackend.Name(),
		EncoderBackend: s.encoderBackend.Name(),
		Quality:        s.options.Quality,
		Subsampling:    s.options.Subsampling.String(),
		StartedAt:      time.Now(),
	}
}

// startSessionRecorder stores the session's opening row. Streaming goes
// ahead without a record when the database is missing or unusable.
func startSessionRecorder(session *models.Session) *sessionRecorder {
	db, err := connectDB()
	if err != nil {
		log.Warn("Unable to record stream session: %v", err)
		return nil
	}

	repo := repos.SessionRepository{DB: db}
	if err := repo.Create(session); err != nil {
		log.Warn("Unable to record stream session: %v", err)
		db.Close()
		return nil
	}

	log.Info("Recording stream session [%s]", session.UUID)
	return &sessionRecorder{db: db, repo: repo, session: session}
}

func (r *sessionRecorder) finish(stats process.StatsSnapshot, sent transport.Counters) {
	defer r.db.Close()

	endedAt := time.Now()
	r.session.EndedAt = &endedAt
	r.session.FramesCaptured = stats.FramesCaptured
	r.session.FramesSent = stats.FramesSent
	r.session.FragmentsSent = stats.FragmentsSent
	r.session.BytesSent = sent.Bytes
	r.session.Timeouts = stats.Timeouts
	r.session.CaptureFailures = stats.CaptureFailures
	r.session.EncodeFailures = stats.EncodeFailures
	r.session.SendErrors = sent.SendErrors

	if err := r.repo.Save(r.session); err != nil {
		log.Error("Unable to finish stream session record: %v", err)
		return
	}
	log.Info("Stream session [%s] lasted %s", r.session.UUID, r.session.Duration().Round(time.Millisecond))
}
