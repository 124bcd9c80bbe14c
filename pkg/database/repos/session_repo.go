package repos

import (
	"github.com/tauraamui/dragoncast/pkg/database/dbconn"
	"github.com/tauraamui/dragoncast/pkg/database/models"
	"github.com/tauraamui/xerror"
)

type SessionRepository struct {
	DB dbconn.GormWrapper
}

func (r *SessionRepository) Create(session *models.Session) error {
	if err := r.DB.Create(session).Error(); err != nil {
		return xerror.Errorf("unable to record session: %w", err)
	}
	return nil
}

// Save writes every field of an already recorded session.
func (r *SessionRepository) Save(session *models.Session) error {
	if err := r.DB.Save(session).Error(); err != nil {
		return xerror.Errorf("unable to update session %s: %w", session.UUID, err)
	}
	return nil
}

func (r *SessionRepository) FindByUUID(uuid string) (models.Session, error) {
	session := models.Session{}
	if err := r.DB.Where("uuid = ?", uuid).First(&session).Error(); err != nil {
		return session, xerror.Errorf("session of uuid %s not found", uuid)
	}
	return session, nil
}

// FindRecent returns up to limit sessions, newest first.
func (r *SessionRepository) FindRecent(limit int) ([]models.Session, error) {
	sessions := []models.Session{}
	if err := r.DB.Order("started_at desc").Limit(limit).Find(&sessions).Error(); err != nil {
		return nil, xerror.Errorf("unable to list sessions: %w", err)
	}
	return sessions, nil
}
