// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for virtual court
// sessions and their debate logs.
//
// Score and log mutations happen in a single transaction so a session's
// current_score always matches the score_after of its latest turn.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
)

// GetCourtSession fetches the session of a representation.
func GetCourtSession(ctx context.Context, db *gorm.DB, repID string) (*domain.VirtualCourtSession, error) {
	var s domain.VirtualCourtSession
	if err := db.WithContext(ctx).Where("representation_id = ?", repID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// GetOrCreateCourtSession returns the representation's session, creating it
// from seed when missing. A concurrent create losing the unique race falls
// back to reading the winner's row.
func GetOrCreateCourtSession(ctx context.Context, db *gorm.DB, seed domain.VirtualCourtSession) (*domain.VirtualCourtSession, bool, error) {
	s, err := GetCourtSession(ctx, db, seed.RepresentationID)
	if err == nil {
		return s, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	now := time.Now().UTC()
	seed.ID = uuid.NewString()
	seed.CurrentScore = domain.DefaultCourtScore
	seed.Active = true
	seed.CreatedAt = now
	seed.UpdatedAt = now
	if err := db.WithContext(ctx).Omit("Representation").Create(&seed).Error; err != nil {
		if IsUniqueViolation(err) {
			s, err := GetCourtSession(ctx, db, seed.RepresentationID)
			return s, false, err
		}
		return nil, false, err
	}
	return &seed, true, nil
}

// UpdateCourtContext overwrites the title, description and evidence of a
// session without touching its score or log.
func UpdateCourtContext(ctx context.Context, db *gorm.DB, sessionID, title, description, evidence string) error {
	res := db.WithContext(ctx).
		Model(&domain.VirtualCourtSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"title":         title,
			"description":   description,
			"evidence_text": evidence,
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ResetCourtSession deletes every log entry, resets the score to the default
// and stores the new context, atomically.
func ResetCourtSession(ctx context.Context, db *gorm.DB, sessionID, title, description, evidence string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&domain.CourtDebateLogEntry{}).Error; err != nil {
			return err
		}
		res := tx.Model(&domain.VirtualCourtSession{}).
			Where("id = ?", sessionID).
			Updates(map[string]any{
				"title":         title,
				"description":   description,
				"evidence_text": evidence,
				"current_score": domain.DefaultCourtScore,
				"active":        true,
				"updated_at":    time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// AppendCourtTurn stores entry as the next turn of its session and sets the
// session score to entry.ScoreAfter, atomically. Turn, ID and CreatedAt are
// assigned here. The unique (session_id, turn) index rejects a racing append.
func AppendCourtTurn(ctx context.Context, db *gorm.DB, entry *domain.CourtDebateLogEntry) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last struct{ Turn int }
		if err := tx.Model(&domain.CourtDebateLogEntry{}).
			Select("COALESCE(MAX(turn), 0) AS turn").
			Where("session_id = ?", entry.SessionID).
			Scan(&last).Error; err != nil {
			return err
		}
		entry.ID = uuid.NewString()
		entry.Turn = last.Turn + 1
		entry.ScoreAfter = domain.ClampScore(entry.ScoreAfter)
		entry.CreatedAt = time.Now().UTC()
		if err := tx.Omit("Session").Create(entry).Error; err != nil {
			return err
		}
		res := tx.Model(&domain.VirtualCourtSession{}).
			Where("id = ?", entry.SessionID).
			Updates(map[string]any{
				"current_score": entry.ScoreAfter,
				"updated_at":    entry.CreatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ListCourtLogs returns the session log in turn order.
func ListCourtLogs(ctx context.Context, db *gorm.DB, sessionID string) ([]domain.CourtDebateLogEntry, error) {
	var out []domain.CourtDebateLogEntry
	err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("turn ASC").
		Find(&out).Error
	return out, err
}

// GetCourtLogEntry fetches one turn of a session.
func GetCourtLogEntry(ctx context.Context, db *gorm.DB, sessionID, id string) (*domain.CourtDebateLogEntry, error) {
	var e domain.CourtDebateLogEntry
	if err := db.WithContext(ctx).Where("id = ? AND session_id = ?", id, sessionID).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}
