// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for case
// submissions.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
)

// caseNumber is swapped by tests to force collisions.
var caseNumber = domain.NewCaseNumber

// caseNumberAttempts bounds retries on a case-number collision.
const caseNumberAttempts = 5

// CreateCase inserts a case submission with a freshly generated case number.
// A collision on the unique case number is retried with a new number; the
// number of a stored row is never changed.
func CreateCase(ctx context.Context, db *gorm.DB, ownerID, title, description string, doc domain.Attachment) (*domain.CaseSubmission, error) {
	now := time.Now().UTC()
	c := &domain.CaseSubmission{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Document:    doc,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	var err error
	for i := 0; i < caseNumberAttempts; i++ {
		c.CaseNumber = caseNumber(now)
		err = db.WithContext(ctx).Create(c).Error
		if err == nil || !IsUniqueViolation(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetCase fetches a case by id.
func GetCase(ctx context.Context, db *gorm.DB, id string) (*domain.CaseSubmission, error) {
	var c domain.CaseSubmission
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCasesByOwner returns the owner's cases, newest first. When
// reviewedOnly is set only analyzed cases are returned.
func ListCasesByOwner(ctx context.Context, db *gorm.DB, ownerID string, reviewedOnly bool) ([]domain.CaseSubmission, error) {
	var out []domain.CaseSubmission
	q := db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if reviewedOnly {
		q = q.Where("reviewed = ?", true)
	}
	err := q.Order("created_at desc, id asc").Find(&out).Error
	return out, err
}

// ListAllCases returns every case with its owner, newest first.
func ListAllCases(ctx context.Context, db *gorm.DB) ([]domain.CaseSubmission, error) {
	var out []domain.CaseSubmission
	err := db.WithContext(ctx).
		Preload("Owner").
		Order("created_at desc, id asc").
		Find(&out).Error
	return out, err
}

// SetCaseAnalysis records the analysis and marks the case reviewed. Only an
// unreviewed case is updated; otherwise ErrNotFound is returned.
func SetCaseAnalysis(ctx context.Context, db *gorm.DB, id, analysis string) error {
	res := db.WithContext(ctx).
		Model(&domain.CaseSubmission{}).
		Where("id = ? AND reviewed = ?", id, false).
		Updates(map[string]any{
			"analysis_result": analysis,
			"reviewed":        true,
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CaseCounts returns the total number of cases and how many were analyzed.
func CaseCounts(ctx context.Context, db *gorm.DB) (total, reviewed int64, err error) {
	if err = db.WithContext(ctx).Model(&domain.CaseSubmission{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = db.WithContext(ctx).Model(&domain.CaseSubmission{}).Where("reviewed = ?", true).Count(&reviewed).Error
	return total, reviewed, err
}
