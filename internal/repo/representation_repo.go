// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for
// representations (client to lawyer hiring requests).
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
)

// ErrStaleStatus is returned by DecideRepresentation when the row is no
// longer Pending.
var ErrStaleStatus = errors.New("representation is not pending")

// CreateRepresentation inserts a Pending representation.
func CreateRepresentation(ctx context.Context, db *gorm.DB, clientID, lawyerID, title, description string, doc domain.Attachment) (*domain.Representation, error) {
	now := time.Now().UTC()
	r := &domain.Representation{
		ID:          uuid.NewString(),
		ClientID:    clientID,
		LawyerID:    lawyerID,
		Title:       title,
		Description: description,
		Document:    doc,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// GetRepresentation fetches a representation by id with both parties loaded.
func GetRepresentation(ctx context.Context, db *gorm.DB, id string) (*domain.Representation, error) {
	var r domain.Representation
	err := db.WithContext(ctx).
		Preload("Client").
		Preload("Lawyer").
		Where("id = ?", id).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRepresentationsForClient returns the client's representations, newest
// first, with the lawyer loaded.
func ListRepresentationsForClient(ctx context.Context, db *gorm.DB, clientID string) ([]domain.Representation, error) {
	var out []domain.Representation
	err := db.WithContext(ctx).
		Preload("Lawyer").
		Where("client_id = ?", clientID).
		Order("created_at desc, id asc").
		Find(&out).Error
	return out, err
}

// ListRepresentationsForLawyer returns the lawyer's representations, newest
// first, optionally filtered by status, with the client loaded.
func ListRepresentationsForLawyer(ctx context.Context, db *gorm.DB, lawyerID string, status *domain.RepresentationStatus) ([]domain.Representation, error) {
	var out []domain.Representation
	q := db.WithContext(ctx).
		Preload("Client").
		Where("lawyer_id = ?", lawyerID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	err := q.Order("created_at desc, id asc").Find(&out).Error
	return out, err
}

// DecideRepresentation moves a Pending row to status. The Pending guard is
// part of the UPDATE so two concurrent decisions cannot both succeed.
func DecideRepresentation(ctx context.Context, db *gorm.DB, id string, status domain.RepresentationStatus) (time.Time, error) {
	now := time.Now().UTC()
	res := db.WithContext(ctx).
		Model(&domain.Representation{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]any{
			"status":     status,
			"decided_at": now,
			"updated_at": now,
		})
	if res.Error != nil {
		return time.Time{}, res.Error
	}
	if res.RowsAffected == 0 {
		return time.Time{}, ErrStaleStatus
	}
	return now, nil
}
