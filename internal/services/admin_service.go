// Package services – AdminService
//
// This file implements the administrator console: platform totals, the user
// directory, blocking and unblocking, and per-user history.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/repo"
)

// Dashboard holds the platform totals.
type Dashboard struct {
	Users    int64 `json:"users"`
	Cases    int64 `json:"cases"`
	Analyzed int64 `json:"analyzed"`
	Pending  int64 `json:"pending"`
}

// UserDirectory splits non-admin accounts by role.
type UserDirectory struct {
	Lawyers []domain.Account `json:"lawyers"`
	Clients []domain.Account `json:"clients"`
}

// UserHistory is everything a user authored.
type UserHistory struct {
	Account        *domain.Account        `json:"account"`
	Cases          []domain.CaseSubmission `json:"cases"`
	AssistantChats []domain.AssistantChat  `json:"assistant_chats"`
}

// AdminService serves the admin console. Every method requires an admin
// actor.
type AdminService struct {
	DB *gorm.DB
}

// Dashboard returns the platform totals.
func (s *AdminService) Dashboard(ctx context.Context, actor *domain.Account) (*Dashboard, error) {
	if !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}
	users, err := repo.CountAccounts(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	total, reviewed, err := repo.CaseCounts(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Users: users, Cases: total, Analyzed: reviewed, Pending: total - reviewed}, nil
}

// ListUsers returns lawyers and clients.
func (s *AdminService) ListUsers(ctx context.Context, actor *domain.Account) (*UserDirectory, error) {
	if !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}
	lawyers, err := repo.ListAccountsByRole(ctx, s.DB, domain.RoleLawyer)
	if err != nil {
		return nil, err
	}
	clients, err := repo.ListAccountsByRole(ctx, s.DB, domain.RoleClient)
	if err != nil {
		return nil, err
	}
	return &UserDirectory{Lawyers: lawyers, Clients: clients}, nil
}

// ToggleActive blocks an active account or unblocks a blocked one.
// Administrators cannot be blocked.
func (s *AdminService) ToggleActive(ctx context.Context, actor *domain.Account, userID string) (*domain.Account, error) {
	if !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}
	acct, err := repo.GetAccount(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if acct.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := repo.SetAccountActive(ctx, s.DB, acct.ID, !acct.Active); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	acct.Active = !acct.Active
	return acct, nil
}

// AllCases returns every case with its owner.
func (s *AdminService) AllCases(ctx context.Context, actor *domain.Account) ([]domain.CaseSubmission, error) {
	if !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}
	return repo.ListAllCases(ctx, s.DB)
}

// UserHistory returns a user's cases and assistant chats.
func (s *AdminService) UserHistory(ctx context.Context, actor *domain.Account, userID string) (*UserHistory, error) {
	if !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}
	acct, err := repo.GetAccount(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	cases, err := repo.ListCasesByOwner(ctx, s.DB, acct.ID, false)
	if err != nil {
		return nil, err
	}
	chats, err := repo.ListAssistantChats(ctx, s.DB, acct.ID)
	if err != nil {
		return nil, err
	}
	return &UserHistory{Account: acct, Cases: cases, AssistantChats: chats}, nil
}
