package domain

import (
	"strings"
	"time"
)

// CaseSubmission is a client-authored case. It receives its case number once
// at creation and is annotated once by the AI analysis (AnalysisResult +
// Reviewed=true).
type CaseSubmission struct {
	ID             string     `json:"id"          gorm:"type:char(36);primaryKey"`
	OwnerID        string     `json:"owner_id"    gorm:"type:char(36);not null;index:idx_case_owner,priority:1"`
	CaseNumber     string     `json:"case_number" gorm:"type:varchar(30);not null;uniqueIndex:ux_case_number"`
	Title          string     `json:"title"       gorm:"type:varchar(200);not null"`
	Description    string     `json:"description" gorm:"type:text;not null;default:''"`
	Document       Attachment `json:"document"    gorm:"embedded;embeddedPrefix:document_"`
	AnalysisResult *string    `json:"analysis_result,omitempty" gorm:"type:text"`
	Reviewed       bool       `json:"reviewed"    gorm:"not null;default:false;index"`
	CreatedAt      time.Time  `json:"created_at"  gorm:"index:idx_case_owner,priority:2"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Owner *Account `json:"owner,omitempty" gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for CaseSubmission.
func (CaseSubmission) TableName() string { return "case_submissions" }

// RepresentationStatus is the state of a client→lawyer hiring request.
type RepresentationStatus string

const (
	StatusPending  RepresentationStatus = "Pending"
	StatusAccepted RepresentationStatus = "Accepted"
	StatusRejected RepresentationStatus = "Rejected"
)

// ParseRepresentationStatus accepts the canonical spelling in any case.
func ParseRepresentationStatus(s string) (RepresentationStatus, bool) {
	for _, st := range []RepresentationStatus{StatusPending, StatusAccepted, StatusRejected} {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, true
		}
	}
	return "", false
}

// CanTransition reports whether a representation in status s may move to
// next. Only Pending→Accepted and Pending→Rejected are allowed.
func (s RepresentationStatus) CanTransition(next RepresentationStatus) bool {
	return s == StatusPending && (next == StatusAccepted || next == StatusRejected)
}

// Representation links one client to one lawyer for a specific matter. It is
// the unit of scope for the case chat and the virtual court.
type Representation struct {
	ID          string               `json:"id"          gorm:"type:char(36);primaryKey"`
	ClientID    string               `json:"client_id"   gorm:"type:char(36);not null;index:idx_rep_client"`
	LawyerID    string               `json:"lawyer_id"   gorm:"type:char(36);not null;index:idx_rep_lawyer,priority:1"`
	Title       string               `json:"title"       gorm:"type:varchar(200);not null"`
	Description string               `json:"description" gorm:"type:text;not null;default:''"`
	Document    Attachment           `json:"document"    gorm:"embedded;embeddedPrefix:document_"`
	Status      RepresentationStatus `json:"status"      gorm:"type:varchar(16);not null;default:'Pending';index:idx_rep_lawyer,priority:2;check:status IN ('Pending','Accepted','Rejected')"`
	DecidedAt   *time.Time           `json:"decided_at,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`

	Client *Account `json:"client,omitempty" gorm:"foreignKey:ClientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Lawyer *Account `json:"lawyer,omitempty" gorm:"foreignKey:LawyerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Representation.
func (Representation) TableName() string { return "representations" }

// IsParty reports whether accountID is the client or the lawyer.
func (r *Representation) IsParty(accountID string) bool {
	return r != nil && accountID != "" && (accountID == r.ClientID || accountID == r.LawyerID)
}

// IsLawyer reports whether accountID is the representing lawyer.
func (r *Representation) IsLawyer(accountID string) bool {
	return r != nil && accountID != "" && accountID == r.LawyerID
}
