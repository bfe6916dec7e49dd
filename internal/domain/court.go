package domain

import "time"

const (
	// DefaultCourtScore is the neutral score of a fresh or reset session.
	DefaultCourtScore = 50
	// DefaultEvidenceText seeds the evidence of a newly created session.
	DefaultEvidenceText = "Standard case file loaded."
)

// Verdict is the judge's ruling on a single argument.
type Verdict string

const (
	VerdictGuilty    Verdict = "Guilty"
	VerdictNotGuilty Verdict = "Not Guilty"
	VerdictMistrial  Verdict = "Mistrial"
)

// ClampScore bounds a score to [0,100].
func ClampScore(s int) int {
	switch {
	case s < 0:
		return 0
	case s > 100:
		return 100
	}
	return s
}

// VirtualCourtSession is the debate state attached one-to-one to a
// representation. CurrentScore always equals the ScoreAfter of the latest
// log entry, or DefaultCourtScore when there are none.
type VirtualCourtSession struct {
	ID               string    `json:"id"                gorm:"type:char(36);primaryKey"`
	RepresentationID string    `json:"representation_id" gorm:"type:char(36);not null;uniqueIndex:ux_court_representation"`
	Title            string    `json:"title"             gorm:"type:varchar(255);not null;default:''"`
	Description      string    `json:"description"       gorm:"type:text;not null;default:''"`
	EvidenceText     string    `json:"evidence_text"     gorm:"type:text;not null;default:''"`
	CurrentScore     int       `json:"current_score"     gorm:"not null;check:current_score BETWEEN 0 AND 100"`
	Active           bool      `json:"active"            gorm:"not null;default:true"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Representation Representation `json:"-" gorm:"foreignKey:RepresentationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for VirtualCourtSession.
func (VirtualCourtSession) TableName() string { return "court_sessions" }

// CourtDebateLogEntry records one turn: the lawyer's argument, the
// AI-generated defense and the resulting score. Turn numbers start at 1 and
// are unique per session.
type CourtDebateLogEntry struct {
	ID            string    `json:"id"             gorm:"type:char(36);primaryKey"`
	SessionID     string    `json:"session_id"     gorm:"type:char(36);not null;uniqueIndex:ux_court_turn,priority:1"`
	Turn          int       `json:"turn"           gorm:"not null;uniqueIndex:ux_court_turn,priority:2"`
	ProsecutorArg string    `json:"prosecutor_arg" gorm:"type:text;not null"`
	DefenseArg    string    `json:"defense_arg"    gorm:"type:text;not null"`
	Verdict       Verdict   `json:"verdict"        gorm:"type:varchar(20);not null;default:''"`
	Reasoning     string    `json:"reasoning"      gorm:"type:text;not null;default:''"`
	ScoreAfter    int       `json:"score_after"    gorm:"not null;check:score_after BETWEEN 0 AND 100"`
	CreatedAt     time.Time `json:"created_at"`

	Session VirtualCourtSession `json:"-" gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for CourtDebateLogEntry.
func (CourtDebateLogEntry) TableName() string { return "court_debate_logs" }
