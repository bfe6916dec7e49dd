// Package services – CourtService
//
// This file implements the virtual court engine. Each representation owns at
// most one debate session. The session moves through three states:
// uninitialized (no row), initialized (no log entries, score 50) and in
// debate (one or more log entries). Initialize returns a session to the
// initialized state.
//
// Mutations of a session are serialized per representation with a
// context-aware keyed lock that is held across the gateway call; the turn
// number is additionally protected by a unique (session, turn) index.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/vishnudev3154/Judex-AI/internal/ai"
	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/extract"
	"github.com/vishnudev3154/Judex-AI/internal/lock"
	"github.com/vishnudev3154/Judex-AI/internal/repo"
	"github.com/vishnudev3154/Judex-AI/internal/search"
)

// transcriptRule separates transcript turns.
const transcriptRule = "----------------------------------------"

var courtTurns = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "court_turns_total",
		Help: "Court arguments by outcome (scored, fallback).",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(courtTurns)
}

// CourtState is a session with its log in turn order.
type CourtState struct {
	Session *domain.VirtualCourtSession `json:"session"`
	Logs    []domain.CourtDebateLogEntry `json:"logs"`
}

// ArgumentResult is the outcome of SubmitArgument. Entry is nil when the
// judgment is a fallback, in which case nothing was recorded and Score is the
// unchanged session score. Replayed marks a turn answered from a RetryKey.
type ArgumentResult struct {
	ai.Judgment
	Entry    *domain.CourtDebateLogEntry `json:"entry,omitempty"`
	Replayed bool                        `json:"-"`
}

// RetryKey is a client Idempotency-Key and the resource scope it was sent to.
// The zero value disables replays.
type RetryKey struct {
	Scope string
	Key   string
}

func (k RetryKey) enabled() bool { return k.Scope != "" && k.Key != "" }

// DefaultRetryTTL is how long a recorded turn answers its RetryKey.
const DefaultRetryTTL = 24 * time.Hour

// CourtService owns the debate sessions.
type CourtService struct {
	DB    *gorm.DB
	AI    ai.Gateway
	Chat  *CaseChatService
	Locks *lock.Keyed

	// MaxEvidencePages bounds evidence extraction from PDFs.
	MaxEvidencePages int
	// EvidenceBudget caps the evidence runes sent with each argument; longer
	// evidence is narrowed to the passages relevant to the argument. Zero
	// sends it whole.
	EvidenceBudget int
	// RetryTTL is how long a recorded turn answers its RetryKey.
	RetryTTL time.Duration

	// Now is used for transcript dates; nil means time.Now.
	Now func() time.Time
}

// DefaultEvidenceBudget is the evidence rune budget used by NewCourtService.
const DefaultEvidenceBudget = 12000

// NewCourtService wires a CourtService with its own lock table.
func NewCourtService(db *gorm.DB, gw ai.Gateway, chat *CaseChatService) *CourtService {
	return &CourtService{
		DB:               db,
		AI:               gw,
		Chat:             chat,
		Locks:            lock.New(),
		MaxEvidencePages: extract.DefaultMaxPages,
		EvidenceBudget:   DefaultEvidenceBudget,
		RetryTTL:         DefaultRetryTTL,
	}
}

// GetOrCreate returns the representation's session, creating it on first
// access. Either party may call it.
func (s *CourtService) GetOrCreate(ctx context.Context, actor *domain.Account, repID string) (*CourtState, error) {
	ctx, span := s.start(ctx, "GetOrCreate", repID)
	defer span.End()

	rep, err := loadAsParty(ctx, s.DB, actor, repID)
	if err != nil {
		return nil, err
	}
	sess, err := s.session(ctx, rep)
	if err != nil {
		return nil, err
	}
	return s.state(ctx, sess)
}

// Initialize resets the debate. Blank title or description keep the previous
// values; a document that yields no text keeps the previous evidence.
func (s *CourtService) Initialize(ctx context.Context, actor *domain.Account, repID, title, description string, doc *Upload) (*CourtState, error) {
	ctx, span := s.start(ctx, "Initialize", repID)
	defer span.End()

	rep, err := loadAsLawyer(ctx, s.DB, actor, repID)
	if err != nil {
		return nil, err
	}
	release, err := s.Locks.Acquire(ctx, rep.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	sess, err := s.session(ctx, rep)
	if err != nil {
		return nil, err
	}
	if t := strings.TrimSpace(title); t != "" {
		sess.Title = t
	}
	if d := strings.TrimSpace(description); d != "" {
		sess.Description = d
	}
	if ev, ok := s.evidence(doc, sess.ID); ok {
		sess.EvidenceText = ev
	}
	if err := repo.ResetCourtSession(ctx, s.DB, sess.ID, sess.Title, sess.Description, sess.EvidenceText); err != nil {
		return nil, err
	}
	sess.CurrentScore = domain.DefaultCourtScore
	sess.Active = true
	return &CourtState{Session: sess, Logs: []domain.CourtDebateLogEntry{}}, nil
}

// evidence extracts text from an uploaded evidence document. Failures are
// logged and reported as !ok.
func (s *CourtService) evidence(doc *Upload, sessionID string) (string, bool) {
	if doc == nil || len(doc.Data) == 0 {
		return "", false
	}
	doc.detect()
	logger := log.With().Str("session_id", sessionID).Str("file", doc.Name).Logger()
	if !extract.IsText(doc.MIME) {
		logger.Warn().Str("mime", doc.MIME).Msg("evidence type carries no text; keeping previous evidence")
		return "", false
	}
	text, err := extract.Text(doc.MIME, doc.Data, s.maxEvidencePages())
	if err != nil {
		logger.Warn().Err(err).Msg("evidence extraction failed; keeping previous evidence")
		return "", false
	}
	if strings.TrimSpace(text) == "" {
		logger.Warn().Msg("evidence document is empty; keeping previous evidence")
		return "", false
	}
	return text, true
}

// LoadFromChat copies the latest forwarded case packet of the chat into the
// case context. The log and score are left alone.
func (s *CourtService) LoadFromChat(ctx context.Context, actor *domain.Account, repID string) (*CourtState, error) {
	ctx, span := s.start(ctx, "LoadFromChat", repID)
	defer span.End()

	rep, err := loadAsLawyer(ctx, s.DB, actor, repID)
	if err != nil {
		return nil, err
	}
	release, err := s.Locks.Acquire(ctx, rep.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	m, err := repo.LatestCaseChatMessageOfKind(ctx, s.DB, rep.ID, domain.KindForwardedCase)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNoForwardedCase
		}
		return nil, err
	}
	sess, err := s.session(ctx, rep)
	if err != nil {
		return nil, err
	}
	sess.Title = "Debate: " + rep.Title
	sess.Description = m.Text
	if err := repo.UpdateCourtContext(ctx, s.DB, sess.ID, sess.Title, sess.Description, sess.EvidenceText); err != nil {
		return nil, err
	}
	return s.state(ctx, sess)
}

// SubmitArgument judges one prosecution argument. A failed judgment is not an
// error: it returns a Mistrial fallback at the current score and records
// nothing.
//
// With an enabled retry key the turn is recorded under it in the same
// transaction, and a later call with the same key returns that turn without
// judging again. The key is checked under the session lock, so a retry sent
// while the first call is still in flight waits and then replays.
func (s *CourtService) SubmitArgument(ctx context.Context, actor *domain.Account, repID, argument string, retry RetryKey) (*ArgumentResult, error) {
	ctx, span := s.start(ctx, "SubmitArgument", repID)
	defer span.End()

	rep, err := loadAsLawyer(ctx, s.DB, actor, repID)
	if err != nil {
		return nil, err
	}
	argument = strings.TrimSpace(argument)
	if argument == "" {
		return nil, ErrEmptyArgument
	}
	release, err := s.Locks.Acquire(ctx, rep.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	sess, err := s.session(ctx, rep)
	if err != nil {
		return nil, err
	}
	if retry.enabled() {
		if prev, found := s.replay(ctx, actor.ID, sess.ID, retry); found {
			span.SetAttributes(attribute.Bool("court.replayed", true))
			return prev, nil
		}
	}

	evidence := search.Focus(sess.EvidenceText, argument, s.EvidenceBudget)
	j := s.AI.JudgeArgument(ctx, argument, sess.Description, evidence)
	if j.Fallback {
		courtTurns.WithLabelValues("fallback").Inc()
		log.Warn().Str("session_id", sess.ID).Str("representation_id", rep.ID).Msg("court argument fell back to mistrial")
		j.Score = sess.CurrentScore
		return &ArgumentResult{Judgment: j}, nil
	}

	entry := &domain.CourtDebateLogEntry{
		SessionID:     sess.ID,
		ProsecutorArg: argument,
		DefenseArg:    j.DefenseArgument,
		Verdict:       j.Verdict,
		Reasoning:     j.Reasoning,
		ScoreAfter:    j.Score,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.AppendCourtTurn(ctx, tx, entry); err != nil {
			return err
		}
		if !retry.enabled() {
			return nil
		}
		_, err := repo.CreateIdempotency(ctx, tx, actor.ID, retry.Scope, retry.Key, entry.ID, http.StatusOK, s.retryTTL())
		if errors.Is(err, repo.ErrDuplicate) {
			// The key's earlier turn was cleared by Initialize.
			return repo.RebindIdempotency(ctx, tx, actor.ID, retry.Scope, retry.Key, entry.ID)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("append court turn: %w", err)
	}
	courtTurns.WithLabelValues("scored").Inc()
	span.SetAttributes(attribute.Int("court.turn", entry.Turn), attribute.Int("court.score", entry.ScoreAfter))
	j.Score = entry.ScoreAfter
	return &ArgumentResult{Judgment: j, Entry: entry}, nil
}

// replay returns the turn recorded under retry. A key whose turn is gone,
// for example after Initialize cleared the log, is treated as unseen.
func (s *CourtService) replay(ctx context.Context, userID, sessionID string, retry RetryKey) (*ArgumentResult, bool) {
	rec, err := repo.GetIdempotency(ctx, s.DB, userID, retry.Scope, retry.Key, time.Now().UTC())
	if err != nil {
		return nil, false
	}
	e, err := repo.GetCourtLogEntry(ctx, s.DB, sessionID, rec.ResourceID)
	if err != nil {
		return nil, false
	}
	return &ArgumentResult{
		Judgment: ai.Judgment{
			DefenseArgument: e.DefenseArg,
			Verdict:         e.Verdict,
			Score:           e.ScoreAfter,
			Reasoning:       e.Reasoning,
		},
		Entry:    e,
		Replayed: true,
	}, true
}

func (s *CourtService) retryTTL() time.Duration {
	if s.RetryTTL <= 0 {
		return DefaultRetryTTL
	}
	return s.RetryTTL
}

// CompileTranscript posts the numbered transcript of the debate into the
// case chat on behalf of the lawyer.
func (s *CourtService) CompileTranscript(ctx context.Context, actor *domain.Account, repID string) (*domain.CaseChatMessage, error) {
	ctx, span := s.start(ctx, "CompileTranscript", repID)
	defer span.End()

	rep, err := loadAsLawyer(ctx, s.DB, actor, repID)
	if err != nil {
		return nil, err
	}
	release, err := s.Locks.Acquire(ctx, rep.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	sess, err := repo.GetCourtSession(ctx, s.DB, rep.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNoLogs
		}
		return nil, err
	}
	logs, err := repo.ListCourtLogs(ctx, s.DB, sess.ID)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, ErrNoLogs
	}

	payload, err := domain.EncodePayload(domain.TranscriptPayload{
		SessionID:  sess.ID,
		Turns:      len(logs),
		FinalScore: sess.CurrentScore,
	})
	if err != nil {
		return nil, err
	}
	m := &domain.CaseChatMessage{
		RepresentationID: rep.ID,
		SenderID:         actor.ID,
		Kind:             domain.KindTranscript,
		Text:             TranscriptText(rep.Title, sess, logs, s.now()),
		Payload:          payload,
	}
	if err := s.Chat.postPacket(ctx, s.DB, m); err != nil {
		return nil, err
	}
	m.Sender = actor
	return m, nil
}

// TranscriptText renders a debate as the transcript packet text under the
// representation's case title; the session title may carry a "Debate:"
// prefix and is not used. The output depends only on its arguments.
func TranscriptText(caseTitle string, sess *domain.VirtualCourtSession, logs []domain.CourtDebateLogEntry, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📜 **%s**\nCase: %s\nDate: %s\n%s\n\n",
		domain.TranscriptMarker, caseTitle, at.Format("2006-01-02"), packetRule)
	for i, e := range logs {
		n := i + 1
		fmt.Fprintf(&b, "**Turn %d: Prosecution (You)**\n%s\n\n", n, e.ProsecutorArg)
		fmt.Fprintf(&b, "**Turn %d: Defense (AI)**\n%s\n%s\n\n", n, e.DefenseArg, transcriptRule)
	}
	fmt.Fprintf(&b, "**Final Score:** %d/100", sess.CurrentScore)
	return b.String()
}

// session loads or creates the representation's session.
func (s *CourtService) session(ctx context.Context, rep *domain.Representation) (*domain.VirtualCourtSession, error) {
	sess, created, err := repo.GetOrCreateCourtSession(ctx, s.DB, domain.VirtualCourtSession{
		RepresentationID: rep.ID,
		Title:            rep.Title,
		Description:      rep.Description,
		EvidenceText:     domain.DefaultEvidenceText,
	})
	if err != nil {
		return nil, err
	}
	if created {
		log.Info().Str("session_id", sess.ID).Str("representation_id", rep.ID).Msg("court session created")
	}
	return sess, nil
}

func (s *CourtService) state(ctx context.Context, sess *domain.VirtualCourtSession) (*CourtState, error) {
	logs, err := repo.ListCourtLogs(ctx, s.DB, sess.ID)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []domain.CourtDebateLogEntry{}
	}
	return &CourtState{Session: sess, Logs: logs}, nil
}

func (s *CourtService) start(ctx context.Context, op, repID string) (context.Context, trace.Span) {
	return otel.Tracer("services/CourtService").Start(ctx, op,
		trace.WithAttributes(attribute.String("representation.id", repID)),
	)
}

func (s *CourtService) maxEvidencePages() int {
	if s.MaxEvidencePages > 0 {
		return s.MaxEvidencePages
	}
	return extract.DefaultMaxPages
}

func (s *CourtService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
