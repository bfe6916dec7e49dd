package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vishnudev3154/Judex-AI/internal/ai"
	"github.com/vishnudev3154/Judex-AI/internal/auth"
	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/repo"
	"github.com/vishnudev3154/Judex-AI/internal/storage"
)

// ---------- test helpers ----------

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// One connection keeps the shared in-memory database free of table locks.
	sqlDB.SetMaxOpenConns(1)
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func mustAccount(t *testing.T, db *gorm.DB, email string, role domain.Role) *domain.Account {
	t.Helper()
	var bar *string
	if role == domain.RoleLawyer {
		b := "BAR-" + email
		bar = &b
	}
	a, err := repo.CreateAccount(context.Background(), db, email, strings.Split(email, "@")[0], "hash", role, bar)
	if err != nil {
		t.Fatalf("CreateAccount(%s): %v", email, err)
	}
	return a
}

// acceptedRep creates a representation and accepts it.
func acceptedRep(t *testing.T, db *gorm.DB, client, lawyer *domain.Account, title string) *domain.Representation {
	t.Helper()
	ctx := context.Background()
	r, err := repo.CreateRepresentation(ctx, db, client.ID, lawyer.ID, title, "matter details", domain.Attachment{})
	if err != nil {
		t.Fatalf("CreateRepresentation: %v", err)
	}
	if _, err := repo.DecideRepresentation(ctx, db, r.ID, domain.StatusAccepted); err != nil {
		t.Fatalf("DecideRepresentation: %v", err)
	}
	r.Status = domain.StatusAccepted
	return r
}

func newIssuer(t *testing.T) *auth.Issuer {
	t.Helper()
	iss, err := auth.NewIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	return iss
}

// fakeGateway records calls and replays scripted results.
type fakeGateway struct {
	mu sync.Mutex

	analysis    string
	analyzeErr  error
	analyzed    []*ai.Attachment
	notes       []string
	analyzeHook func()

	answer string
	askErr error
	asked  []*ai.Attachment

	// judgments are returned in order; once exhausted a fallback is returned.
	judgments []ai.Judgment
	judged    []judgeCall
	judgeHook func()
}

type judgeCall struct {
	argument, caseContext, evidence string
}

var _ ai.Gateway = (*fakeGateway)(nil)

func (f *fakeGateway) AnalyzeDocument(_ context.Context, notes string, att *ai.Attachment) (string, error) {
	if f.analyzeHook != nil {
		f.analyzeHook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes = append(f.notes, notes)
	f.analyzed = append(f.analyzed, att)
	return f.analysis, f.analyzeErr
}

func (f *fakeGateway) Ask(_ context.Context, _ string, att *ai.Attachment) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asked = append(f.asked, att)
	return f.answer, f.askErr
}

func (f *fakeGateway) JudgeArgument(_ context.Context, argument, caseContext, evidence string) ai.Judgment {
	if f.judgeHook != nil {
		f.judgeHook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.judged = append(f.judged, judgeCall{argument, caseContext, evidence})
	if len(f.judgments) == 0 {
		return ai.FallbackJudgment(0)
	}
	j := f.judgments[0]
	f.judgments = f.judgments[1:]
	return j
}

func judged(defense string, v domain.Verdict, score int) ai.Judgment {
	return ai.Judgment{DefenseArgument: defense, Verdict: v, Score: score, Reasoning: "reasoning"}
}

// memStore is an in-memory storage.Store.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

var _ storage.Store = (*memStore)(nil)

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (m *memStore) Put(_ context.Context, key, _ string, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	return nil
}

func (m *memStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}
