package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vishnudev3154/Judex-AI/internal/ai"
	"github.com/vishnudev3154/Judex-AI/internal/config"
	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/repo"
)

func TestNewStore_LocalCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	st, closeFn, err := newStore(context.Background(), config.StorageConfig{Backend: config.StorageLocal, UploadDir: dir})
	if err != nil {
		t.Fatalf("newStore: %v", err)
	}
	defer closeFn()

	if err := st.Put(context.Background(), "cases/a.txt", "text/plain", strings.NewReader("hello")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "cases", "a.txt")); err != nil {
		t.Fatalf("object not written under upload dir: %v", err)
	}
}

func TestNewGateway_DisabledWithoutKey(t *testing.T) {
	gw, err := newGateway(context.Background(), config.AIConfig{Timeout: time.Second})
	if err != nil {
		t.Fatalf("newGateway: %v", err)
	}
	if _, err := gw.Ask(context.Background(), "What is bail?", nil); !errors.Is(err, ai.ErrGateway) {
		t.Fatalf("disabled gateway Ask err = %v", err)
	}
	if j := gw.JudgeArgument(context.Background(), "arg", "ctx", "ev"); !j.Fallback {
		t.Fatalf("disabled gateway should fall back: %+v", j)
	}
}

func TestPurgeIdempotency_DeletesExpiredUntilCancelled(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:purge?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&domain.Idempotency{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	ctx := context.Background()
	if _, err := repo.CreateIdempotency(ctx, db, "u1", "arguments:r1", "k-expired", "e1", 200, time.Millisecond); err != nil {
		t.Fatalf("seed expired: %v", err)
	}
	if _, err := repo.CreateIdempotency(ctx, db, "u1", "arguments:r1", "k-live", "e2", 200, time.Hour); err != nil {
		t.Fatalf("seed live: %v", err)
	}

	pctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		purgeIdempotency(pctx, db, 10*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		var n int64
		db.Model(&domain.Idempotency{}).Count(&n)
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expired record not purged, %d left", n)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("purge loop did not stop on cancel")
	}
}
