package backup

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/mkaschner/lectern/internal/database"
)

func newTestService(t *testing.T, retention int) *Service {
	t.Helper()

	db, err := database.Open(t.TempDir() + "/lectern.db")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewService(db, t.TempDir(), retention, logger)
}

func TestBackupCreatesSnapshot(t *testing.T) {
	svc := newTestService(t, 3)

	info, err := svc.Backup(context.Background())
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if info.Size == 0 {
		t.Error("expected non-empty backup file")
	}
	if !backupPattern.MatchString(info.Filename) {
		t.Errorf("unexpected filename %q", info.Filename)
	}

	backups, err := svc.ListBackups()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(backups) != 1 || backups[0].Filename != info.Filename {
		t.Errorf("unexpected listing %+v", backups)
	}
}

func TestListBackupsIgnoresForeignFiles(t *testing.T) {
	svc := newTestService(t, 3)

	if err := os.WriteFile(svc.backupDir+"/notes.txt", []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	backups, err := svc.ListBackups()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %+v", backups)
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	svc := newTestService(t, 2)

	names := []string{
		"lectern-20240101-000000.db",
		"lectern-20240102-000000.db",
		"lectern-20240103-000000.db",
	}
	for _, n := range names {
		if err := os.WriteFile(svc.backupDir+"/"+n, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := svc.Prune(); err != nil {
		t.Fatalf("prune: %v", err)
	}

	backups, err := svc.ListBackups()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("expected 2 backups after prune, got %d", len(backups))
	}
	for _, b := range backups {
		if b.Filename == "lectern-20240101-000000.db" {
			t.Error("oldest backup should have been pruned")
		}
	}
}

func TestListBackupsMissingDirReturnsEmpty(t *testing.T) {
	svc := newTestService(t, 3)
	svc.backupDir = svc.backupDir + "/nope"

	backups, err := svc.ListBackups()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if backups != nil {
		t.Errorf("expected nil, got %+v", backups)
	}
}
