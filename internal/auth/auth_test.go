package auth

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkaschner/lectern/internal/config"
	"github.com/mkaschner/lectern/internal/database"
)

func newTestService(t *testing.T, users []config.User) *Service {
	t.Helper()

	db, err := database.Open(t.TempDir() + "/auth.db")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewService(db, users, logger)
}

func TestLoginPlainTextPassword(t *testing.T) {
	svc := newTestService(t, []config.User{
		{Username: "jane", Password: "secret", Name: "Jane"},
	})

	token, user, err := svc.Login(context.Background(), "jane", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Error("expected non-empty token")
	}
	if user.Username != "jane" || user.Name != "Jane" {
		t.Errorf("unexpected user %+v", user)
	}
}

func TestLoginBcryptPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	svc := newTestService(t, []config.User{
		{Username: "jane", Password: string(hash)},
	})

	if _, _, err := svc.Login(context.Background(), "jane", "secret"); err != nil {
		t.Fatalf("login with bcrypt hash: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "jane", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(t, []config.User{
		{Username: "jane", Password: "secret"},
	})

	if _, _, err := svc.Login(context.Background(), "nobody", "secret"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestValidateSessionRoundTrip(t *testing.T) {
	svc := newTestService(t, []config.User{
		{Username: "jane", Password: "secret", Name: "Jane"},
	})

	ctx := context.Background()
	token, _, err := svc.Login(ctx, "jane", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	user, err := svc.ValidateSession(ctx, token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if user.Username != "jane" {
		t.Errorf("expected jane, got %q", user.Username)
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.ValidateSession(ctx, token); err == nil {
		t.Error("expected error after logout")
	}
}

func TestValidateSessionRejectsUnknownToken(t *testing.T) {
	svc := newTestService(t, []config.User{
		{Username: "jane", Password: "secret"},
	})

	if _, err := svc.ValidateSession(context.Background(), "bogus"); err == nil {
		t.Error("expected error for unknown token")
	}
}

func TestValidateSessionRejectsExpired(t *testing.T) {
	svc := newTestService(t, []config.User{
		{Username: "jane", Password: "secret"},
	})

	ctx := context.Background()
	expired := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	_, err := svc.db.ExecContext(ctx, `
		INSERT INTO sessions (id, username, expires_at) VALUES (?, ?, ?)
	`, "stale", "jane", expired)
	if err != nil {
		t.Fatalf("insert session: %v", err)
	}

	if _, err := svc.ValidateSession(ctx, "stale"); err == nil {
		t.Error("expected error for expired session")
	}
}

func TestCleanExpiredSessions(t *testing.T) {
	svc := newTestService(t, []config.User{
		{Username: "jane", Password: "secret"},
	})

	ctx := context.Background()
	token, _, err := svc.Login(ctx, "jane", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	expired := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	if _, err := svc.db.ExecContext(ctx, `
		INSERT INTO sessions (id, username, expires_at) VALUES (?, ?, ?)
	`, "stale", "jane", expired); err != nil {
		t.Fatalf("insert session: %v", err)
	}

	if err := svc.CleanExpiredSessions(ctx); err != nil {
		t.Fatalf("clean: %v", err)
	}

	if _, err := svc.ValidateSession(ctx, token); err != nil {
		t.Errorf("live session should survive cleanup: %v", err)
	}
	var count int
	if err := svc.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions WHERE id = 'stale'").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Error("expired session should be removed")
	}
}

func TestDefaultAdminFallback(t *testing.T) {
	svc := newTestService(t, nil)

	_, user, err := svc.Login(context.Background(), "admin", "admin")
	if err != nil {
		t.Fatalf("login with fallback account: %v", err)
	}
	if user.Name != "Administrator" {
		t.Errorf("unexpected name %q", user.Name)
	}
}

func TestDisplayNameDefaultsToCapitalizedUsername(t *testing.T) {
	svc := newTestService(t, []config.User{
		{Username: "jane", Password: "secret"},
	})

	_, user, err := svc.Login(context.Background(), "jane", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Name != "Jane" {
		t.Errorf("expected derived name Jane, got %q", user.Name)
	}
}
