// Package auth verifies credentials against the configured user list and
// manages session tokens in SQLite.
package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkaschner/lectern/internal/config"
)

const sessionDuration = 7 * 24 * time.Hour

// ErrInvalidCredentials is returned for unknown users or wrong passwords.
var ErrInvalidCredentials = errors.New("invalid credentials")

// User is an authenticated account.
type User struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Service provides authentication operations over an immutable credential
// list loaded once at startup.
type Service struct {
	db    *sql.DB
	users []config.User
}

// NewService creates an auth service. When no users are configured it falls
// back to a built-in admin/admin account and logs a warning.
func NewService(db *sql.DB, users []config.User, logger *slog.Logger) *Service {
	if len(users) == 0 {
		logger.Warn("no users configured, falling back to default admin account")
		users = []config.User{{Username: "admin", Password: "admin", Name: "Administrator"}}
	}

	for i := range users {
		if users[i].Name == "" {
			users[i].Name = displayName(users[i].Username)
		}
	}

	return &Service{db: db, users: users}
}

// Login authenticates a user and returns a session token with its user.
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	user, err := s.verify(username, password)
	if err != nil {
		return "", nil, err
	}

	token, err := generateToken()
	if err != nil {
		return "", nil, fmt.Errorf("generating session token: %w", err)
	}

	expiresAt := time.Now().Add(sessionDuration).UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, username, expires_at)
		VALUES (?, ?, ?)
	`, token, user.Username, expiresAt)
	if err != nil {
		return "", nil, fmt.Errorf("creating session: %w", err)
	}

	return token, user, nil
}

// ValidateSession checks a session token and returns its user.
func (s *Service) ValidateSession(ctx context.Context, token string) (*User, error) {
	var username, expiresAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT username, expires_at FROM sessions WHERE id = ?
	`, token).Scan(&username, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.New("invalid session")
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	expires, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("parsing expiry: %w", err)
	}

	if time.Now().UTC().After(expires) {
		_ = s.Logout(ctx, token)
		return nil, errors.New("session expired")
	}

	return &User{Username: username, Name: s.displayNameFor(username)}, nil
}

// Logout deletes a session.
func (s *Service) Logout(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", token)
	return err
}

// CleanExpiredSessions removes all expired sessions.
func (s *Service) CleanExpiredSessions(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM sessions WHERE expires_at < ?
	`, time.Now().UTC().Format(time.RFC3339))
	return err
}

// SessionMaxAge returns the cookie lifetime in seconds.
func SessionMaxAge() int {
	return int(sessionDuration.Seconds())
}

// verify checks username/password against the credential list. A stored
// password with a $2 prefix is treated as a bcrypt hash, anything else as
// plain text.
func (s *Service) verify(username, password string) (*User, error) {
	for _, u := range s.users {
		if u.Username != username {
			continue
		}

		if strings.HasPrefix(u.Password, "$2") {
			if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
				return nil, ErrInvalidCredentials
			}
		} else if u.Password != password {
			return nil, ErrInvalidCredentials
		}

		return &User{Username: u.Username, Name: u.Name}, nil
	}
	return nil, ErrInvalidCredentials
}

func (s *Service) displayNameFor(username string) string {
	for _, u := range s.users {
		if u.Username == username {
			return u.Name
		}
	}
	return displayName(username)
}

func displayName(username string) string {
	if username == "" {
		return ""
	}
	return strings.ToUpper(username[:1]) + username[1:]
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
