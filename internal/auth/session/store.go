package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/Harindu7/Keycloak/internal/auth/oidc"
	"github.com/Harindu7/Keycloak/internal/clock"
)

const (
	tokenBytes = 32
	DefaultTTL = 12 * time.Hour
)

var ErrNotFound = errors.New("session: not found")

// Session is a server-side login session keyed by an opaque cookie token.
type Session struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Token     string       `gorm:"uniqueIndex:ux_session_token;size:64"`
	SubjectID string       `gorm:"index:ix_session_subject"`
	Email     string
	Username  string
	IDToken   string `gorm:"type:text"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (Session) TableName() string {
	return "auth_sessions"
}

// Store persists sessions so logins survive a restart.
type Store struct {
	db    *gorm.DB
	genID *snowflake.Node
	clk   clock.Clock
}

func NewStore(db *gorm.DB, genID *snowflake.Node, clk clock.Clock) *Store {
	return &Store{db: db, genID: genID, clk: clk}
}

// Create opens a session for the identity and returns it with a fresh
// opaque token.
func (s *Store) Create(ctx context.Context, identity oidc.Identity, ttl time.Duration) (Session, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	token, err := randomToken()
	if err != nil {
		return Session{}, err
	}
	now := s.clk.Now()
	sess := Session{
		ID:        s.genID.Generate(),
		Token:     token,
		SubjectID: identity.Subject,
		Email:     identity.Email,
		Username:  identity.Username,
		IDToken:   identity.RawIDToken,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return Session{}, fmt.Errorf("session: create: %w", err)
	}
	return sess, nil
}

// Find resolves a cookie token to a live session. Expired sessions are
// deleted on sight and reported as ErrNotFound.
func (s *Store) Find(ctx context.Context, token string) (Session, error) {
	var sess Session
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("session: find: %w", err)
	}
	if !s.clk.Now().Before(sess.ExpiresAt) {
		_ = s.db.WithContext(ctx).Delete(&Session{}, "token = ?", token).Error
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Delete removes the session for the token. Deleting an unknown token is
// not an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.db.WithContext(ctx).Delete(&Session{}, "token = ?", token).Error; err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}

// DeleteExpired clears out sessions past their deadline.
func (s *Store) DeleteExpired(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Delete(&Session{}, "expires_at <= ?", s.clk.Now()).Error; err != nil {
		return fmt.Errorf("session: delete expired: %w", err)
	}
	return nil
}

func randomToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("session: random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
