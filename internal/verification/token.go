// Package verification implements the stateless email-verification token
// codec. A token is base64(subjectID + ":" + issuedAtEpochMillis) and is
// accepted for a bounded window after issuance. The token carries no secret
// and is not cryptographically authenticated; anyone holding a token within
// the window can redeem it. That weakness is inherited deliberately so the
// accept/reject behavior stays byte-compatible with existing tokens.
package verification

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Harindu7/Keycloak/internal/clock"
	"github.com/Harindu7/Keycloak/internal/config"
)

const DefaultTTL = 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid_token")
	ErrTokenExpired = errors.New("token_expired")
)

// Codec issues and redeems verification tokens.
type Codec struct {
	clock clock.Clock
	ttl   time.Duration
}

func NewCodec(clk clock.Clock, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{clock: clk, ttl: ttl}
}

func NewFromConfig(cfg config.Config, clk clock.Clock) *Codec {
	return NewCodec(clk, cfg.Verification.TokenTTL)
}

// Issue binds the subject id to the current timestamp.
func (c *Codec) Issue(subjectID string) string {
	raw := subjectID + ":" + strconv.FormatInt(c.clock.Now().UnixMilli(), 10)
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// Redeem decodes a token and returns the subject id it was issued for.
// It fails with ErrInvalidToken for anything that does not decode into
// exactly two colon-separated fields with an integer timestamp, and with
// ErrTokenExpired once the validity window has elapsed.
func (c *Codec) Redeem(token string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", ErrInvalidToken
	}

	parts := strings.Split(string(decoded), ":")
	if len(parts) != 2 {
		return "", ErrInvalidToken
	}

	issuedAt, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", ErrInvalidToken
	}

	if c.clock.Now().UnixMilli()-issuedAt >= c.ttl.Milliseconds() {
		return "", ErrTokenExpired
	}

	return parts[0], nil
}
