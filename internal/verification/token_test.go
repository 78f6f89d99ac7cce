package verification

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/Harindu7/Keycloak/internal/clock"
	"github.com/stretchr/testify/require"
)

func TestIssueRedeemRoundTrip(t *testing.T) {
	clk := clock.NewFakeClock(time.UnixMilli(1000))
	codec := NewCodec(clk, DefaultTTL)

	token := codec.Issue("u-2")

	subject, err := codec.Redeem(token)
	require.NoError(t, err)
	require.Equal(t, "u-2", subject)
}

func TestRedeemExpiryBoundary(t *testing.T) {
	clk := clock.NewFakeClock(time.UnixMilli(1000))
	codec := NewCodec(clk, DefaultTTL)

	token := codec.Issue("u-2")

	clk.Advance(24*time.Hour - time.Millisecond)
	subject, err := codec.Redeem(token)
	require.NoError(t, err)
	require.Equal(t, "u-2", subject)

	clk.Advance(2 * time.Millisecond)
	_, err = codec.Redeem(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestRedeemExpiredAtExactWindow(t *testing.T) {
	clk := clock.NewFakeClock(time.UnixMilli(1000))
	codec := NewCodec(clk, DefaultTTL)

	token := codec.Issue("u-2")

	clk.Advance(24 * time.Hour)
	_, err := codec.Redeem(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected expiry at exactly 24h, got %v", err)
	}
}

func TestRedeemMalformedInput(t *testing.T) {
	clk := clock.NewFakeClock(time.UnixMilli(1000))
	codec := NewCodec(clk, DefaultTTL)

	cases := map[string]string{
		"not base64":        "%%%not-base64%%%",
		"no separator":      base64.StdEncoding.EncodeToString([]byte("justauserid")),
		"too many fields":   base64.StdEncoding.EncodeToString([]byte("u:1:2")),
		"non-numeric epoch": base64.StdEncoding.EncodeToString([]byte("u:notanumber")),
		"empty":             "",
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := codec.Redeem(token)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestSubjectWithEmptyTimestampRejected(t *testing.T) {
	clk := clock.NewFakeClock(time.UnixMilli(1000))
	codec := NewCodec(clk, DefaultTTL)

	token := base64.StdEncoding.EncodeToString([]byte("u-1:"))
	_, err := codec.Redeem(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
