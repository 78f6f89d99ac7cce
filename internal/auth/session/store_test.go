package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/Harindu7/Keycloak/internal/auth/oidc"
	"github.com/Harindu7/Keycloak/internal/clock"
	dbpkg "github.com/Harindu7/Keycloak/pkg/db"
)

func newTestStore(t *testing.T) (*Store, *clock.FakeClock) {
	t.Helper()
	db, err := dbpkg.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&Session{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	clk := clock.NewFakeClock(time.Now())
	return NewStore(db, node, clk), clk
}

func TestSessionRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, oidc.Identity{
		Subject: "u-1", Email: "jane@example.com", Username: "jane", RawIDToken: "raw",
	}, time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Token == "" {
		t.Fatalf("expected a token")
	}

	found, err := store.Find(ctx, created.Token)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.SubjectID != "u-1" || found.Email != "jane@example.com" || found.IDToken != "raw" {
		t.Fatalf("unexpected session: %+v", found)
	}
}

func TestSessionUnknownToken(t *testing.T) {
	store, _ := newTestStore(t)
	if _, err := store.Find(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSessionExpires(t *testing.T) {
	store, clk := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, oidc.Identity{Subject: "u-1"}, time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	clk.Advance(time.Hour)
	if _, err := store.Find(ctx, created.Token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after expiry", err)
	}
}

func TestSessionDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, oidc.Identity{Subject: "u-1"}, time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Delete(ctx, created.Token); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Find(ctx, created.Token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}
	if err := store.Delete(ctx, created.Token); err != nil {
		t.Fatalf("deleting an unknown token should be a no-op, got %v", err)
	}
}

func TestDeleteExpiredKeepsLiveSessions(t *testing.T) {
	store, clk := newTestStore(t)
	ctx := context.Background()

	old, err := store.Create(ctx, oidc.Identity{Subject: "u-1"}, time.Minute)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	clk.Advance(30 * time.Minute)
	live, err := store.Create(ctx, oidc.Identity{Subject: "u-2"}, time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.DeleteExpired(ctx); err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if _, err := store.Find(ctx, old.Token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired session should be gone")
	}
	if _, err := store.Find(ctx, live.Token); err != nil {
		t.Fatalf("live session should survive: %v", err)
	}
}
