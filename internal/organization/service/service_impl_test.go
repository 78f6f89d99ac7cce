package service

import (
	"context"
	"strings"
	"testing"

	"github.com/Harindu7/Keycloak/internal/organization/domain"
	"github.com/Harindu7/Keycloak/internal/organization/repository"
	dbpkg "github.com/Harindu7/Keycloak/pkg/db"
	"github.com/bwmarrin/snowflake"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	db, err := dbpkg.NewTest()
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	if err := db.AutoMigrate(&domain.Organization{}); err != nil {
		t.Fatalf("failed to migrate organizations: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create id generator: %v", err)
	}

	return NewService(repository.NewRepository(db), node)
}

func TestCreateAndGetOrganization(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.SetupRequest{
		Name:     "Acme Corp",
		Industry: "Manufacturing",
		Country:  "LK",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Slug != "acme-corp" {
		t.Fatalf("expected slug acme-corp, got %q", created.Slug)
	}

	loaded, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if loaded.Name != "Acme Corp" || loaded.Industry != "Manufacturing" {
		t.Fatalf("unexpected organization: %+v", loaded)
	}
}

func TestCreateDuplicateNameRejected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, domain.SetupRequest{Name: "Acme"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := svc.Create(ctx, domain.SetupRequest{Name: "Acme"})
	if err != domain.ErrNameTaken {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}
}

func TestCreateNameValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, domain.SetupRequest{Name: "A"}); err != domain.ErrInvalidName {
		t.Fatalf("expected ErrInvalidName for short name, got %v", err)
	}
	if _, err := svc.Create(ctx, domain.SetupRequest{Name: strings.Repeat("x", 101)}); err != domain.ErrInvalidName {
		t.Fatalf("expected ErrInvalidName for long name, got %v", err)
	}
	if _, err := svc.Create(ctx, domain.SetupRequest{
		Name:        "Acme",
		Description: strings.Repeat("d", 501),
	}); err != domain.ErrInvalidDescription {
		t.Fatalf("expected ErrInvalidDescription, got %v", err)
	}
}

func TestUpdateOrganization(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.SetupRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, domain.SetupRequest{
		Name: "Acme Industries",
		City: "Colombo",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Acme Industries" || updated.City != "Colombo" {
		t.Fatalf("unexpected updated organization: %+v", updated)
	}
	if updated.Slug != "acme-industries" {
		t.Fatalf("expected refreshed slug, got %q", updated.Slug)
	}
}

func TestGetUnknownOrganization(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.GetByID(context.Background(), "999999999"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "not-an-id"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
}
