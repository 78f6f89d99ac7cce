package service

import (
	"context"
	"strings"
	"time"

	"github.com/Harindu7/Keycloak/internal/organization/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
)

const (
	nameMinLen        = 2
	nameMaxLen        = 100
	descriptionMaxLen = 500
)

type service struct {
	repo  domain.Repository
	genID *snowflake.Node
}

func NewService(repo domain.Repository, genID *snowflake.Node) domain.Service {
	return &service{
		repo:  repo,
		genID: genID,
	}
}

func (s *service) Create(ctx context.Context, req domain.SetupRequest) (*domain.OrganizationResponse, error) {
	name := strings.TrimSpace(req.Name)
	if len(name) < nameMinLen || len(name) > nameMaxLen {
		return nil, domain.ErrInvalidName
	}
	if len(req.Description) > descriptionMaxLen {
		return nil, domain.ErrInvalidDescription
	}

	taken, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrNameTaken
	}

	now := time.Now().UTC()
	org := domain.Organization{
		ID:          s.genID.Generate(),
		Name:        name,
		Slug:        slug.Make(name),
		Description: strings.TrimSpace(req.Description),
		Industry:    strings.TrimSpace(req.Industry),
		Website:     strings.TrimSpace(req.Website),
		Address:     strings.TrimSpace(req.Address),
		City:        strings.TrimSpace(req.City),
		State:       strings.TrimSpace(req.State),
		Country:     strings.TrimSpace(req.Country),
		ZipCode:     strings.TrimSpace(req.ZipCode),
		Phone:       strings.TrimSpace(req.Phone),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, org); err != nil {
		return nil, err
	}

	return toResponse(org), nil
}

func (s *service) GetByID(ctx context.Context, id string) (*domain.OrganizationResponse, error) {
	orgID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	org, err := s.repo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return toResponse(*org), nil
}

func (s *service) Update(ctx context.Context, id string, req domain.SetupRequest) (*domain.OrganizationResponse, error) {
	orgID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if len(name) < nameMinLen || len(name) > nameMaxLen {
		return nil, domain.ErrInvalidName
	}
	if len(req.Description) > descriptionMaxLen {
		return nil, domain.ErrInvalidDescription
	}

	org, err := s.repo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if name != org.Name {
		taken, err := s.repo.ExistsByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrNameTaken
		}
	}

	org.Name = name
	org.Slug = slug.Make(name)
	org.Description = strings.TrimSpace(req.Description)
	org.Industry = strings.TrimSpace(req.Industry)
	org.Website = strings.TrimSpace(req.Website)
	org.Address = strings.TrimSpace(req.Address)
	org.City = strings.TrimSpace(req.City)
	org.State = strings.TrimSpace(req.State)
	org.Country = strings.TrimSpace(req.Country)
	org.ZipCode = strings.TrimSpace(req.ZipCode)
	org.Phone = strings.TrimSpace(req.Phone)
	org.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *org); err != nil {
		return nil, err
	}
	return toResponse(*org), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	orgID, err := parseID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, orgID)
}

func (s *service) ExistsByName(ctx context.Context, name string) (bool, error) {
	return s.repo.ExistsByName(ctx, strings.TrimSpace(name))
}

func parseID(raw string) (snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.ErrNotFound
	}
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

func toResponse(org domain.Organization) *domain.OrganizationResponse {
	return &domain.OrganizationResponse{
		ID:          org.ID.String(),
		Name:        org.Name,
		Slug:        org.Slug,
		Description: org.Description,
		Industry:    org.Industry,
		Website:     org.Website,
		Address:     org.Address,
		City:        org.City,
		State:       org.State,
		Country:     org.Country,
		ZipCode:     org.ZipCode,
		Phone:       org.Phone,
	}
}
