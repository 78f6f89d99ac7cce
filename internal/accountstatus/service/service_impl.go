package service

import (
	"context"
	"strings"
	"time"

	"github.com/Harindu7/Keycloak/internal/accountstatus/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

type service struct {
	repo  domain.Repository
	genID *snowflake.Node
	log   *zap.Logger
}

func NewService(repo domain.Repository, genID *snowflake.Node, log *zap.Logger) domain.Service {
	return &service{
		repo:  repo,
		genID: genID,
		log:   log,
	}
}

func (s *service) ResolveRoute(ctx context.Context, subjectID, email string) (domain.Route, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return domain.RouteHome, domain.ErrInvalidSubject
	}

	status, err := s.repo.FindBySubjectID(ctx, subjectID)
	if err == domain.ErrNotFound {
		now := time.Now().UTC()
		status, err = s.repo.CreateIfAbsent(ctx, domain.AccountStatus{
			ID:                s.genID.Generate(),
			SubjectID:         subjectID,
			Email:             strings.TrimSpace(email),
			OrgSetupCompleted: false,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
		if err != nil {
			return domain.RouteHome, err
		}
		s.log.Info("account status created",
			zap.String("subject_id", subjectID))
		return domain.RouteOrganizationSetup, nil
	}
	if err != nil {
		return domain.RouteHome, err
	}

	if !status.OrgSetupCompleted {
		return domain.RouteOrganizationSetup, nil
	}
	return domain.RouteDashboard, nil
}

func (s *service) CompleteSetup(ctx context.Context, subjectID string, organizationID snowflake.ID) (*domain.AccountStatus, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return nil, domain.ErrInvalidSubject
	}

	status, err := s.repo.FindBySubjectID(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	orgID := organizationID
	status.OrganizationID = &orgID
	status.OrgSetupCompleted = true
	status.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *status); err != nil {
		return nil, err
	}

	s.log.Info("organization setup completed",
		zap.String("subject_id", subjectID),
		zap.String("organization_id", organizationID.String()))
	return status, nil
}

func (s *service) IsComplete(ctx context.Context, subjectID string) bool {
	status, err := s.repo.FindBySubjectID(ctx, subjectID)
	if err != nil {
		return false
	}
	return status.OrgSetupCompleted
}

func (s *service) FindBySubjectID(ctx context.Context, subjectID string) (*domain.AccountStatus, error) {
	return s.repo.FindBySubjectID(ctx, subjectID)
}
