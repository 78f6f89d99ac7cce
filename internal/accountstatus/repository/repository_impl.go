package repository

import (
	"context"
	"errors"

	"github.com/Harindu7/Keycloak/internal/accountstatus/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) CreateIfAbsent(ctx context.Context, status domain.AccountStatus) (*domain.AccountStatus, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subject_id"}},
			DoNothing: true,
		}).
		Create(&status).Error
	if err != nil {
		return nil, err
	}

	// Re-read so racing creators all observe the stored record.
	return r.FindBySubjectID(ctx, status.SubjectID)
}

func (r *repository) FindBySubjectID(ctx context.Context, subjectID string) (*domain.AccountStatus, error) {
	var status domain.AccountStatus
	err := r.db.WithContext(ctx).First(&status, "subject_id = ?", subjectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &status, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*domain.AccountStatus, error) {
	var status domain.AccountStatus
	err := r.db.WithContext(ctx).First(&status, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &status, nil
}

func (r *repository) Update(ctx context.Context, status domain.AccountStatus) error {
	result := r.db.WithContext(ctx).
		Model(&domain.AccountStatus{}).
		Where("subject_id = ?", status.SubjectID).
		Updates(map[string]interface{}{
			"org_setup_completed": status.OrgSetupCompleted,
			"organization_id":     status.OrganizationID,
			"updated_at":          status.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
