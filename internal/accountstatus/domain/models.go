// Package domain contains the provisioning state for authenticated subjects.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// AccountStatus tracks where a Keycloak subject is in the onboarding flow.
// Exactly one record exists per subject id; the record is created on the
// first successful authentication and mutated only when organization setup
// completes. OrganizationID is set if and only if OrgSetupCompleted is true.
type AccountStatus struct {
	ID                snowflake.ID  `gorm:"primaryKey" json:"id"`
	SubjectID         string        `gorm:"type:text;not null;uniqueIndex:ux_account_status_subject" json:"subject_id"`
	Email             string        `gorm:"type:text;not null;uniqueIndex:ux_account_status_email" json:"email"`
	OrgSetupCompleted bool          `gorm:"not null;default:false" json:"org_setup_completed"`
	OrganizationID    *snowflake.ID `gorm:"column:organization_id" json:"organization_id,omitempty"`
	CreatedAt         time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (AccountStatus) TableName() string { return "account_status" }

// Route is a redirect target produced by the post-authentication router.
type Route string

const (
	RouteOrganizationSetup Route = "/organization-setup"
	RouteDashboard         Route = "/dashboard"
	RouteLogin             Route = "/login"
	RouteHome              Route = "/"
)
