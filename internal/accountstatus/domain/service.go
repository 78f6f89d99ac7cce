package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrNotFound       = errors.New("account_status_not_found")
	ErrInvalidSubject = errors.New("invalid_subject")
)

// Service is the account-provisioning state machine. States are derived from
// the stored record: no record is Unregistered, a record with
// OrgSetupCompleted=false is PendingSetup, and OrgSetupCompleted=true is
// Complete. Transitions are one-directional.
type Service interface {
	// ResolveRoute returns the redirect target for a freshly authenticated
	// subject. For a previously unseen subject it creates the PendingSetup
	// record as a side effect; this is the sole creator of AccountStatus
	// records.
	ResolveRoute(ctx context.Context, subjectID, email string) (Route, error)

	// CompleteSetup transitions PendingSetup to Complete and binds the
	// organization. It fails with ErrNotFound when no record exists and
	// never creates one. Calling it again overwrites the organization id;
	// that permissive behavior is intentional.
	CompleteSetup(ctx context.Context, subjectID string, organizationID snowflake.ID) (*AccountStatus, error)

	// IsComplete reports whether organization setup finished. Absent
	// records are not complete.
	IsComplete(ctx context.Context, subjectID string) bool

	FindBySubjectID(ctx context.Context, subjectID string) (*AccountStatus, error)
}
