package domain

import (
	"context"
)

type Repository interface {
	// CreateIfAbsent inserts a new record unless one already exists for the
	// subject id, then returns the record that ended up in the store. The
	// unique index on subject_id is the only concurrency guard: when two
	// logins race, the store rejects the loser and both callers read back
	// the winner's record.
	CreateIfAbsent(ctx context.Context, status AccountStatus) (*AccountStatus, error)
	FindBySubjectID(ctx context.Context, subjectID string) (*AccountStatus, error)
	FindByEmail(ctx context.Context, email string) (*AccountStatus, error)
	Update(ctx context.Context, status AccountStatus) error
}
