package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, org Organization) error
	FindByID(ctx context.Context, id snowflake.ID) (*Organization, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Update(ctx context.Context, org Organization) error
	Delete(ctx context.Context, id snowflake.ID) error
}
