package ensino

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for teaching resource operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(ctx context.Context, filters Filters) ([]Ensino, error)
	Find(ctx context.Context, id uuid.UUID) (*Ensino, error)
	Create(ctx context.Context, cmd CreateCommand) (*Ensino, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
