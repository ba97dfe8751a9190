package extensao

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for outreach operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(ctx context.Context, filters Filters) ([]Extensao, error)
	Find(ctx context.Context, id uuid.UUID) (*Extensao, error)
	Create(ctx context.Context, cmd CreateCommand) (*Extensao, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
