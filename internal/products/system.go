package products

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for product domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(ctx context.Context, filters Filters) ([]Product, error)
	Find(ctx context.Context, id uuid.UUID) (*Product, error)
	Create(ctx context.Context, cmd CreateCommand) (*Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
