package news

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/acervo/pkg/pagination"
)

// System defines the public contract for news domain operations.
type System interface {
	Handler(maxUploadSize int64, page pagination.Config) *Handler

	List(ctx context.Context, filters Filters) ([]News, error)
	Find(ctx context.Context, id uuid.UUID) (*News, error)
	Create(ctx context.Context, cmd Command) (*News, error)
	Update(ctx context.Context, id uuid.UUID, cmd Command) (*News, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
