package content

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/acervo/pkg/storage"
)

// AssetID names the blob holding the attachment of a record in a given role.
func AssetID(recordID uuid.UUID, role, ext string) string {
	return fmt.Sprintf("%s_%s%s", recordID, role, ext)
}

// Stager uploads the attachments of a single mutation and can undo them.
// A Stager is not safe for concurrent use.
type Stager struct {
	store  storage.System
	logger *slog.Logger
	staged []string
}

// NewStager returns a Stager writing to store.
func NewStager(store storage.System, logger *slog.Logger) *Stager {
	return &Stager{store: store, logger: logger}
}

// Stage uploads u under the asset id for recordID and role.
// A nil upload is skipped and yields nil.
func (s *Stager) Stage(ctx context.Context, recordID uuid.UUID, role string, u *Upload) (*string, error) {
	if u == nil {
		return nil, nil
	}

	id := AssetID(recordID, role, u.Ext)
	if err := s.store.Upload(ctx, id, bytes.NewReader(u.Data), u.ContentType); err != nil {
		return nil, fmt.Errorf("upload %s: %w", role, err)
	}

	s.staged = append(s.staged, id)
	return &id, nil
}

// Rollback deletes every staged blob and forgets them. Failures are logged.
func (s *Stager) Rollback(ctx context.Context) {
	Discard(ctx, s.store, s.logger, s.staged...)
	s.staged = nil
}

// Discard deletes the named blobs, skipping empty ids. Failures are logged
// and never returned: the records referencing them are already gone.
// Deletes outlive cancellation of ctx so a disconnected client leaves no
// orphaned blobs.
func Discard(ctx context.Context, store storage.System, logger *slog.Logger, ids ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, id := range ids {
		if id == "" {
			continue
		}
		if err := store.Delete(ctx, id); err != nil {
			logger.Warn("blob delete failed", "asset", id, "error", err)
		}
	}
}
