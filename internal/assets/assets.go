// Package assets resolves asset identifiers to blob content and serves it.
// Reads are public: any client holding an identifier may fetch the asset.
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/JaimeStill/acervo/pkg/storage"
)

// ErrNotFound indicates the asset identifier does not resolve to a blob.
var ErrNotFound = errors.New("asset not found")

const octetStream = "application/octet-stream"

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".zip":  "application/zip",
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// Asset is resolved blob content. The caller must close Body.
type Asset struct {
	ID          string
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// System resolves asset identifiers.
type System interface {
	Handler() *Handler
	// Resolve opens the asset. Unknown or malformed identifiers yield ErrNotFound.
	Resolve(ctx context.Context, id string) (*Asset, error)
}

type resolver struct {
	store  storage.System
	logger *slog.Logger
}

// New creates an asset resolver over store.
func New(store storage.System, logger *slog.Logger) System {
	return &resolver{
		store:  store,
		logger: logger.With("system", "assets"),
	}
}

func (r *resolver) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *resolver) Resolve(ctx context.Context, id string) (*Asset, error) {
	blob, err := r.store.Download(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) ||
			errors.Is(err, storage.ErrInvalidKey) ||
			errors.Is(err, storage.ErrEmptyKey) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("download asset %s: %w", id, err)
	}

	return &Asset{
		ID:          id,
		Body:        blob.Body,
		ContentType: ContentType(id, blob.ContentType),
		Size:        blob.ContentLength,
	}, nil
}

// ContentType returns the media type for an asset: by extension first, then
// the type recorded by the store, then application/octet-stream.
func ContentType(id, stored string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(id))]; ok {
		return ct
	}
	if stored != "" {
		if mt, _, err := mime.ParseMediaType(stored); err == nil {
			return mt
		}
	}
	return octetStream
}

// Attach writes a as a download. Range requests are honored. Nothing is
// written when an error is returned.
func Attach(w http.ResponseWriter, r *http.Request, a *Asset) error {
	data, err := read(a)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.ID}))
	send(w, r, a, data)
	return nil
}

// Inline writes a for display with a public cache lifetime. Nothing is
// written when an error is returned.
func Inline(w http.ResponseWriter, r *http.Request, a *Asset, maxAge time.Duration) error {
	data, err := read(a)
	if err != nil {
		return err
	}

	w.Header().Set("Cache-Control", "max-age="+strconv.Itoa(int(maxAge.Seconds())))
	send(w, r, a, data)
	return nil
}

// read buffers the blob so http.ServeContent can answer Range and HEAD
// requests. Assets are bounded by the upload limit.
func read(a *Asset) ([]byte, error) {
	defer a.Body.Close()

	data, err := io.ReadAll(a.Body)
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", a.ID, err)
	}
	return data, nil
}

func send(w http.ResponseWriter, r *http.Request, a *Asset, data []byte) {
	w.Header().Set("Content-Type", a.ContentType)
	http.ServeContent(w, r, a.ID, time.Time{}, bytes.NewReader(data))
}

// MapHTTPStatus maps asset errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
