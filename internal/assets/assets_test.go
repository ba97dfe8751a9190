package assets_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/acervo/internal/assets"
	"github.com/JaimeStill/acervo/pkg/routes"
	"github.com/JaimeStill/acervo/pkg/storage"
)

func newStore(t *testing.T, blobs map[string]string) storage.System {
	t.Helper()
	store, err := storage.New(&storage.Config{
		Provider:   storage.ProviderFilesystem,
		Filesystem: storage.FilesystemConfig{Root: t.TempDir()},
	}, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	for key, data := range blobs {
		if err := store.Upload(context.Background(), key, strings.NewReader(data), ""); err != nil {
			t.Fatalf("upload %s: %v", key, err)
		}
	}
	return store
}

func TestContentType(t *testing.T) {
	tests := []struct {
		id, stored, want string
	}{
		{"a_document.pdf", "", "application/pdf"},
		{"a_document.DOCX", "", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"a_material.pptx", "application/zip", "application/vnd.openxmlformats-officedocument.presentationml.presentation"},
		{"a_audio.wav", "", "audio/wav"},
		{"a_image.png", "", "image/png"},
		{"legacy", "text/plain; charset=utf-8", "text/plain"},
		{"legacy.bin", "", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := assets.ContentType(tt.id, tt.stored); got != tt.want {
				t.Errorf("ContentType(%q, %q) = %q, want %q", tt.id, tt.stored, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	store := newStore(t, map[string]string{"p1_document.pdf": "%PDF-1.4 body"})
	sys := assets.New(store, slog.New(slog.DiscardHandler))
	ctx := context.Background()

	a, err := sys.Resolve(ctx, "p1_document.pdf")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	defer a.Body.Close()

	data, _ := io.ReadAll(a.Body)
	if string(data) != "%PDF-1.4 body" {
		t.Errorf("body: got %q", data)
	}
	if a.ContentType != "application/pdf" {
		t.Errorf("content type: got %s", a.ContentType)
	}

	for _, id := range []string{"missing.pdf", "../etc/passwd", ""} {
		if _, err := sys.Resolve(ctx, id); !errors.Is(err, assets.ErrNotFound) {
			t.Errorf("Resolve(%q): got %v, want ErrNotFound", id, err)
		}
	}
}

func TestImageRoute(t *testing.T) {
	store := newStore(t, map[string]string{
		"n1_image.png": "\x89PNG\r\n\x1a\npixels",
		"legacy-image": "\xff\xd8\xff\xe0jpeg",
	})
	sys := assets.New(store, slog.New(slog.DiscardHandler))

	mux := http.NewServeMux()
	routes.Register(mux, nil, sys.Handler().Routes())

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantType   string
	}{
		{"png", "/image/n1_image.png", http.StatusOK, "image/png"},
		{"no extension", "/image/legacy-image", http.StatusOK, "image/jpeg"},
		{"missing", "/image/nope.png", http.StatusNotFound, "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Content-Type"); got != tt.wantType {
				t.Errorf("content type: got %s, want %s", got, tt.wantType)
			}
			if tt.wantStatus == http.StatusOK && rec.Header().Get("Cache-Control") != "max-age=3600" {
				t.Errorf("cache control: got %q", rec.Header().Get("Cache-Control"))
			}
		})
	}
}

func TestDownload(t *testing.T) {
	store := newStore(t, map[string]string{"e1_material.zip": "PK\x03\x04archive-bytes"})
	sys := assets.New(store, slog.New(slog.DiscardHandler))
	logger := slog.New(slog.DiscardHandler)

	t.Run("attachment", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/download-ensino/e1", nil)

		if !assets.Download(rec, req, sys, logger, "e1_material.zip") {
			t.Fatal("expected download to be sent")
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d", rec.Code)
		}
		if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename=e1_material.zip` {
			t.Errorf("disposition: got %q", got)
		}
		if rec.Header().Get("Accept-Ranges") != "bytes" {
			t.Error("missing Accept-Ranges")
		}
		if rec.Header().Get("Content-Type") != "application/zip" {
			t.Errorf("content type: got %s", rec.Header().Get("Content-Type"))
		}
	})

	t.Run("range", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/download-ensino/e1", nil)
		req.Header.Set("Range", "bytes=0-3")

		assets.Download(rec, req, sys, logger, "e1_material.zip")

		if rec.Code != http.StatusPartialContent {
			t.Fatalf("status: got %d, want 206", rec.Code)
		}
		if rec.Body.String() != "PK\x03\x04" {
			t.Errorf("body: got %q", rec.Body.String())
		}
	})

	t.Run("missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/download-ensino/e2", nil)

		if assets.Download(rec, req, sys, logger, "e2_material.zip") {
			t.Fatal("expected no download")
		}
		if rec.Code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", rec.Code)
		}
	})
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

type brokenAssets struct{}

func (brokenAssets) Handler() *assets.Handler { return nil }

func (brokenAssets) Resolve(_ context.Context, id string) (*assets.Asset, error) {
	return &assets.Asset{ID: id, Body: io.NopCloser(failingReader{}), ContentType: "application/pdf"}, nil
}

func TestDownloadReadFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/download/p1/document", nil)

	if assets.Download(rec, req, brokenAssets{}, slog.New(slog.DiscardHandler), "p1_document.pdf") {
		t.Fatal("expected no download")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "" {
		t.Errorf("disposition must not be set on failure: got %q", cd)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}
}

func TestInlineReadFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	a := &assets.Asset{ID: "n1_image.png", Body: io.NopCloser(failingReader{}), ContentType: "image/png"}

	if err := assets.Inline(rec, httptest.NewRequest("GET", "/image/n1_image.png", nil), a, time.Hour); err == nil {
		t.Fatal("expected error")
	}
	if len(rec.Header()) != 0 || rec.Body.Len() != 0 {
		t.Errorf("nothing should be written: headers %v body %q", rec.Header(), rec.Body.String())
	}
}
