package news_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/acervo/internal/news"
	"github.com/JaimeStill/acervo/pkg/pagination"
	"github.com/JaimeStill/acervo/pkg/routes"
)

type mockSystem struct {
	list   func(ctx context.Context, f news.Filters) ([]news.News, error)
	find   func(ctx context.Context, id uuid.UUID) (*news.News, error)
	create func(ctx context.Context, cmd news.Command) (*news.News, error)
	update func(ctx context.Context, id uuid.UUID, cmd news.Command) (*news.News, error)
	delete func(ctx context.Context, id uuid.UUID) error
}

func (m *mockSystem) Handler(int64, pagination.Config) *news.Handler { return nil }

func (m *mockSystem) List(ctx context.Context, f news.Filters) ([]news.News, error) {
	return m.list(ctx, f)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*news.News, error) {
	return m.find(ctx, id)
}

func (m *mockSystem) Create(ctx context.Context, cmd news.Command) (*news.News, error) {
	return m.create(ctx, cmd)
}

func (m *mockSystem) Update(ctx context.Context, id uuid.UUID, cmd news.Command) (*news.News, error) {
	return m.update(ctx, id, cmd)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

func newMux(sys news.System, guard routes.Guard) *http.ServeMux {
	if guard == nil {
		guard = func(next http.HandlerFunc, _ routes.Access) http.HandlerFunc { return next }
	}
	mux := http.NewServeMux()
	routes.Register(mux, guard, news.NewHandler(sys, discard(), 1<<20, pagination.Config{MaxLimit: 50}).Routes())
	return mux
}

func form(t *testing.T, method, target string, fields map[string]string, file, filename string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		w.WriteField(k, v)
	}
	if filename != "" {
		fw, err := w.CreateFormFile(file, filename)
		if err != nil {
			t.Fatal(err)
		}
		io.WriteString(fw, "\x89PNG\r\n\x1a\n")
	}
	w.Close()

	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", w.FormDataContentType())
	return r
}

func serve(mux *http.ServeMux, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, r)
	return rec
}

var fields = map[string]string{
	"title":    "Title",
	"content":  "Body",
	"category": "Eventos",
	"author":   "Equipe",
}

func TestHandlerListCategory(t *testing.T) {
	var got news.Filters
	mux := newMux(&mockSystem{
		list: func(_ context.Context, f news.Filters) ([]news.News, error) {
			got = f
			return []news.News{}, nil
		},
	}, nil)

	rec := serve(mux, httptest.NewRequest("GET", "/news?category=Eventos", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if got.Category == nil || *got.Category != "Eventos" {
		t.Errorf("category: got %v", got.Category)
	}
}

func TestHandlerListWindow(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		want       pagination.Window
	}{
		{"full listing", "/news", http.StatusOK, pagination.Window{}},
		{"skip and limit", "/news?skip=10&limit=10", http.StatusOK, pagination.Window{Skip: 10, Limit: 10}},
		{"limit clamped", "/news?limit=1000", http.StatusOK, pagination.Window{Limit: 50}},
		{"bad skip", "/news?skip=-1", http.StatusBadRequest, pagination.Window{}},
		{"bad limit", "/news?limit=ten", http.StatusBadRequest, pagination.Window{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got news.Filters
			called := false
			mux := newMux(&mockSystem{
				list: func(_ context.Context, f news.Filters) ([]news.News, error) {
					called = true
					got = f
					return []news.News{}, nil
				},
			}, nil)

			rec := serve(mux, httptest.NewRequest("GET", tt.target, nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				if called {
					t.Error("List must not run for an invalid window")
				}
				return
			}
			if got.Window != tt.want {
				t.Errorf("window: got %+v, want %+v", got.Window, tt.want)
			}
		})
	}
}

func TestHandlerCreateWithImage(t *testing.T) {
	var got news.Command
	mux := newMux(&mockSystem{
		create: func(_ context.Context, cmd news.Command) (*news.News, error) {
			got = cmd
			return &news.News{ID: uuid.New(), Title: cmd.Title}, nil
		},
	}, nil)

	rec := serve(mux, form(t, "POST", "/news", fields, "image_file", "cover.png"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if got.Image == nil || got.Image.Ext != ".png" || got.Image.ContentType != "image/png" {
		t.Errorf("image: got %+v", got.Image)
	}
}

func TestHandlerCreateRejectsImageType(t *testing.T) {
	mux := newMux(&mockSystem{
		create: func(context.Context, news.Command) (*news.News, error) {
			t.Error("repository must not be called")
			return nil, nil
		},
	}, nil)

	rec := serve(mux, form(t, "POST", "/news", fields, "image_file", "cover.bmp"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestHandlerUpdate(t *testing.T) {
	id := uuid.New()
	mux := newMux(&mockSystem{
		update: func(_ context.Context, got uuid.UUID, cmd news.Command) (*news.News, error) {
			if got != id {
				return nil, news.ErrNotFound
			}
			if cmd.Image != nil {
				t.Error("image must be nil when none is submitted")
			}
			return &news.News{ID: id, Title: cmd.Title}, nil
		},
	}, nil)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"existing", "/news/" + id.String(), http.StatusOK},
		{"unknown", "/news/" + uuid.NewString(), http.StatusNotFound},
		{"malformed", "/news/42", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(mux, form(t, "PUT", tt.path, fields, "", ""))
			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestHandlerMutationsAreProtected(t *testing.T) {
	var seen []routes.Access
	guard := func(next http.HandlerFunc, access routes.Access) http.HandlerFunc {
		seen = append(seen, access)
		return func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}
	}
	mux := newMux(&mockSystem{}, guard)

	if len(seen) != 3 {
		t.Fatalf("guarded routes: got %d, want 3", len(seen))
	}
	for _, a := range seen {
		if a != routes.Protected {
			t.Errorf("access: got %s, want protected", a)
		}
	}

	id := uuid.NewString()
	for _, r := range []*http.Request{
		form(t, "POST", "/news", fields, "", ""),
		form(t, "PUT", "/news/"+id, fields, "", ""),
		httptest.NewRequest("DELETE", "/news/"+id, nil),
	} {
		if rec := serve(mux, r); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: got %d, want 401", r.Method, rec.Code)
		}
	}
}
