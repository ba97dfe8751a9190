package doi_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/acervo/internal/config"
	"github.com/JaimeStill/acervo/internal/doi"
	"github.com/JaimeStill/acervo/pkg/routes"
)

const crossrefWork = `{
	"status": "ok",
	"message": {
		"title": ["Final Title", "Alternate"],
		"container-title": ["Journal of Tests"],
		"author": [
			{"given": "Ana", "family": "Souza"},
			{"given": "", "family": "Lima"},
			{"given": " ", "family": " "}
		],
		"published-print": {"date-parts": [[null]]},
		"published-online": {"date-parts": [[2021, 5, 3]]},
		"abstract": "<jats:p>Abstract</jats:p>",
		"URL": "https://doi.org/10.1000/xyz"
	}
}`

func intPtr(v int) *int { return &v }

func newClient(t *testing.T, baseURL string, cacheSize int) doi.System {
	t.Helper()
	cfg := &config.DOIConfig{
		BaseURL:   baseURL,
		Timeout:   "2s",
		Mailto:    "biblioteca@example.edu",
		CacheSize: cacheSize,
		CacheTTL:  "1h",
	}
	sys, err := doi.New(cfg, "0.1.0", slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return sys
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"bare", "10.1000/xyz", "10.1000/xyz", false},
		{"whitespace", "  10.1000/xyz \n", "10.1000/xyz", false},
		{"resolver url", "https://doi.org/10.1000/xyz", "10.1000/xyz", false},
		{"legacy resolver", "http://dx.doi.org/10.1000/a/b", "10.1000/a/b", false},
		{"doi scheme", "DOI:10.1000/xyz", "10.1000/xyz", false},
		{"empty", "", "", true},
		{"no slash", "10.1000", "", true},
		{"wrong prefix", "11.1000/xyz", "", true},
		{"no registrant", "10./xyz", "", true},
		{"no suffix", "10.1000/", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := doi.Normalize(tt.input)
			if tt.wantErr {
				if !errors.Is(err, doi.ErrLookupFailure) {
					t.Fatalf("error: got %v, want ErrLookupFailure", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMergeEmptyAuthorsKeepDraft(t *testing.T) {
	draft := doi.Metadata{Title: "Draft", Authors: []string{"X"}}
	fetched := doi.Metadata{Title: "Final Title", Authors: []string{}}

	got := doi.Merge(draft, fetched)

	if got.Title != "Final Title" {
		t.Errorf("title: got %q, want Final Title", got.Title)
	}
	if len(got.Authors) != 1 || got.Authors[0] != "X" {
		t.Errorf("authors: got %v, want [X]", got.Authors)
	}
}

func TestMergeOverwritesScalars(t *testing.T) {
	draft := doi.Metadata{
		Title:           "Typed",
		Authors:         []string{"X"},
		Journal:         "Typed Journal",
		PublicationYear: intPtr(1999),
		Abstract:        "Typed abstract",
		URL:             "https://typed.example",
	}
	fetched := doi.Metadata{
		Journal:         "Fetched Journal",
		PublicationYear: intPtr(2021),
		Authors:         []string{"Ana Souza", "Lima"},
	}

	got := doi.Merge(draft, fetched)

	if got.Title != "Typed" {
		t.Errorf("empty fetched title must keep draft: got %q", got.Title)
	}
	if got.Journal != "Fetched Journal" {
		t.Errorf("journal: got %q", got.Journal)
	}
	if got.PublicationYear == nil || *got.PublicationYear != 2021 {
		t.Errorf("year: got %v, want 2021", got.PublicationYear)
	}
	if got.Abstract != "Typed abstract" || got.URL != "https://typed.example" {
		t.Errorf("empty fetched abstract/url must keep draft: %+v", got)
	}
	if strings.Join(got.Authors, "|") != "Ana Souza|Lima" {
		t.Errorf("authors: got %v", got.Authors)
	}

	fetched.Authors[0] = "mutated"
	if got.Authors[0] != "Ana Souza" {
		t.Error("merged authors must not alias the fetched slice")
	}
}

func TestFetch(t *testing.T) {
	var gotPath, gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(crossrefWork))
	}))
	defer srv.Close()

	sys := newClient(t, srv.URL, 0)
	m, err := sys.Fetch(context.Background(), "https://doi.org/10.1000/xyz")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if gotPath != "/works/10.1000/xyz" {
		t.Errorf("path: got %s", gotPath)
	}
	if gotAccept != "application/json" {
		t.Errorf("accept: got %s", gotAccept)
	}
	if gotUA != "Acervo/0.1.0 (mailto:biblioteca@example.edu)" {
		t.Errorf("user agent: got %s", gotUA)
	}

	if m.Title != "Final Title" {
		t.Errorf("title: got %q", m.Title)
	}
	if m.Journal != "Journal of Tests" {
		t.Errorf("journal: got %q", m.Journal)
	}
	if strings.Join(m.Authors, "|") != "Ana Souza|Lima" {
		t.Errorf("authors: got %v", m.Authors)
	}
	if m.PublicationYear == nil || *m.PublicationYear != 2021 {
		t.Errorf("year should fall back to published-online: got %v", m.PublicationYear)
	}
	if m.URL != "https://doi.org/10.1000/xyz" {
		t.Errorf("url: got %q", m.URL)
	}
}

func TestFetchAbsentFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","message":{}}`))
	}))
	defer srv.Close()

	m, err := newClient(t, srv.URL, 0).Fetch(context.Background(), "10.1000/empty")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	data, _ := json.Marshal(m)
	want := `{"title":"","authors":[],"journal":"","publication_year":null,"abstract":"","url":""}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestFetchFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		doi     string
	}{
		{
			name:    "not found",
			handler: func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) },
			doi:     "10.1000/missing",
		},
		{
			name:    "bad json",
			handler: func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("Resource not found.")) },
			doi:     "10.1000/garbled",
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(5 * time.Second):
				}
			},
			doi: "10.1000/slow",
		},
		{
			name:    "malformed",
			handler: func(w http.ResponseWriter, r *http.Request) { t.Error("registry must not be called") },
			doi:     "not-a-doi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := newClient(t, srv.URL, 0).Fetch(context.Background(), tt.doi)
			if !errors.Is(err, doi.ErrLookupFailure) {
				t.Fatalf("error: got %v, want ErrLookupFailure", err)
			}
			if got := doi.MapHTTPStatus(err); got != http.StatusBadGateway {
				t.Errorf("status: got %d, want 502", got)
			}
		})
	}
}

func TestFetchCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(crossrefWork))
	}))
	defer srv.Close()

	sys := newClient(t, srv.URL, 8)
	ctx := context.Background()

	first, err := sys.Fetch(ctx, "10.1000/xyz")
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	first.Authors[0] = "mutated"

	second, err := sys.Fetch(ctx, "doi:10.1000/xyz")
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if calls.Load() != 1 {
		t.Errorf("registry calls: got %d, want 1", calls.Load())
	}
	if second.Authors[0] != "Ana Souza" {
		t.Error("cached metadata must not be shared with callers")
	}
}

func TestLookupHandler(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/works/10.1000/xyz" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(crossrefWork))
	}))
	defer srv.Close()

	mux := http.NewServeMux()
	routes.Register(mux, nil, newClient(t, srv.URL, 0).Handler().Routes())

	t.Run("found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/doi-metadata/10.1000/xyz", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rec.Code)
		}
		var m doi.Metadata
		if err := json.NewDecoder(rec.Body).Decode(&m); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if m.Title != "Final Title" {
			t.Errorf("title: got %q", m.Title)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/doi-metadata/10.1000/unknown", nil))

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status: got %d, want 502", rec.Code)
		}
		var body map[string]string
		json.NewDecoder(rec.Body).Decode(&body)
		if body["error"] != "DOI lookup failed; verify the DOI" {
			t.Errorf("error message: got %q", body["error"])
		}
	})
}

func TestRespondError(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"lookup failure", fmt.Errorf("%w: unexpected status code: 404", doi.ErrLookupFailure), http.StatusBadGateway, doi.ErrLookupFailure.Error()},
		{"other", errors.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			doi.RespondError(rec, logger, tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tt.wantError {
				t.Errorf("error: got %q, want %q", body["error"], tt.wantError)
			}
		})
	}
}
