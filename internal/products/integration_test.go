package products_test

import (
	"context"
	"errors"
	"testing"

	"github.com/JaimeStill/acervo/internal/products"
	"github.com/JaimeStill/acervo/internal/testdb"
)

func TestSearchIntegration(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	sys := newSystem(t, db, newStore(t))

	climate, err := sys.Create(ctx, products.CreateCommand{
		Title:           "Climate",
		Authors:         []string{"Ana Silva"},
		Abstract:        "Warming trends.",
		ProductType:     "Articles",
		PublicationYear: ptr(2021),
		Keywords:        []string{"environment"},
	})
	if err != nil {
		t.Fatalf("create climate: %v", err)
	}

	urban, err := sys.Create(ctx, products.CreateCommand{
		Title:           "Urban Policy",
		Authors:         []string{"Bruno"},
		Abstract:        "Cities 100% explained.",
		ProductType:     "Books",
		PublicationYear: ptr(2019),
	})
	if err != nil {
		t.Fatalf("create urban: %v", err)
	}

	tests := []struct {
		name    string
		filters products.Filters
		want    []string
	}{
		{"no filters newest first", products.Filters{}, []string{urban.Title, climate.Title}},
		{"search title", products.Filters{Search: ptr("clim")}, []string{climate.Title}},
		{"search keyword", products.Filters{Search: ptr("ENVIRON")}, []string{climate.Title}},
		{"type and year", products.Filters{ProductType: ptr("Books"), Year: ptr(2019)}, []string{urban.Title}},
		{"author case-insensitive", products.Filters{Author: ptr("silva")}, []string{climate.Title}},
		{"conjunction excludes", products.Filters{Author: ptr("silva"), Year: ptr(2019)}, nil},
		{"literal percent", products.Filters{Search: ptr("100%")}, []string{urban.Title}},
		{"wildcard is literal", products.Filters{Search: ptr("%")}, []string{urban.Title}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sys.List(ctx, tt.filters)
			if err != nil {
				t.Fatalf("list: %v", err)
			}

			titles := make([]string, len(got))
			for i, p := range got {
				titles[i] = p.Title
			}
			if len(titles) != len(tt.want) {
				t.Fatalf("titles: got %v, want %v", titles, tt.want)
			}
			for i := range titles {
				if titles[i] != tt.want[i] {
					t.Errorf("titles: got %v, want %v", titles, tt.want)
				}
			}
		})
	}
}

func TestDeleteTwiceIntegration(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	sys := newSystem(t, db, newStore(t))

	p, err := sys.Create(ctx, validCommand())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ViewCount != 0 || p.DownloadCount != 0 {
		t.Errorf("counters: got %d/%d, want 0/0", p.ViewCount, p.DownloadCount)
	}

	if err := sys.Delete(ctx, p.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := sys.Delete(ctx, p.ID); !errors.Is(err, products.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
	if _, err := sys.Find(ctx, p.ID); !errors.Is(err, products.ErrNotFound) {
		t.Errorf("find after delete: got %v, want ErrNotFound", err)
	}
}
