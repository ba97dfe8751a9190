// Package doi looks up bibliographic metadata for DOIs in the CrossRef
// registry and merges it into product drafts.
package doi

import (
	"fmt"
	"slices"
	"strings"
)

// Metadata is a normalized bibliographic record. Fields absent upstream are
// empty strings, an empty Authors list, and a nil PublicationYear.
type Metadata struct {
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	Journal         string   `json:"journal"`
	PublicationYear *int     `json:"publication_year"`
	Abstract        string   `json:"abstract"`
	URL             string   `json:"url"`
}

func (m Metadata) clone() Metadata {
	m.Authors = slices.Clone(m.Authors)
	if m.Authors == nil {
		m.Authors = []string{}
	}
	if m.PublicationYear != nil {
		y := *m.PublicationYear
		m.PublicationYear = &y
	}
	return m
}

// Merge enriches draft with fetched. Every non-empty fetched scalar replaces
// the draft value, overwriting manual edits; empty fetched values keep the
// draft. Authors are replaced only by a non-empty fetched list.
func Merge(draft, fetched Metadata) Metadata {
	out := draft.clone()

	if fetched.Title != "" {
		out.Title = fetched.Title
	}
	if fetched.Journal != "" {
		out.Journal = fetched.Journal
	}
	if fetched.PublicationYear != nil {
		y := *fetched.PublicationYear
		out.PublicationYear = &y
	}
	if fetched.Abstract != "" {
		out.Abstract = fetched.Abstract
	}
	if fetched.URL != "" {
		out.URL = fetched.URL
	}
	if len(fetched.Authors) > 0 {
		out.Authors = slices.Clone(fetched.Authors)
	}

	return out
}

var resolverPrefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"doi:",
}

// Normalize trims s and strips resolver URL and "doi:" prefixes.
// The result must have the form "10.<registrant>/<suffix>".
func Normalize(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, p := range resolverPrefixes {
		if len(s) >= len(p) && strings.EqualFold(s[:len(p)], p) {
			s = strings.TrimSpace(s[len(p):])
			break
		}
	}

	prefix, suffix, ok := strings.Cut(s, "/")
	if !ok || !strings.HasPrefix(prefix, "10.") || len(prefix) <= len("10.") || suffix == "" {
		return "", fmt.Errorf("%w: malformed DOI %q", ErrLookupFailure, s)
	}
	return s, nil
}
