package doi

import (
	"strings"
)

// work is the subset of a CrossRef /works/{doi} message that is normalized.
type work struct {
	Title           []string   `json:"title"`
	ContainerTitle  []string   `json:"container-title"`
	Author          []author   `json:"author"`
	PublishedPrint  *dateParts `json:"published-print"`
	PublishedOnline *dateParts `json:"published-online"`
	Abstract        string     `json:"abstract"`
	URL             string     `json:"URL"`
}

type workResponse struct {
	Status  string `json:"status"`
	Message work   `json:"message"`
}

type author struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type dateParts struct {
	DateParts [][]*int `json:"date-parts"`
}

// year returns the first date part, or nil when absent or null.
func (d *dateParts) year() *int {
	if d == nil || len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return nil
	}
	y := d.DateParts[0][0]
	if y == nil || *y == 0 {
		return nil
	}
	v := *y
	return &v
}

func (w work) metadata() Metadata {
	m := Metadata{
		Title:    first(w.Title),
		Journal:  first(w.ContainerTitle),
		Abstract: w.Abstract,
		URL:      w.URL,
		Authors:  make([]string, 0, len(w.Author)),
	}

	m.PublicationYear = w.PublishedPrint.year()
	if m.PublicationYear == nil {
		m.PublicationYear = w.PublishedOnline.year()
	}

	for _, a := range w.Author {
		if name := strings.TrimSpace(a.Given + " " + a.Family); name != "" {
			m.Authors = append(m.Authors, name)
		}
	}

	return m
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
