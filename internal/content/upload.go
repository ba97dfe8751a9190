package content

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/JaimeStill/acervo/pkg/formatting"
	"github.com/JaimeStill/acervo/pkg/storage"
)

// Upload errors.
var (
	ErrInvalidFile  = errors.New("invalid file")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrInvalidForm  = errors.New("invalid multipart form")
)

// formOverhead bounds the non-file part of a multipart request body.
const formOverhead int64 = 1 << 20

// Kind classifies an attachment and determines its allowed extensions.
type Kind string

const (
	Document Kind = "document"
	Audio    Kind = "audio"
	Image    Kind = "image"
	Material Kind = "material"
)

var allowedExtensions = map[Kind][]string{
	Document: {".pdf", ".doc", ".docx"},
	Audio:    {".wav"},
	Image:    {".jpg", ".jpeg", ".png", ".gif"},
	Material: {".pdf", ".ppt", ".pptx", ".doc", ".docx", ".zip"},
}

// Extensions returns the lower-case extensions accepted for k.
func (k Kind) Extensions() []string {
	return slices.Clone(allowedExtensions[k])
}

// Allows reports whether ext (with leading dot, any case) is accepted for k.
func (k Kind) Allows(ext string) bool {
	return slices.Contains(allowedExtensions[k], strings.ToLower(ext))
}

// Upload is an attachment read from a multipart request.
type Upload struct {
	Field       string
	Filename    string
	Ext         string
	ContentType string
	Data        []byte
}

// Size returns the attachment length in bytes.
func (u *Upload) Size() int64 {
	return int64(len(u.Data))
}

// ParseForm parses a multipart request carrying up to files attachments of at
// most maxSize bytes each. Bodies beyond that bound fail with ErrFileTooLarge.
func ParseForm(w http.ResponseWriter, r *http.Request, maxSize int64, files int) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize*int64(files)+formOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %s per file", ErrFileTooLarge, formatting.FormatBytes(maxSize, 0))
		}
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	return nil
}

// ReadUpload reads the attachment in field, enforcing the extension policy of
// kind and the per-file size bound. A missing or empty field yields nil.
func ReadUpload(r *http.Request, field string, kind Kind, maxSize int64) (*Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFile, field, err)
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, nil
	}
	if header.Size == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidFile, field)
	}

	if header.Size > maxSize {
		return nil, fmt.Errorf(
			"%w: %s is %s, limit is %s",
			ErrFileTooLarge, field,
			formatting.FormatBytes(header.Size, 1),
			formatting.FormatBytes(maxSize, 0),
		)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !kind.Allows(ext) {
		return nil, fmt.Errorf(
			"%w: %s must be one of %s",
			ErrInvalidFile, field, strings.Join(kind.Extensions(), ", "),
		)
	}

	data, err := readAll(file, maxSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", err, field, header.Filename)
	}

	return &Upload{
		Field:       field,
		Filename:    filepath.Base(header.Filename),
		Ext:         ext,
		ContentType: storage.DetectContentType(header.Header.Get("Content-Type"), data),
		Data:        data,
	}, nil
}

func readAll(file multipart.File, maxSize int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, ErrInvalidFile
	}
	if int64(len(data)) > maxSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
