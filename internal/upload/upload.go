// Package upload spools multipart image uploads into temporary files scoped
// to a single request.
package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DefaultMaxBytes caps an upload when no limit is configured.
const DefaultMaxBytes = 10 << 20

// Upload errors.
var (
	ErrMissing  = errors.New("no image uploaded")
	ErrTooLarge = errors.New("image exceeds size limit")
	ErrNotImage = errors.New("uploaded file is not an image")
)

// Config holds spool settings.
type Config struct {
	// Dir is where temporary files go. Empty means os.TempDir().
	Dir      string
	MaxBytes int64
}

// File is a spooled upload. Call Release when done with it.
type File struct {
	Path string
	MIME string
	Size int64
}

// Release removes the temporary file. Safe to call more than once.
func (f *File) Release() error {
	if f == nil || f.Path == "" {
		return nil
	}
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", f.Path, err)
	}
	return nil
}

// Spooler streams upload parts to disk.
type Spooler struct {
	dir      string
	maxBytes int64
}

// NewSpooler creates a Spooler.
func NewSpooler(cfg Config) *Spooler {
	dir := cfg.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Spooler{dir: dir, maxBytes: maxBytes}
}

// Spool finds the multipart part named field and writes it to a temporary
// file. Returns ErrMissing when the request is not multipart or has no such
// part, ErrTooLarge over the size limit and ErrNotImage when the content is
// not an image. On error nothing is left on disk.
func (s *Spooler) Spool(r *http.Request, field string) (*File, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, ErrMissing
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, ErrMissing
		}
		if err != nil {
			return nil, fmt.Errorf("read multipart: %w", err)
		}
		if part.FormName() != field || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		f, err := s.write(part, filepath.Ext(part.FileName()))
		_ = part.Close()
		return f, err
	}
}

func (s *Spooler) write(src io.Reader, ext string) (*File, error) {
	path := filepath.Join(s.dir, "image-"+uuid.NewString()+sanitizeExt(ext))

	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	f := &File{Path: path}

	n, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = f.Release()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if n > s.maxBytes {
		_ = f.Release()
		return nil, ErrTooLarge
	}
	if n == 0 {
		_ = f.Release()
		return nil, ErrMissing
	}
	f.Size = n

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		_ = f.Release()
		return nil, fmt.Errorf("detect content type: %w", err)
	}
	if !IsImage(mt.String()) {
		_ = f.Release()
		return nil, ErrNotImage
	}
	f.MIME = mt.String()
	return f, nil
}

// IsImage reports whether a MIME type names an image.
func IsImage(mime string) bool {
	return strings.HasPrefix(mime, "image/")
}

// sanitizeExt keeps short alphanumeric extensions only.
func sanitizeExt(ext string) string {
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, c := range ext[1:] {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return ""
		}
	}
	return strings.ToLower(ext)
}
