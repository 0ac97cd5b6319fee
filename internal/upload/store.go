package upload

import (
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrTooLarge = errors.New("file too large")

// Store writes attachment files under a single directory and hands back
// opaque web paths ("/uploads/<name>"). Everything else in the system treats
// those paths as uninterpreted strings.
type Store struct {
	Dir      string
	MaxBytes int64
}

func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{Dir: dir, MaxBytes: maxBytes}, nil
}

// Save streams r into a fresh uuid-named file, keeping the original
// extension. Returns the stored web path.
func (s *Store) Save(origName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(origName))
	name := uuid.NewString() + ext
	dst := filepath.Join(s.Dir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()

	limit := io.Reader(r)
	if s.MaxBytes > 0 {
		limit = io.LimitReader(r, s.MaxBytes+1)
	}
	n, err := io.Copy(f, limit)
	if err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	if s.MaxBytes > 0 && n > s.MaxBytes {
		_ = os.Remove(dst)
		return "", ErrTooLarge
	}

	return "/uploads/" + name, nil
}

// Remove deletes the file behind a stored web path. Only the base name is
// honored, so a stored path can never reach outside the upload directory.
// A missing file is not an error.
func (s *Store) Remove(webPath string) error {
	name := path.Base(strings.TrimSpace(webPath))
	if name == "" || name == "." || name == "/" {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
