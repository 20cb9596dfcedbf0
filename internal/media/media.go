package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/teris-io/shortid"
)

// MaxAvatarSize bounds uploaded avatar files.
const MaxAvatarSize = 5 << 20

var (
	ErrTooLarge        = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store keeps uploaded avatars in a directory under random short names.
type Store struct {
	dir string
	sid *shortid.Shortid
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}

	sid, err := shortid.New(1, shortid.DefaultABC, uint64(time.Now().UnixNano()))
	if err != nil {
		return nil, fmt.Errorf("new shortid: %w", err)
	}

	return &Store{dir: dir, sid: sid}, nil
}

// Save sniffs the content type of r, rejects anything that is not a
// raster image and writes it to a new file. It returns the file name
// relative to the store.
func (s *Store) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxAvatarSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxAvatarSize {
		return "", ErrTooLarge
	}

	ext, ok := extensions[http.DetectContentType(data)]
	if !ok {
		return "", ErrUnsupportedType
	}

	id, err := s.sid.Generate()
	if err != nil {
		return "", fmt.Errorf("generate name: %w", err)
	}

	name := id + ext
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		f.Close()
		return "", fmt.Errorf("write file: %w", err)
	}

	return name, f.Close()
}

// Remove deletes a previously saved file. Missing files are ignored.
func (s *Store) Remove(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid file name %q", name)
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Handler serves stored files. Directory listings are not exposed.
func (s *Store) Handler() http.Handler {
	fs := http.FileServer(http.Dir(s.dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	})
}
