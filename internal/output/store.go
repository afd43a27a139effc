// Package output stores generated files on disk and serves them back.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/arcitek-ai/arcitek/internal/xfs"
)

// URLPrefix is the public path under which generated files are served.
const URLPrefix = "/api/outputs/"

// Kind is the sub-directory a generated file is stored in.
type Kind string

const (
	KindImages  Kind = "images"
	KindMusic   Kind = "music"
	KindStories Kind = "stories"
)

// Kinds lists every output kind.
var Kinds = []Kind{KindImages, KindMusic, KindStories}

// File describes a stored file.
type File struct {
	Kind Kind
	Name string
	Path string
	URL  string
	Size int64
}

// Store manages the output directory.
type Store struct {
	root  *os.Root
	now   func() time.Time
	newID func() string
	dir   string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used in file names.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the unique suffix used in file names.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore creates the output directory layout under dir.
func NewStore(dir string, opts ...Option) (*Store, error) {
	dir = xfs.ExpandTilde(dir)

	for _, kind := range Kinds {
		if err := xfs.EnsureDir(filepath.Join(dir, string(kind))); err != nil {
			return nil, fmt.Errorf("output: failed to create %s directory: %w", kind, err)
		}
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("output: failed to open %s: %w", dir, err)
	}

	s := &Store{
		root:  root,
		dir:   dir,
		now:   time.Now,
		newID: shortID,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// URL returns the public URL of a file of the given kind.
func URL(kind Kind, name string) string {
	return URLPrefix + path.Join(string(kind), name)
}

// NewFile allocates a unique file name "<prefix>_<unix>_<id>.<ext>".
func (s *Store) NewFile(kind Kind, prefix, ext string) File {
	name := fmt.Sprintf("%s_%d_%s.%s", prefix, s.now().Unix(), s.newID(), ext)

	return File{
		Kind: kind,
		Name: name,
		Path: filepath.Join(s.dir, string(kind), name),
		URL:  URL(kind, name),
	}
}

// Create allocates a new file and fills it through write. The file only
// appears under its final name once write succeeded.
func (s *Store) Create(kind Kind, prefix, ext string, write func(w io.Writer) error) (File, error) {
	f := s.NewFile(kind, prefix, ext)

	err := xfs.WriteFileAtomic(f.Path, func(out *os.File) error {
		return write(out)
	})
	if err != nil {
		return File{}, fmt.Errorf("output: failed to write %s: %w", f.Name, err)
	}

	if info, err := os.Stat(f.Path); err == nil {
		f.Size = info.Size()
	}

	slog.Info("Output file written", "kind", kind, "file", f.Name, "size", humanize.Bytes(uint64(f.Size)))

	return f, nil
}

// Open opens a stored file by its path relative to the store root.
// Paths that escape the root are rejected.
func (s *Store) Open(name string) (*os.File, error) {
	return s.root.Open(filepath.FromSlash(name))
}

// Close releases the store root.
func (s *Store) Close() error {
	return s.root.Close()
}

// Handler serves stored files. It expects the relative file path in the
// "path" wildcard of the route pattern.
func (s *Store) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("path")
		if name == "" {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}

		f, err := s.Open(name)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("Rejected output file request", "path", name, "error", err)
			}
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if info.IsDir() {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}

		http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
