package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Dir stores images as plain files in a directory.
type Dir struct {
	root string
}

// NewDir returns a Dir rooted at path, creating the directory if needed.
func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}
	return &Dir{root: path}, nil
}

// Save writes the file in place. A failed write can leave a partial file.
func (d *Dir) Save(_ context.Context, name string, r io.Reader, _ int64) error {
	if !validName(name) {
		return fmt.Errorf("invalid image name %q", name)
	}

	f, err := os.Create(filepath.Join(d.root, name))
	if err != nil {
		return fmt.Errorf("creating image file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("writing image file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing image file: %w", err)
	}
	return nil
}

// Open opens a stored image.
func (d *Dir) Open(_ context.Context, name string) (io.ReadCloser, error) {
	if !validName(name) {
		return nil, ErrNotExist
	}

	f, err := os.Open(filepath.Join(d.root, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("opening image file: %w", err)
	}

	// Directories inside the root are not images.
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat image file: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrNotExist
	}
	return f, nil
}
