// Package images stores uploaded item images and serves them back under
// /images/. Two backends exist: a local directory and an S3-compatible bucket.
package images

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// Prefix is the URL prefix images are served under and the prefix of every
// stored image_path.
const Prefix = "images/"

// ErrNotExist is returned by Store.Open when no image has the given name.
var ErrNotExist = errors.New("image does not exist")

// Store persists image files by name. Names are single path elements.
type Store interface {
	// Save writes r under name, replacing any existing file. size is the
	// number of bytes in r, or -1 if unknown.
	Save(ctx context.Context, name string, r io.Reader, size int64) error
	// Open returns the named image or ErrNotExist.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// FileName derives the stored file name for an item's upload: the item ID
// followed by the extension of the uploaded file name. Leading dots of a
// dotfile are not an extension, so ".png" yields no extension.
func FileName(itemID, uploadName string) string {
	base := filepath.Base(strings.ReplaceAll(uploadName, `\`, "/"))
	ext := filepath.Ext(strings.TrimLeft(base, "."))
	return itemID + ext
}

// Path returns the image_path recorded for a stored file name.
func Path(name string) string {
	return Prefix + name
}

// validName reports whether name is safe to use as a single path element.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}
