// Package imagestore names and validates uploaded recipe images. The
// bytes themselves live in a waffle storage.Store (local disk or S3).
package imagestore

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// KeyPrefix is the directory recipe images are stored under.
const KeyPrefix = "uploads/recipe"

// KeyFunc maps an uploaded file name to a storage key.
type KeyFunc func(filename string) string

// NewKeyFunc returns a KeyFunc that names files "<KeyPrefix>/<id><ext>",
// where id comes from newID and ext is the lowercased extension of the
// original name. A nil newID uses random UUIDs.
func NewKeyFunc(newID func() string) KeyFunc {
	if newID == nil {
		newID = func() string { return uuid.New().String() }
	}
	return func(filename string) string {
		ext := strings.ToLower(path.Ext(strings.ReplaceAll(filename, "\\", "/")))
		return KeyPrefix + "/" + newID() + ext
	}
}
