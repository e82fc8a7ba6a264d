package imagestore

import (
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
)

// ErrNotImage is returned by Validate for content that is not a supported
// image.
var ErrNotImage = errors.New("Upload a valid image. The file you uploaded was either not an image or a corrupted image.")

var contentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
}

// Validate decodes the image header of r and returns its content type.
// r is rewound to the start on success.
func Validate(r io.ReadSeeker) (string, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return "", ErrNotImage
	}
	ct, ok := contentTypes[format]
	if !ok || cfg.Width <= 0 || cfg.Height <= 0 {
		return "", ErrNotImage
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return ct, nil
}
