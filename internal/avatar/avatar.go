// Package avatar validates and normalizes profile pictures. Whatever comes
// in (JPEG or PNG, any dimensions) is stored as a 250x250 PNG.
package avatar

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

const (
	// MaxUploadBytes caps the raw upload size at 1MB.
	MaxUploadBytes int64 = 1000000

	targetSize = 250
)

var (
	ErrBadExtension = errors.New("Please upload an image (jpg, jpeg or png)!")
	ErrTooLarge     = errors.New("Avatar must be smaller than 1MB!")
	ErrNotAnImage   = errors.New("Uploaded file is not a valid image!")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ValidateFilename rejects uploads whose extension is not jpg/jpeg/png.
func ValidateFilename(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return ErrBadExtension
	}
	return nil
}

// Process sniffs the actual content (the extension alone proves nothing),
// decodes it, cover-resizes to 250x250 and re-encodes as PNG.
func Process(data []byte) ([]byte, error) {
	if int64(len(data)) > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	detected := mimetype.Detect(data)
	if !allowedMimeTypes[detected.String()] {
		return nil, ErrNotAnImage
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrNotAnImage
	}

	resized := imaging.Fill(img, targetSize, targetSize, imaging.Center, imaging.Lanczos)

	var out bytes.Buffer
	if err := imaging.Encode(&out, resized, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode avatar: %w", err)
	}

	return out.Bytes(), nil
}
