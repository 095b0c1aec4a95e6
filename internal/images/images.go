// Package images validates uploaded post images and converts them to and
// from inline data URLs.
package images

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes is the largest accepted image file (1 MB).
const DefaultMaxBytes int64 = 1024 * 1024

// AllowedTypes lists the accepted MIME types, detected from file content.
var AllowedTypes = []string{"image/jpeg", "image/png"}

var (
	// ErrUnsupportedType is returned for anything other than JPEG or PNG.
	ErrUnsupportedType = errors.New("only JPG or PNG images are allowed")
	// ErrTooLarge is returned for files over the size cap.
	ErrTooLarge = errors.New("image must be less than 1MB")
	// ErrInvalidDataURL is returned when a data URL cannot be decoded.
	ErrInvalidDataURL = errors.New("invalid image data URL")
)

// EncodeFile reads the image at path and returns it as a data URL.
// maxBytes <= 0 means DefaultMaxBytes.
func EncodeFile(path string, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("images.EncodeFile: %w", err)
	}
	if info.Size() > maxBytes {
		return "", fmt.Errorf("%w (%s is %d bytes)", ErrTooLarge, info.Name(), info.Size())
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path is the user's own upload argument
	if err != nil {
		return "", fmt.Errorf("images.EncodeFile: %w", err)
	}
	return Encode(data, maxBytes)
}

// Encode validates data and returns it as a base64 data URL.
func Encode(data []byte, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%w (%d bytes)", ErrTooLarge, len(data))
	}
	mime, err := Sniff(data)
	if err != nil {
		return "", err
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Sniff detects the MIME type of data and rejects anything not allowed.
func Sniff(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	for _, allowed := range AllowedTypes {
		if mt.Is(allowed) {
			return allowed, nil
		}
	}
	return "", fmt.Errorf("%w (got %s)", ErrUnsupportedType, mt.String())
}

// Decode splits a data URL into its MIME type and raw bytes.
func Decode(dataURL string) (mime string, data []byte, err error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	mime, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("%w: not base64", ErrInvalidDataURL)
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidDataURL, err)
	}
	return mime, data, nil
}

// Extension returns the file extension for an allowed MIME type.
func Extension(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	return ".bin"
}

// Allowed reports whether mime is an accepted type.
func Allowed(mime string) bool {
	return slices.Contains(AllowedTypes, mime)
}
