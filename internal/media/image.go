package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
)

// MaxImageBytes caps how much of an upload is read before decoding.
const MaxImageBytes = 10 * 1024 * 1024

// ErrImageTooLarge indicates the upload exceeded MaxImageBytes.
var ErrImageTooLarge = fmt.Errorf("image exceeds %d bytes", MaxImageBytes)

var errEmptyImage = errors.New("empty image data")

var acceptedFormats = map[string]bool{
	"png":  true,
	"jpeg": true,
}

// Image is a decoded upload held in memory for the lifetime of a session.
type Image struct {
	Bitmap   image.Image
	Format   string
	Filename string
	Width    int
	Height   int
	Size     int64
}

// DecodeError reports bytes that are not a PNG or JPEG image.
type DecodeError struct {
	Filename string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("could not decode %s: %v", e.Filename, e.Err)
	}
	return fmt.Sprintf("could not decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Ingest reads an upload and decodes it. The filename is informational only;
// the container format is sniffed from the bytes.
func Ingest(r io.Reader, filename string) (*Image, error) {
	if r == nil {
		return nil, &DecodeError{Filename: filename, Err: errEmptyImage}
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, ErrImageTooLarge
	}
	return Decode(data, filename)
}

// Decode turns raw bytes into an Image, accepting PNG and JPEG only.
func Decode(data []byte, filename string) (*Image, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Filename: filename, Err: errEmptyImage}
	}

	bitmap, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Filename: filename, Err: err}
	}
	if !acceptedFormats[format] {
		return nil, &DecodeError{Filename: filename, Err: fmt.Errorf("unsupported format %q", format)}
	}

	bounds := bitmap.Bounds()
	return &Image{
		Bitmap:   bitmap,
		Format:   format,
		Filename: filename,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Size:     int64(len(data)),
	}, nil
}
