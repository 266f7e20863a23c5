package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
)

// JPEGQuality is fixed so that re-encoding the same bitmap is byte-stable.
const JPEGQuality = 90

// DataURIPrefix precedes the base64 payload of every encoded image.
const DataURIPrefix = "data:image/jpeg;base64,"

// EncodeJPEG re-encodes a bitmap as JPEG regardless of its source format.
func EncodeJPEG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, errors.New("encode jpeg: nil image")
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeDataURI returns the bitmap as a base64 JPEG data URI.
func EncodeDataURI(img image.Image) (string, error) {
	data, err := EncodeJPEG(img)
	if err != nil {
		return "", err
	}
	return DataURIPrefix + base64.StdEncoding.EncodeToString(data), nil
}
