package media

import (
	"bytes"
	"encoding/base64"
	"image/jpeg"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDataURIPrefix(t *testing.T) {
	uri, err := EncodeDataURI(testBitmap(100, 100))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))
}

func TestEncodeDataURIDeterministic(t *testing.T) {
	img, err := Decode(pngBytes(t, 40, 30), "a.png")
	require.NoError(t, err)

	first, err := EncodeDataURI(img.Bitmap)
	require.NoError(t, err)
	second, err := EncodeDataURI(img.Bitmap)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEncodeDataURIIsJPEG(t *testing.T) {
	img, err := Decode(pngBytes(t, 33, 21), "source.png")
	require.NoError(t, err)

	uri, err := EncodeDataURI(img.Bitmap)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, DataURIPrefix))
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 33, cfg.Width)
	assert.Equal(t, 21, cfg.Height)
}

func TestEncodeJPEGNil(t *testing.T) {
	_, err := EncodeJPEG(nil)
	assert.Error(t, err)
}
