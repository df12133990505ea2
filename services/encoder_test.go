package services

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNewPhotoAssetOk(t *testing.T) {
	data := pngBytes(t)

	photo, err := NewPhotoAsset(data)
	require.NoError(t, err)
	assert.Equal(t, "image/png", photo.MimeType)
	assert.Equal(t, data, photo.Data)
	assert.True(t, strings.HasPrefix(photo.DataURI(), "data:image/png;base64,"))
}

func TestNewPhotoAssetEmpty(t *testing.T) {
	_, err := NewPhotoAsset(nil)
	assert.ErrorIs(t, err, ErrInvalidPhoto)
}

func TestNewPhotoAssetTooLarge(t *testing.T) {
	data := make([]byte, MaxPhotoBytes+1)

	_, err := NewPhotoAsset(data)
	assert.ErrorIs(t, err, ErrPhotoTooLarge)
}

func TestNewPhotoAssetNotAnImage(t *testing.T) {
	_, err := NewPhotoAsset([]byte("{\"definitely\": \"not an image\"}"))
	assert.ErrorIs(t, err, ErrInvalidPhoto)
}

func TestNewPhotoAssetTruncatedImage(t *testing.T) {
	// A real PNG signature with no image data behind it.
	data := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 8)...)

	_, err := NewPhotoAsset(data)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestPhotoAssetFromDataURI(t *testing.T) {
	data := pngBytes(t)
	original, err := NewPhotoAsset(data)
	require.NoError(t, err)

	photo, err := PhotoAssetFromDataURI(original.DataURI())
	require.NoError(t, err)
	assert.Equal(t, data, photo.Data)
	assert.Equal(t, "image/png", photo.MimeType)
}

func TestPhotoAssetFromDataURIMalformed(t *testing.T) {
	_, err := PhotoAssetFromDataURI("data:image/png;notbase64")
	assert.ErrorIs(t, err, ErrInvalidPhoto)

	_, err = PhotoAssetFromDataURI("")
	assert.ErrorIs(t, err, ErrInvalidPhoto)
}

func TestDecodeDataURIRoundTrip(t *testing.T) {
	data := pngBytes(t)
	photo, err := NewPhotoAsset(data)
	require.NoError(t, err)

	decoded, err := DecodeDataURI(photo.DataURI())
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}
