package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	"hanmeotapp/models"
)

// MaxPhotoBytes is the transport ceiling for one user photo. Anything above
// it is rejected, never truncated.
const MaxPhotoBytes = 10 * 1024 * 1024

var (
	ErrInvalidPhoto     = fmt.Errorf("photo is missing or not a decodable image")
	ErrPhotoTooLarge    = fmt.Errorf("photo exceeds the %d byte upload limit", MaxPhotoBytes)
	ErrUnsupportedImage = fmt.Errorf("unsupported image format")
)

// NewPhotoAsset validates raw uploaded bytes and wraps them for transport.
// The payload is kept as-is; no resizing or re-encoding happens here.
func NewPhotoAsset(data []byte) (*models.PhotoAsset, error) {
	if len(data) == 0 {
		return nil, ErrInvalidPhoto
	}
	if len(data) > MaxPhotoBytes {
		return nil, ErrPhotoTooLarge
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, ErrInvalidPhoto
	}

	// DecodeConfig reads only the header, enough to prove the payload is a
	// real image of a format we can forward.
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, ErrUnsupportedImage
	}

	return &models.PhotoAsset{Data: data, MimeType: mimeType}, nil
}

// PhotoAssetFromDataURI accepts the "data:image/...;base64,...." form the
// browser sends after file selection.
func PhotoAssetFromDataURI(uri string) (*models.PhotoAsset, error) {
	if uri == "" {
		return nil, ErrInvalidPhoto
	}
	payload := uri
	if strings.HasPrefix(uri, "data:") {
		idx := strings.Index(uri, "base64,")
		if idx < 0 {
			return nil, ErrInvalidPhoto
		}
		payload = uri[idx+len("base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidPhoto
	}
	return NewPhotoAsset(data)
}

// DecodeDataURI strips the data-URI envelope and returns the raw bytes.
func DecodeDataURI(uri string) ([]byte, error) {
	idx := strings.Index(uri, "base64,")
	if idx < 0 {
		return nil, fmt.Errorf("not a base64 data URI")
	}
	return base64.StdEncoding.DecodeString(uri[idx+len("base64,"):])
}
