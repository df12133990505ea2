package models

import (
	"encoding/base64"
	"strings"
	"time"
)

// PhotoAsset is the user's uploaded photo, held in memory only. It is never
// persisted; a new upload or leaving the fitting flow discards it.
type PhotoAsset struct {
	Data     []byte `json:"-"`
	MimeType string `json:"mime_type"`
}

// DataURI returns the transport form of the photo, e.g.
// "data:image/jpeg;base64,...".
func (p PhotoAsset) DataURI() string {
	return EncodeDataURI(p.Data, p.MimeType)
}

// GarmentDescriptor is one selected item of an outfit. Immutable once built
// from the recommendation screen; the slice order is forwarded to the
// generation request unchanged.
type GarmentDescriptor struct {
	Category       string  `json:"type"` // top, bottom, shoes, accessory, dress, outer
	DisplayName    string  `json:"name"`
	ImageReference *string `json:"image_url"`
	SourceLabel    string  `json:"store_name"`
}

type AttemptStatus string

const (
	AttemptPending         AttemptStatus = "pending"
	AttemptSucceeded       AttemptStatus = "succeeded"
	AttemptFailedTransient AttemptStatus = "failed_transient"
	AttemptFailedPermanent AttemptStatus = "failed_permanent"
)

// GenerationAttempt is the single "current" attempt of a submission.
// Superseded attempts are discarded, only the number survives.
type GenerationAttempt struct {
	AttemptNumber  int           `json:"attempt_number"`
	StartedAt      time.Time     `json:"started_at"`
	Status         AttemptStatus `json:"status"`
	ElapsedSeconds int           `json:"elapsed_seconds"`
}

// GenerationResult is the composite image of a succeeded attempt. The
// ImageURI is always a full data URI, ready for an <img> src.
type GenerationResult struct {
	ImageURI       string  `json:"generated_image"`
	ProcessingTime float64 `json:"processing_time"`
	OutfitID       string  `json:"outfit_id"`
}

type FailureKind string

const (
	FailureInvalidInput FailureKind = "invalid_input"
	FailureTransient    FailureKind = "transient"
	FailurePermanent    FailureKind = "permanent"
	// FailureBusy is the terminal form of a transient condition that
	// survived every retry. Reported, never retried by the system.
	FailureBusy FailureKind = "busy"
)

// ServiceError carries the classified outcome of a generation call.
type ServiceError struct {
	Kind       FailureKind
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// TryOnRequest is the wire payload of the generation backend.
type TryOnRequest struct {
	UserImage   string              `json:"user_image"`
	OutfitItems []GarmentDescriptor `json:"outfit_items"`
	Language    string              `json:"language"`
}

// StyleEditRequest asks the backend to apply a free-text styling command to
// the photo instead of a full outfit.
type StyleEditRequest struct {
	UserImage string `json:"user_image"`
	Command   string `json:"command"`
	Language  string `json:"language"`
}

// TryOnResponse is the success body of the generation backend. The service
// sometimes returns the raw base64 without a data-URI prefix.
type TryOnResponse struct {
	GeneratedImage string  `json:"generated_image"`
	ProcessingTime float64 `json:"processing_time"`
}

// EncodeDataURI builds a data URI from raw bytes and a mime type.
func EncodeDataURI(data []byte, mimeType string) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// EnsureDataURI supplies the missing data-URI prefix on a generated image.
// The backend contract does not name the format of an unprefixed payload;
// it has always been PNG in practice, so PNG is assumed.
func EnsureDataURI(image string) string {
	if strings.HasPrefix(image, "data:") {
		return image
	}
	return "data:image/png;base64," + image
}
