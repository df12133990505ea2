package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"hanmeotapp/models"
)

// GenerationTimeout bounds one generation request end to end.
const GenerationTimeout = 90 * time.Second

type GenerationServiceProvider interface {
	GenerateTryOn(ctx context.Context, req models.TryOnRequest) (*models.GenerationResult, error)
	StyleEdit(ctx context.Context, req models.StyleEditRequest) (*models.GenerationResult, error)
}

// GenerationService talks to the remote image-generation backend. The
// backend is opaque; this client only owns the wire contract and the
// classification of its failures.
type GenerationService struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewGenerationService(baseURL string) *GenerationService {
	return &GenerationService{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: GenerationTimeout},
	}
}

// ClassifyGenerationStatus maps a transport status code to a failure kind.
// 429 and 503 are the only conditions worth retrying the identical request
// for; everything else is permanent.
func ClassifyGenerationStatus(statusCode int) models.FailureKind {
	switch statusCode {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return models.FailureTransient
	default:
		return models.FailurePermanent
	}
}

func (s *GenerationService) GenerateTryOn(ctx context.Context, req models.TryOnRequest) (*models.GenerationResult, error) {
	return s.post(ctx, "/api/fitting/try-on", req)
}

func (s *GenerationService) StyleEdit(ctx context.Context, req models.StyleEditRequest) (*models.GenerationResult, error) {
	return s.post(ctx, "/api/fitting/style-edit", req)
}

func (s *GenerationService) post(ctx context.Context, path string, payload interface{}) (*models.GenerationResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &models.ServiceError{Kind: models.FailurePermanent, Message: fmt.Sprintf("could not encode generation request: %v", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &models.ServiceError{Kind: models.FailurePermanent, Message: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := s.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: GenerationTimeout}
	}

	started := time.Now()
	resp, err := client.Do(httpReq)
	if err != nil {
		// A timed-out call is indistinguishable from an overloaded backend
		// from the user's point of view, so it gets the transient treatment.
		if isTimeout(err) {
			return nil, &models.ServiceError{Kind: models.FailureTransient, Message: "generation request timed out"}
		}
		return nil, &models.ServiceError{Kind: models.FailurePermanent, Message: fmt.Sprintf("generation request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &models.ServiceError{
			Kind:       ClassifyGenerationStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("generation backend returned %d: %s", resp.StatusCode, string(msg)),
		}
	}

	var out models.TryOnResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &models.ServiceError{Kind: models.FailurePermanent, StatusCode: resp.StatusCode, Message: fmt.Sprintf("malformed generation response: %v", err)}
	}
	if out.GeneratedImage == "" {
		return nil, &models.ServiceError{Kind: models.FailurePermanent, StatusCode: resp.StatusCode, Message: "generation response is missing generated_image"}
	}

	processing := out.ProcessingTime
	if processing == 0 {
		processing = time.Since(started).Seconds()
	}
	return &models.GenerationResult{
		ImageURI:       models.EnsureDataURI(out.GeneratedImage),
		ProcessingTime: processing,
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
