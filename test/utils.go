package test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"hanmeotapp/models"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {

	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

func NewJSONDeviceRequest(method string, target string, deviceID string, param interface{}) *http.Request {
	req := NewJSONRequest(method, target, param)
	req.Header.Add("X-Device-ID", deviceID)
	return req
}

// GenerationOutcome scripts one attempt of the generation mock. A non-zero
// Delay holds the attempt open before resolving, for timing tests.
type GenerationOutcome struct {
	Result *models.GenerationResult
	Err    error
	Delay  time.Duration
}

// GenerationServiceMock plays back scripted outcomes in order and records
// every request it saw. The last outcome repeats once the script runs out.
type GenerationServiceMock struct {
	mu         sync.Mutex
	calls      int
	Outcomes   []GenerationOutcome
	Requests   []models.TryOnRequest
	StyleEdits []models.StyleEditRequest
}

func (m *GenerationServiceMock) GenerateTryOn(ctx context.Context, req models.TryOnRequest) (*models.GenerationResult, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	outcome := m.nextOutcome()
	m.mu.Unlock()
	return m.resolve(ctx, outcome)
}

func (m *GenerationServiceMock) StyleEdit(ctx context.Context, req models.StyleEditRequest) (*models.GenerationResult, error) {
	m.mu.Lock()
	m.StyleEdits = append(m.StyleEdits, req)
	outcome := m.nextOutcome()
	m.mu.Unlock()
	return m.resolve(ctx, outcome)
}

func (m *GenerationServiceMock) nextOutcome() GenerationOutcome {
	index := m.calls
	m.calls++
	if index >= len(m.Outcomes) {
		index = len(m.Outcomes) - 1
	}
	return m.Outcomes[index]
}

func (m *GenerationServiceMock) resolve(ctx context.Context, outcome GenerationOutcome) (*models.GenerationResult, error) {
	if outcome.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(outcome.Delay):
		}
	}
	return outcome.Result, outcome.Err
}

func (m *GenerationServiceMock) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

func (m *GenerationServiceMock) StyleEditCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.StyleEdits)
}

// TinyPngDataURI is a valid 1x1 PNG, small enough to inline in requests.
var TinyPngDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

func TinyPhoto() *models.PhotoAsset {
	payload := strings.SplitN(TinyPngDataURI, "base64,", 2)[1]
	data, _ := base64.StdEncoding.DecodeString(payload)
	return &models.PhotoAsset{Data: data, MimeType: "image/png"}
}
