package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"

	"hanmeotapp/models"
)

const (
	// DefaultRetryDelay is the fixed pause between a transient failure and
	// the next attempt. No backoff growth: the backend asks for a flat wait.
	DefaultRetryDelay = 5 * time.Second
	// DefaultMaxRetries caps retries after the initial attempt, so a fully
	// unlucky submission issues MaxRetries+1 requests in total.
	DefaultMaxRetries = 3
	// DefaultTickInterval drives the elapsed-seconds counter shown while a
	// submission is in flight.
	DefaultTickInterval = time.Second
)

var (
	ErrNoGarments = errors.New("outfit has no items to try on")
	ErrNoCommand  = errors.New("style edit has no command")
)

// TryOnCallbacks receives state transitions of one submission. All callbacks
// are optional and are never invoked after Teardown returns.
type TryOnCallbacks struct {
	OnPending   func(attempt models.GenerationAttempt)
	OnSucceeded func(result models.GenerationResult)
	OnFailed    func(failure *models.ServiceError)
}

// TryOnOrchestrator runs try-on submissions against a generation backend,
// retrying transient failures with a fixed delay. Zero-value durations fall
// back to the defaults, which lets tests inject tiny ones.
type TryOnOrchestrator struct {
	Generation   GenerationServiceProvider
	RetryDelay   time.Duration
	MaxRetries   int
	TickInterval time.Duration
}

func NewTryOnOrchestrator(generation GenerationServiceProvider) *TryOnOrchestrator {
	return &TryOnOrchestrator{
		Generation:   generation,
		RetryDelay:   DefaultRetryDelay,
		MaxRetries:   DefaultMaxRetries,
		TickInterval: DefaultTickInterval,
	}
}

// TryOnSession is one in-flight submission. A session is terminal after the
// first success, the first permanent failure, retry exhaustion, or Teardown,
// whichever comes first.
type TryOnSession struct {
	mu        sync.Mutex
	closed    bool
	cancel    context.CancelFunc
	callbacks TryOnCallbacks
	outfitID  string

	attempt models.GenerationAttempt
	result  *models.GenerationResult
	failure *models.ServiceError

	done chan struct{}
}

// Submit validates the inputs and starts the generation loop. The returned
// session can be polled with Snapshot and stopped with Teardown. The outfit
// id is carried through to the result so the client can correlate it with
// the wishlist entry it came from.
func (o *TryOnOrchestrator) Submit(ctx context.Context, photo *models.PhotoAsset, garments []models.GarmentDescriptor, language, outfitID string, cb TryOnCallbacks) (*TryOnSession, error) {
	if photo == nil || len(photo.Data) == 0 {
		return nil, ErrInvalidPhoto
	}
	if len(garments) == 0 {
		return nil, ErrNoGarments
	}

	req := models.TryOnRequest{
		UserImage:   photo.DataURI(),
		OutfitItems: garments,
		Language:    normalizeLanguage(language),
	}
	return o.start(ctx, outfitID, cb, func(ctx context.Context) (*models.GenerationResult, error) {
		return o.Generation.GenerateTryOn(ctx, req)
	})
}

// SubmitStyleEdit runs a free-text edit of the photo ("make the jacket
// red") through the same retry loop as a try-on.
func (o *TryOnOrchestrator) SubmitStyleEdit(ctx context.Context, photo *models.PhotoAsset, command, language string, cb TryOnCallbacks) (*TryOnSession, error) {
	if photo == nil || len(photo.Data) == 0 {
		return nil, ErrInvalidPhoto
	}
	if strings.TrimSpace(command) == "" {
		return nil, ErrNoCommand
	}

	req := models.StyleEditRequest{
		UserImage: photo.DataURI(),
		Command:   command,
		Language:  normalizeLanguage(language),
	}
	return o.start(ctx, "", cb, func(ctx context.Context) (*models.GenerationResult, error) {
		return o.Generation.StyleEdit(ctx, req)
	})
}

func (o *TryOnOrchestrator) start(ctx context.Context, outfitID string, cb TryOnCallbacks, attempt func(context.Context) (*models.GenerationResult, error)) (*TryOnSession, error) {
	runCtx, cancel := context.WithCancel(ctx)
	session := &TryOnSession{
		cancel:    cancel,
		callbacks: cb,
		outfitID:  outfitID,
		attempt:   models.GenerationAttempt{Status: models.AttemptPending, StartedAt: time.Now()},
		done:      make(chan struct{}),
	}

	go session.tickElapsed(o.tickInterval())
	go session.run(runCtx, o, attempt)
	return session, nil
}

func normalizeLanguage(language string) string {
	if !models.ValidateLanguageRaw(language) {
		return string(models.EN)
	}
	return language
}

func (o *TryOnOrchestrator) retryDelay() time.Duration {
	if o.RetryDelay > 0 {
		return o.RetryDelay
	}
	return DefaultRetryDelay
}

func (o *TryOnOrchestrator) maxRetries() int {
	if o.MaxRetries > 0 {
		return o.MaxRetries
	}
	return DefaultMaxRetries
}

func (o *TryOnOrchestrator) tickInterval() time.Duration {
	if o.TickInterval > 0 {
		return o.TickInterval
	}
	return DefaultTickInterval
}

func (s *TryOnSession) run(ctx context.Context, o *TryOnOrchestrator, attempt func(context.Context) (*models.GenerationResult, error)) {
	defer close(s.done)

	for attemptNumber := 0; ; attemptNumber++ {
		if !s.markPending(attemptNumber) {
			return
		}

		result, err := attempt(ctx)
		if err == nil {
			s.markSucceeded(*result)
			return
		}
		if ctx.Err() != nil {
			// Torn down mid-request; nothing to report.
			return
		}

		failure := asServiceError(err)
		if failure.Kind == models.FailureTransient && attemptNumber < o.maxRetries() {
			fmt.Printf("[TryOn] attempt %v failed transiently, retrying: %v\n", attemptNumber, failure.Message)
			if !s.markRetryWait() {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(o.retryDelay()):
			}
			continue
		}

		if failure.Kind == models.FailureTransient {
			failure = &models.ServiceError{
				Kind:       models.FailureBusy,
				StatusCode: failure.StatusCode,
				Message:    "generation service is busy, try again later",
			}
		}
		if failure.Kind == models.FailurePermanent {
			sentry.CaptureException(fmt.Errorf("try-on generation failed permanently: %v", failure.Message))
		}
		s.markFailed(failure)
		return
	}
}

// tickElapsed advances the visible elapsed counter once per interval and
// re-emits the pending state so a callback consumer sees the counter move.
// The counter accumulates across retries and stops only at a terminal
// state.
func (s *TryOnSession) tickElapsed(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.closed {
				s.mu.Unlock()
				return
			}
			s.attempt.ElapsedSeconds++
			if cb := s.callbacks.OnPending; cb != nil {
				cb(s.attempt)
			}
			s.mu.Unlock()
		}
	}
}

func (s *TryOnSession) markPending(attemptNumber int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.attempt.AttemptNumber = attemptNumber
	s.attempt.Status = models.AttemptPending
	if cb := s.callbacks.OnPending; cb != nil {
		cb(s.attempt)
	}
	return true
}

func (s *TryOnSession) markRetryWait() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.attempt.Status = models.AttemptFailedTransient
	return true
}

func (s *TryOnSession) markSucceeded(result models.GenerationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.attempt.Status = models.AttemptSucceeded
	if result.OutfitID == "" {
		result.OutfitID = s.outfitID
	}
	s.result = &result
	if cb := s.callbacks.OnSucceeded; cb != nil {
		cb(result)
	}
}

func (s *TryOnSession) markFailed(failure *models.ServiceError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.attempt.Status = models.AttemptFailedPermanent
	s.failure = failure
	if cb := s.callbacks.OnFailed; cb != nil {
		cb(failure)
	}
}

// Teardown stops the session. Any in-flight request is cancelled, the
// elapsed ticker is released, and no callback fires after this returns.
func (s *TryOnSession) Teardown() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// Done is closed once the generation loop has exited.
func (s *TryOnSession) Done() <-chan struct{} {
	return s.done
}

// SessionSnapshot is a point-in-time view of a session for status polling.
type SessionSnapshot struct {
	Attempt models.GenerationAttempt `json:"attempt"`
	Result  *models.GenerationResult `json:"result,omitempty"`
	Failure *models.ServiceError     `json:"-"`
}

func (s *TryOnSession) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := SessionSnapshot{Attempt: s.attempt}
	if s.result != nil {
		resultCopy := *s.result
		snap.Result = &resultCopy
	}
	if s.failure != nil {
		failureCopy := *s.failure
		snap.Failure = &failureCopy
	}
	return snap
}

func asServiceError(err error) *models.ServiceError {
	var serviceErr *models.ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr
	}
	return &models.ServiceError{Kind: models.FailurePermanent, Message: err.Error()}
}
