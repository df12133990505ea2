package services

import "sync"

// CompareSlider is the before/after divider of the comparison view. Position
// is a percentage of the container width; 0 shows only the original photo,
// 100 only the generated one.
type CompareSlider struct {
	mu       sync.Mutex
	left     float64
	width    float64
	position float64
	dragging bool
	onChange func(position float64)
}

// NewCompareSlider starts with the divider in the middle. onChange fires
// synchronously on every accepted move, so the clipped image never lags a
// frame behind the handle.
func NewCompareSlider(onChange func(position float64)) *CompareSlider {
	return &CompareSlider{position: 50, onChange: onChange}
}

// SetBounds records the container geometry used to translate pointer
// coordinates into percentages.
func (s *CompareSlider) SetBounds(left, width float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.left = left
	s.width = width
}

func (s *CompareSlider) StartDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragging = true
}

// EndDrag releases the handle. It is safe to call when no drag is active,
// which is what a document-level pointer-up outside the container does.
func (s *CompareSlider) EndDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragging = false
}

// MoveTo maps an absolute pointer x to a clamped percentage. Moves are
// ignored outside a drag and while the container has no measured width.
func (s *CompareSlider) MoveTo(x float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dragging || s.width <= 0 {
		return
	}
	pos := (x - s.left) / s.width
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	s.position = pos * 100
	if s.onChange != nil {
		s.onChange(s.position)
	}
}

func (s *CompareSlider) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

func (s *CompareSlider) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragging
}
