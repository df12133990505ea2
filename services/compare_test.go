package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSliderStartsCentered(t *testing.T) {
	slider := NewCompareSlider(nil)
	assert.Equal(t, 50.0, slider.Position())
	assert.False(t, slider.Dragging())
}

func TestSliderMapsPointerToPercentage(t *testing.T) {
	slider := NewCompareSlider(nil)
	slider.SetBounds(100, 200)
	slider.StartDrag()

	slider.MoveTo(100)
	assert.Equal(t, 0.0, slider.Position())

	slider.MoveTo(200)
	assert.Equal(t, 50.0, slider.Position())

	slider.MoveTo(300)
	assert.Equal(t, 100.0, slider.Position())

	slider.MoveTo(150)
	assert.Equal(t, 25.0, slider.Position())
}

func TestSliderClampsOutsideContainer(t *testing.T) {
	slider := NewCompareSlider(nil)
	slider.SetBounds(100, 200)
	slider.StartDrag()

	slider.MoveTo(-500)
	assert.Equal(t, 0.0, slider.Position())

	slider.MoveTo(5000)
	assert.Equal(t, 100.0, slider.Position())
}

func TestSliderIgnoresMovesOutsideDrag(t *testing.T) {
	slider := NewCompareSlider(nil)
	slider.SetBounds(0, 100)

	slider.MoveTo(80)
	assert.Equal(t, 50.0, slider.Position())

	slider.StartDrag()
	slider.MoveTo(80)
	assert.Equal(t, 80.0, slider.Position())

	slider.EndDrag()
	slider.MoveTo(10)
	assert.Equal(t, 80.0, slider.Position())
}

func TestSliderZeroWidthIsInert(t *testing.T) {
	slider := NewCompareSlider(nil)
	slider.SetBounds(0, 0)
	slider.StartDrag()

	slider.MoveTo(40)
	assert.Equal(t, 50.0, slider.Position())
}

func TestSliderNotifiesSynchronously(t *testing.T) {
	var seen []float64
	slider := NewCompareSlider(func(position float64) { seen = append(seen, position) })
	slider.SetBounds(0, 100)
	slider.StartDrag()

	slider.MoveTo(10)
	slider.MoveTo(20)
	slider.MoveTo(20)

	// Every accepted move notifies, even repeats of the same position.
	assert.Equal(t, []float64{10, 20, 20}, seen)
}

func TestSliderReleaseOutsideContainer(t *testing.T) {
	slider := NewCompareSlider(nil)
	slider.SetBounds(0, 100)
	slider.StartDrag()
	slider.MoveTo(90)

	// Pointer released beyond the container; the document-level handler
	// still ends the drag.
	slider.EndDrag()
	assert.False(t, slider.Dragging())
	slider.EndDrag()
	assert.False(t, slider.Dragging())
}
