package profile

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// label is one line of text at a fixed position. Value labels are
// registered in the field registry and mutated between frames; static
// labels never change after layout.
type label struct {
	text  string
	x, y  float64
	color color.RGBA
}

func (l *label) draw(dst *ebiten.Image, tr *textRenderer) {
	tr.draw(dst, l.text, l.x, l.y, l.color)
}

// usageBar is a horizontal percentage bar shown beside the CPU, memory
// and disk section headers.
type usageBar struct {
	x, y          float64
	width, height float64
	value         float64 // [0, 100]
	fill          color.RGBA
}

var (
	barBackground = color.RGBA{R: 30, G: 30, B: 40, A: 255}
	barBorder     = color.RGBA{R: 70, G: 70, B: 85, A: 255}
)

func (b *usageBar) draw(dst *ebiten.Image) {
	vector.DrawFilledRect(dst, float32(b.x), float32(b.y), float32(b.width), float32(b.height), barBackground, false)

	v := b.value
	if v < 0 {
		v = 0
	} else if v > 100 {
		v = 100
	}
	if fw := float32(b.width * v / 100); fw > 0 {
		vector.DrawFilledRect(dst, float32(b.x), float32(b.y), fw, float32(b.height), b.fill, false)
	}
	vector.StrokeRect(dst, float32(b.x), float32(b.y), float32(b.width), float32(b.height), 1, barBorder, false)
}

// slider maps a horizontal drag position to a value in [min, max].
// It is touched only on the render loop's thread.
type slider struct {
	x, y          float64
	width, height float64
	min, max      float64
	value         float64
	label         string
	unit          string
	dragging      bool
}

// handleInput processes one frame of mouse state. It returns true when
// the value changed. Dragging continues while the button stays pressed
// even if the cursor leaves the track.
func (s *slider) handleInput(mx, my int, pressed bool) bool {
	if !pressed {
		s.dragging = false
		return false
	}
	if !s.dragging && !s.contains(mx, my) {
		return false
	}
	s.dragging = true

	ratio := (float64(mx) - s.x) / s.width
	if ratio < 0 {
		ratio = 0
	} else if ratio > 1 {
		ratio = 1
	}
	v := s.min + ratio*(s.max-s.min)
	if v == s.value {
		return false
	}
	s.value = v
	return true
}

func (s *slider) contains(mx, my int) bool {
	fx, fy := float64(mx), float64(my)
	return fx >= s.x && fx <= s.x+s.width && fy >= s.y && fy <= s.y+s.height
}

var (
	sliderTrack = color.RGBA{R: 30, G: 30, B: 40, A: 255}
	sliderFill  = color.RGBA{R: 80, G: 80, B: 100, A: 255}
	sliderKnob  = color.RGBA{R: 100, G: 100, B: 130, A: 255}
	controlText = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

func (s *slider) draw(dst *ebiten.Image, tr *textRenderer) {
	vector.DrawFilledRect(dst, float32(s.x), float32(s.y), float32(s.width), float32(s.height), sliderTrack, false)

	ratio := (s.value - s.min) / (s.max - s.min)
	vector.DrawFilledRect(dst, float32(s.x), float32(s.y), float32(s.width*ratio), float32(s.height), sliderFill, false)

	knobX := s.x + s.width*ratio - 3
	vector.DrawFilledRect(dst, float32(knobX), float32(s.y-2), 6, float32(s.height+4), sliderKnob, false)
	vector.StrokeRect(dst, float32(s.x), float32(s.y), float32(s.width), float32(s.height), 1, barBorder, false)

	caption := fmt.Sprintf("%s: %.1f%s", s.label, s.value, s.unit)
	tr.draw(dst, caption, s.x+s.width+12, s.y-1, controlText)
}

// button is a labeled click target.
type button struct {
	x, y          float64
	width, height float64
	label         string
}

func (b *button) contains(mx, my int) bool {
	fx, fy := float64(mx), float64(my)
	return fx >= b.x && fx <= b.x+b.width && fy >= b.y && fy <= b.y+b.height
}

var (
	buttonFill  = color.RGBA{R: 50, G: 50, B: 70, A: 255}
	buttonHover = color.RGBA{R: 70, G: 70, B: 95, A: 255}
)

func (b *button) draw(dst *ebiten.Image, tr *textRenderer, hovered bool) {
	fill := buttonFill
	if hovered {
		fill = buttonHover
	}
	vector.DrawFilledRect(dst, float32(b.x), float32(b.y), float32(b.width), float32(b.height), fill, false)
	vector.StrokeRect(dst, float32(b.x), float32(b.y), float32(b.width), float32(b.height), 1, barBorder, false)
	tr.draw(dst, b.label, b.x+14, b.y+3, controlText)
}
