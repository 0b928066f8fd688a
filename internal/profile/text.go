package profile

import (
	"bytes"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
)

const (
	defaultFontSize = 13.0
	headerFontSize  = 14.0
)

// textRenderer draws the window's text using the embedded Go monospace
// fonts: regular for values, bold for section headers and controls.
type textRenderer struct {
	regular *text.GoTextFaceSource
	bold    *text.GoTextFaceSource
}

func newTextRenderer() *textRenderer {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		// The embedded font is a build-time constant.
		panic("failed to load embedded font: " + err.Error())
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gomonobold.TTF))
	if err != nil {
		panic("failed to load embedded bold font: " + err.Error())
	}
	return &textRenderer{regular: regular, bold: bold}
}

// draw renders one line of regular text with its top-left at (x, y).
func (tr *textRenderer) draw(dst *ebiten.Image, s string, x, y float64, clr color.RGBA) {
	tr.drawFace(dst, s, x, y, clr, &text.GoTextFace{Source: tr.regular, Size: defaultFontSize})
}

// drawBold renders one line of bold text with its top-left at (x, y).
func (tr *textRenderer) drawBold(dst *ebiten.Image, s string, x, y float64, clr color.RGBA) {
	tr.drawFace(dst, s, x, y, clr, &text.GoTextFace{Source: tr.bold, Size: headerFontSize})
}

func (tr *textRenderer) drawFace(dst *ebiten.Image, s string, x, y float64, clr color.RGBA, face text.Face) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, face, op)
}
