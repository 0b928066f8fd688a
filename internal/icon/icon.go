// Package icon renders the tray icon: a 64x64 bitmap with three
// vertical usage bars (CPU, memory, disk), each filled bottom-up with
// a per-category gradient. The rendered image is encoded to PNG, or
// wrapped in an ICO container for Windows tray hosts.
package icon

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/opd-ai/traypulse/internal/metrics"
)

const (
	// Size is the icon edge length in pixels.
	Size = 64
	// padding separates the bars from each other and the icon edge.
	padding = 4
)

var (
	backgroundColor = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	wellColor       = color.RGBA{R: 50, G: 50, B: 50, A: 255}
	outlineColor    = color.RGBA{R: 150, G: 150, B: 150, A: 255}
)

// Renderer draws quick-sample bars into an RGBA buffer. Gradients are
// precomputed at construction; the renderer itself is stateless and
// safe for reuse across refresh ticks.
type Renderer struct {
	barWidth  int
	gradients [3][]color.RGBA // cpu, mem, disk
}

// NewRenderer creates a Renderer with the reference gradients: green
// for CPU, red for memory, blue for disk, each running dim to bright
// over the icon height.
func NewRenderer() *Renderer {
	r := &Renderer{barWidth: (Size - padding*4) / 3}
	r.gradients[0] = gradient(color.RGBA{0, 180, 0, 255}, color.RGBA{0, 255, 0, 255})
	r.gradients[1] = gradient(color.RGBA{180, 0, 0, 255}, color.RGBA{255, 0, 0, 255})
	r.gradients[2] = gradient(color.RGBA{0, 0, 180, 255}, color.RGBA{0, 0, 255, 255})
	return r
}

// gradient interpolates from start to end over the icon height.
func gradient(start, end color.RGBA) []color.RGBA {
	steps := make([]color.RGBA, Size)
	for i := range steps {
		steps[i] = color.RGBA{
			R: lerp(start.R, end.R, i, Size),
			G: lerp(start.G, end.G, i, Size),
			B: lerp(start.B, end.B, i, Size),
			A: 255,
		}
	}
	return steps
}

func lerp(start, end uint8, step, total int) uint8 {
	return uint8(int(start) + (int(end)-int(start))*step/total)
}

// Render draws the three usage bars for one quick sample. Usage values
// are clamped to [0, 100].
func (r *Renderer) Render(q metrics.QuickSample) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Size, Size))
	fillRect(img, 0, 0, Size, Size, backgroundColor)

	usages := [3]float64{q.CPU, q.Memory, q.Disk}
	for i := 0; i < 3; i++ {
		x := padding + i*(r.barWidth+padding)
		fillRect(img, x, padding, r.barWidth, Size-2*padding, wellColor)
		r.drawBar(img, i, usages[i])
		strokeRect(img, x, padding, r.barWidth, Size-2*padding, outlineColor)
	}
	return img
}

// drawBar fills bar index i bottom-up to the given usage percentage.
func (r *Renderer) drawBar(img *image.RGBA, i int, usage float64) {
	usage = clamp(usage)
	barHeight := Size - 2*padding
	usageHeight := int(float64(barHeight) * usage / 100)
	if usageHeight == 0 {
		return
	}

	x := padding + i*(r.barWidth+padding)
	yStart := Size - padding - usageHeight
	grad := r.gradients[i]
	for row := 0; row < usageHeight; row++ {
		c := grad[min(row, len(grad)-1)]
		for dx := 0; dx < r.barWidth; dx++ {
			img.SetRGBA(x+dx, yStart+row, c)
		}
	}
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

func fillRect(img *image.RGBA, x, y, w, h int, c color.RGBA) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			img.SetRGBA(x+dx, y+dy, c)
		}
	}
}

func strokeRect(img *image.RGBA, x, y, w, h int, c color.RGBA) {
	for dx := 0; dx < w; dx++ {
		img.SetRGBA(x+dx, y, c)
		img.SetRGBA(x+dx, y+h-1, c)
	}
	for dy := 0; dy < h; dy++ {
		img.SetRGBA(x, y+dy, c)
		img.SetRGBA(x+w-1, y+dy, c)
	}
}

// EncodePNG encodes the icon as PNG bytes, the format Linux and macOS
// tray hosts accept.
func EncodePNG(img *image.RGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode icon png: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeICO encodes the icon as a single-image ICO container with a
// PNG payload (supported since Windows Vista), the format the Windows
// tray host expects.
func EncodeICO(img *image.RGBA) ([]byte, error) {
	payload, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	// ICONDIR: reserved, type 1 (icon), one image.
	hdr := []any{uint16(0), uint16(1), uint16(1)}
	// ICONDIRENTRY: width, height, palette size, reserved, planes,
	// bit depth, payload length, payload offset (6 + 16 byte headers).
	entry := []any{
		uint8(Size), uint8(Size), uint8(0), uint8(0),
		uint16(1), uint16(32),
		uint32(len(payload)), uint32(22),
	}
	for _, v := range append(hdr, entry...) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return nil, fmt.Errorf("encode icon ico: %w", err)
		}
	}
	buf.Write(payload)
	return buf.Bytes(), nil
}
