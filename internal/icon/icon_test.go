package icon

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"testing"

	"github.com/opd-ai/traypulse/internal/metrics"
)

func TestRenderDimensions(t *testing.T) {
	r := NewRenderer()
	img := r.Render(metrics.QuickSample{CPU: 50, Memory: 50, Disk: 50})

	bounds := img.Bounds()
	if bounds.Dx() != Size || bounds.Dy() != Size {
		t.Errorf("icon size = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), Size, Size)
	}
}

func TestRenderFullBarReachesTop(t *testing.T) {
	r := NewRenderer()
	img := r.Render(metrics.QuickSample{CPU: 100})

	// Sample inside the CPU bar just below the top padding; a 100%
	// bar must be filled green there.
	x := padding + r.barWidth/2
	y := padding + 1
	c := img.RGBAAt(x, y)
	if c.G <= c.R || c.G <= c.B {
		t.Errorf("pixel at (%d,%d) = %+v, want green-dominant fill for 100%% CPU", x, y, c)
	}
}

func TestRenderEmptyBarShowsWell(t *testing.T) {
	r := NewRenderer()
	img := r.Render(metrics.QuickSample{})

	x := padding + r.barWidth/2
	y := Size / 2
	if c := img.RGBAAt(x, y); c != wellColor {
		t.Errorf("pixel at (%d,%d) = %+v, want empty well %+v", x, y, c, wellColor)
	}
}

func TestRenderClampsOutOfRange(t *testing.T) {
	r := NewRenderer()

	// Out-of-range inputs must render like their clamped equivalents.
	over := r.Render(metrics.QuickSample{CPU: 250, Memory: -10, Disk: 100})
	norm := r.Render(metrics.QuickSample{CPU: 100, Memory: 0, Disk: 100})

	if !bytes.Equal(over.Pix, norm.Pix) {
		t.Error("out-of-range usage should render identically to clamped usage")
	}
}

func TestEncodePNGRoundTrip(t *testing.T) {
	r := NewRenderer()
	data, err := EncodePNG(r.Render(metrics.QuickSample{CPU: 30, Memory: 60, Disk: 90}))
	if err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding rendered PNG: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != Size || b.Dy() != Size {
		t.Errorf("decoded size = %dx%d, want %dx%d", b.Dx(), b.Dy(), Size, Size)
	}
}

func TestEncodeICOHeader(t *testing.T) {
	r := NewRenderer()
	img := r.Render(metrics.QuickSample{CPU: 10})

	data, err := EncodeICO(img)
	if err != nil {
		t.Fatalf("EncodeICO() error = %v", err)
	}
	if len(data) < 22 {
		t.Fatalf("ICO too short: %d bytes", len(data))
	}

	if typ := binary.LittleEndian.Uint16(data[2:4]); typ != 1 {
		t.Errorf("ICO resource type = %d, want 1", typ)
	}
	if count := binary.LittleEndian.Uint16(data[4:6]); count != 1 {
		t.Errorf("ICO image count = %d, want 1", count)
	}
	if data[6] != Size || data[7] != Size {
		t.Errorf("ICO entry size = %dx%d, want %dx%d", data[6], data[7], Size, Size)
	}

	payloadLen := binary.LittleEndian.Uint32(data[14:18])
	offset := binary.LittleEndian.Uint32(data[18:22])
	if offset != 22 {
		t.Errorf("ICO payload offset = %d, want 22", offset)
	}
	if int(offset+payloadLen) != len(data) {
		t.Errorf("ICO length mismatch: header says %d payload bytes, file has %d after offset",
			payloadLen, len(data)-int(offset))
	}

	// The embedded payload must be a decodable PNG.
	if _, err := png.Decode(bytes.NewReader(data[offset:])); err != nil {
		t.Errorf("ICO payload is not valid PNG: %v", err)
	}
}
