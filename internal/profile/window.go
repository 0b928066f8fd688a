// Package profile implements the detailed metrics window using Ebiten.
// The render loop blocks the calling thread; Ebiten requires that to be
// the process's main goroutine, which is why the coordinator reserves
// the primary thread for this surface.
package profile

import (
	"fmt"
	"image/color"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/opd-ai/traypulse/internal/metrics"
)

// Sampler supplies metric snapshots to the window. *metrics.Collector
// satisfies it; tests substitute a fake.
type Sampler interface {
	Sample() metrics.Snapshot
}

const (
	windowWidth  = 560
	windowHeight = 720

	// MinRefreshInterval and MaxRefreshInterval bound the slider range.
	MinRefreshInterval = 100 * time.Millisecond
	MaxRefreshInterval = 5 * time.Second
	// DefaultRefreshInterval is used when the config leaves it zero.
	DefaultRefreshInterval = time.Second
)

// Window lifecycle states. Stopped is terminal; each show-profile
// request constructs a fresh Window.
const (
	stateCreated int32 = iota
	stateRunning
	stateStopped
)

// Layout geometry.
const (
	marginX      = 20
	labelX       = 34
	valueX       = 230
	rowHeight    = 19
	headerHeight = 22
	sectionGap   = 9
	controlsY    = 18
)

var (
	windowBackground = color.RGBA{R: 15, G: 15, B: 20, A: 255}
	staticLabelColor = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	valueLabelColor  = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	headerTextColor  = color.RGBA{R: 230, G: 230, B: 230, A: 255}
)

// Category accent colors, one per section.
var (
	colorCPU     = color.RGBA{R: 141, G: 40, B: 40, A: 255}
	colorMemory  = color.RGBA{R: 40, G: 141, B: 40, A: 255}
	colorDisk    = color.RGBA{R: 40, G: 40, B: 141, A: 255}
	colorNetwork = color.RGBA{R: 141, G: 141, B: 40, A: 255}
	colorProcess = color.RGBA{R: 141, G: 40, B: 141, A: 255}
	colorSystem  = color.RGBA{R: 40, G: 141, B: 141, A: 255}
)

// rowSpec and sectionSpec describe the static window layout.
type rowSpec struct {
	id    FieldID
	label string
}

type sectionSpec struct {
	title string
	color color.RGBA
	rows  []rowSpec
}

var windowLayout = []sectionSpec{
	{"CPU", colorCPU, []rowSpec{
		{FieldCPUTotal, "Total Usage"},
		{FieldCPUCores, "Physical Cores"},
		{FieldCPUThreads, "Logical Threads"},
		{FieldCPUFrequency, "Frequency"},
		{FieldCPUPerCore, "Per Core"},
	}},
	{"Memory", colorMemory, []rowSpec{
		{FieldMemTotal, "Total"},
		{FieldMemAvailable, "Available"},
		{FieldMemUsed, "Used"},
		{FieldMemSwap, "Swap Used"},
	}},
	{"Disk", colorDisk, []rowSpec{
		{FieldDiskMount, "Mount Point"},
		{FieldDiskTotal, "Total"},
		{FieldDiskUsed, "Used"},
		{FieldDiskRead, "Total Read"},
		{FieldDiskWrite, "Total Write"},
	}},
	{"Network", colorNetwork, []rowSpec{
		{FieldNetSent, "Sent"},
		{FieldNetRecv, "Received"},
		{FieldNetPacketsSent, "Packets Sent"},
		{FieldNetPacketsRecv, "Packets Received"},
	}},
	{"Processes", colorProcess, []rowSpec{
		{FieldProcTotal, "Total Processes"},
		{FieldProcCPU, "This Process CPU"},
		{FieldProcMemory, "This Process Memory"},
		{FieldProcThreads, "This Process Threads"},
	}},
	{"System", colorSystem, []rowSpec{
		{FieldSysHostname, "Hostname"},
		{FieldSysPlatform, "Platform"},
		{FieldSysBootTime, "Boot Time"},
		{FieldSysUptime, "Uptime"},
	}},
}

// refreshState gates snapshot pulls. It is read and written only on
// the render loop's own thread, so it needs no synchronization.
type refreshState struct {
	interval   time.Duration
	lastUpdate time.Time
}

func (rs *refreshState) due(now time.Time) bool {
	return now.Sub(rs.lastUpdate) >= rs.interval
}

func (rs *refreshState) setInterval(d time.Duration) {
	if d < MinRefreshInterval {
		d = MinRefreshInterval
	} else if d > MaxRefreshInterval {
		d = MaxRefreshInterval
	}
	rs.interval = d
}

// section is one rendered category block.
type section struct {
	title      string
	background color.RGBA
	y          float64
	bar        *usageBar
}

// Config adjusts window behavior. Zero values select defaults.
type Config struct {
	// Title of the OS window.
	Title string
	// RefreshInterval is the initial snapshot interval, clamped to
	// [MinRefreshInterval, MaxRefreshInterval].
	RefreshInterval time.Duration
}

// Window is the profile surface: an ebiten.Game rendering all metric
// categories, a refresh-interval slider and a close button.
type Window struct {
	sampler  Sampler
	registry *fieldRegistry
	tr       *textRenderer
	title    string

	statics  []*label
	values   []*label
	sections []*section
	cpuBar   *usageBar
	memBar   *usageBar
	diskBar  *usageBar
	interval *slider
	closeBtn *button

	refresh refreshState
	now     func() time.Time

	state        atomic.Int32
	stopRequest  atomic.Bool
	wasPressed   bool
	hoveredClose bool
}

// Compile-time check that Window satisfies ebiten.Game.
var _ ebiten.Game = (*Window)(nil)

// NewWindow creates a profile window in the Created state. The widget
// tree and the field registry are built here, once.
func NewWindow(sampler Sampler, cfg Config) *Window {
	w := &Window{
		sampler:  sampler,
		registry: newFieldRegistry(),
		tr:       newTextRenderer(),
		title:    cfg.Title,
		now:      time.Now,
	}
	if w.title == "" {
		w.title = "traypulse - System Profile"
	}
	w.refresh.setInterval(cfg.RefreshInterval)
	if cfg.RefreshInterval == 0 {
		w.refresh.interval = DefaultRefreshInterval
	}

	w.interval = &slider{
		x: marginX, y: controlsY + 2, width: 200, height: 14,
		min:   MinRefreshInterval.Seconds(),
		max:   MaxRefreshInterval.Seconds(),
		value: w.refresh.interval.Seconds(),
		label: "Update Interval",
		unit:  "s",
	}
	w.closeBtn = &button{
		x: windowWidth - marginX - 80, y: controlsY, width: 80, height: 20,
		label: "Close",
	}

	w.buildSections()
	return w
}

// buildSections lays out the six category blocks top to bottom and
// registers every value label with the field registry.
func (w *Window) buildSections() {
	y := float64(controlsY + 34)
	for _, spec := range windowLayout {
		sec := &section{
			title: spec.title,
			// Muted header background, full-strength accent on the bar.
			background: color.RGBA{R: spec.color.R / 3, G: spec.color.G / 3, B: spec.color.B / 3, A: 255},
			y:          y,
		}

		switch spec.title {
		case "CPU", "Memory", "Disk":
			bar := &usageBar{
				x: windowWidth - marginX - 160, y: y + 5,
				width: 160, height: 12,
				fill: spec.color,
			}
			sec.bar = bar
			switch spec.title {
			case "CPU":
				w.cpuBar = bar
			case "Memory":
				w.memBar = bar
			case "Disk":
				w.diskBar = bar
			}
		}
		w.sections = append(w.sections, sec)
		y += headerHeight + 4

		for _, row := range spec.rows {
			w.statics = append(w.statics, &label{
				text: row.label + ":", x: labelX, y: y, color: staticLabelColor,
			})
			value := &label{text: "--", x: valueX, y: y, color: valueLabelColor}
			w.values = append(w.values, value)
			w.registry.register(row.id, value)
			y += rowHeight
		}
		y += sectionGap
	}
}

// Run blocks in the render loop on the calling thread until the window
// is closed or stopped. A Window is single-use.
func (w *Window) Run() error {
	if !w.state.CompareAndSwap(stateCreated, stateRunning) {
		return fmt.Errorf("profile window already used")
	}
	defer w.state.Store(stateStopped)

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)

	if err := ebiten.RunGame(w); err != nil {
		return fmt.Errorf("profile render loop: %w", err)
	}
	return nil
}

// Stop requests the render loop to exit on its next iteration. Safe to
// call from any goroutine; cancellation is cooperative, the loop is
// never preempted.
func (w *Window) Stop() {
	w.stopRequest.Store(true)
}

// IsRunning reports whether the render loop is active.
func (w *Window) IsRunning() bool {
	return w.state.Load() == stateRunning
}

// RefreshInterval returns the currently configured snapshot interval.
func (w *Window) RefreshInterval() time.Duration {
	return w.refresh.interval
}

// Update implements ebiten.Game. It observes the stop flag, processes
// input and pulls a fresh snapshot only when the refresh interval has
// elapsed; between refreshes the previous frame's values are redrawn
// untouched.
func (w *Window) Update() error {
	if w.stopRequest.Load() {
		return ebiten.Termination
	}

	mx, my := ebiten.CursorPosition()
	w.handleInput(mx, my, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	w.tick(w.now())
	return nil
}

// handleInput processes one frame of mouse state.
func (w *Window) handleInput(mx, my int, pressed bool) {
	justPressed := pressed && !w.wasPressed
	w.wasPressed = pressed

	if w.interval.handleInput(mx, my, pressed) {
		w.refresh.setInterval(time.Duration(w.interval.value * float64(time.Second)))
	}

	w.hoveredClose = w.closeBtn.contains(mx, my)
	if justPressed && w.hoveredClose {
		w.Stop()
	}
}

// tick refreshes the displayed values when due.
func (w *Window) tick(now time.Time) {
	if !w.refresh.due(now) {
		return
	}
	snap := w.sampler.Sample()
	w.registry.apply(snap)
	w.cpuBar.value = snap.CPU.TotalPercent
	w.memBar.value = snap.Memory.UsedPercent
	w.diskBar.value = snap.Disk.UsedPercent
	w.refresh.lastUpdate = now
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(windowBackground)

	w.interval.draw(screen, w.tr)
	w.closeBtn.draw(screen, w.tr, w.hoveredClose)

	for _, sec := range w.sections {
		vector.DrawFilledRect(screen, marginX, float32(sec.y), windowWidth-2*marginX, headerHeight, sec.background, false)
		w.tr.drawBold(screen, sec.title, marginX+8, sec.y+3, headerTextColor)
		if sec.bar != nil {
			sec.bar.draw(screen)
		}
	}
	for _, l := range w.statics {
		l.draw(screen, w.tr)
	}
	for _, l := range w.values {
		l.draw(screen, w.tr)
	}
}

// Layout implements ebiten.Game.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowWidth, windowHeight
}
