// Package tray implements the persistent system-tray surface: a live
// three-bar icon, a tooltip with quick metrics, and a two-item menu.
// The host toolkit is hidden behind the Backend interface so the
// surface logic can be exercised without a desktop session.
package tray

import (
	"fmt"
	"image"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/traypulse/internal/icon"
	"github.com/opd-ai/traypulse/internal/metrics"
)

const (
	// defaultRefreshInterval is the fixed tick between icon updates.
	defaultRefreshInterval = time.Second
	// defaultInitialDelay gives the host tray time to attach before
	// the first icon render.
	defaultInitialDelay = 500 * time.Millisecond
)

// Surface lifecycle states. Stopped is terminal: a stopped surface is
// never restarted, a new one is constructed instead.
const (
	stateCreated int32 = iota
	stateRunning
	stateStopped
)

// MenuItem is a clickable entry in the tray menu.
type MenuItem interface {
	// Clicked returns the channel that receives a value per click.
	Clicked() <-chan struct{}
}

// Backend abstracts the host tray toolkit.
type Backend interface {
	// Run blocks in the host event loop. onReady is invoked once the
	// tray is attached; onExit after the loop has ended.
	Run(onReady, onExit func())
	// Quit stops the host event loop. Safe to call from any thread.
	Quit()
	SetIcon(data []byte)
	SetTooltip(tooltip string)
	AddMenuItem(title, tooltip string) MenuItem
	AddSeparator()
}

// Callbacks are supplied by the coordinator. A nil OnShowProfile omits
// the "Show Profile" menu entry (tray-only mode).
type Callbacks struct {
	OnShowProfile func()
	OnExit        func()
}

// Config adjusts surface behavior. Zero values select defaults.
type Config struct {
	// Title is the first tooltip line, e.g. "traypulse v0.1.0".
	Title string
	// RefreshInterval between icon updates (default 1s).
	RefreshInterval time.Duration
	// InitialDelay before the first update (default 500ms).
	InitialDelay time.Duration
	// Backend overrides the host toolkit (default: fyne.io/systray).
	Backend Backend
	// OnError receives refresh errors. The loop continues regardless.
	OnError func(error)
	// OnRefresh is invoked after each successful icon update with the
	// time spent sampling, rendering and encoding.
	OnRefresh func(elapsed time.Duration)
}

// Surface owns the tray icon and its background refresh loop.
type Surface struct {
	backend   Backend
	collector *metrics.Collector
	renderer  *icon.Renderer
	callbacks Callbacks

	title           string
	refreshInterval time.Duration
	initialDelay    time.Duration
	onError         func(error)
	onRefresh       func(time.Duration)
	encode          func(*image.RGBA) ([]byte, error)

	state    atomic.Int32
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a tray surface in the Created state.
func New(collector *metrics.Collector, callbacks Callbacks, cfg Config) *Surface {
	s := &Surface{
		backend:         cfg.Backend,
		collector:       collector,
		renderer:        icon.NewRenderer(),
		callbacks:       callbacks,
		title:           cfg.Title,
		refreshInterval: cfg.RefreshInterval,
		initialDelay:    cfg.InitialDelay,
		onError:         cfg.OnError,
		onRefresh:       cfg.OnRefresh,
		stopCh:          make(chan struct{}),
	}
	if s.backend == nil {
		s.backend = systrayBackend{}
	}
	if s.title == "" {
		s.title = "traypulse"
	}
	if s.refreshInterval <= 0 {
		s.refreshInterval = defaultRefreshInterval
	}
	if s.initialDelay <= 0 {
		s.initialDelay = defaultInitialDelay
	}
	s.encode = icon.EncodePNG
	if runtime.GOOS == "windows" {
		s.encode = icon.EncodeICO
	}
	return s
}

// Run blocks the calling thread in the host tray event loop until the
// surface is stopped. It returns an error if the surface has already
// been run; a Surface is single-use.
func (s *Surface) Run() error {
	if !s.state.CompareAndSwap(stateCreated, stateRunning) {
		return fmt.Errorf("tray surface already used")
	}

	s.backend.Run(s.onReady, nil)

	// The host loop has ended; make sure our goroutines follow.
	s.signalStop()
	s.wg.Wait()
	s.state.Store(stateStopped)
	return nil
}

// Stop halts the refresh loop and the host event loop. It is
// idempotent and safe to call from any thread, including before Run.
func (s *Surface) Stop() {
	s.signalStop()
	s.backend.Quit()
}

// IsRunning reports whether Run is currently blocked in the host loop.
func (s *Surface) IsRunning() bool {
	return s.state.Load() == stateRunning
}

func (s *Surface) signalStop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// onReady runs on the host toolkit's thread once the tray is attached.
func (s *Surface) onReady() {
	s.backend.SetTooltip(s.title + " - loading...")
	if data, err := s.encode(s.renderer.Render(metrics.QuickSample{CPU: 25, Memory: 25, Disk: 25})); err == nil {
		s.backend.SetIcon(data)
	}

	var show MenuItem
	if s.callbacks.OnShowProfile != nil {
		show = s.backend.AddMenuItem("Show Profile", "Open the detailed metrics window")
		s.backend.AddSeparator()
	}
	exit := s.backend.AddMenuItem("Exit", "Quit "+s.title)

	s.wg.Add(2)
	go s.refreshLoop()
	go s.menuLoop(show, exit)
}

// refreshLoop updates the icon and tooltip once per refresh interval.
// Every wait selects on the stop channel, so Stop takes effect within
// one tick rather than after a full sleep.
func (s *Surface) refreshLoop() {
	defer s.wg.Done()

	if !s.wait(s.initialDelay) {
		return
	}
	for {
		s.refresh()
		if !s.wait(s.refreshInterval) {
			return
		}
	}
}

// wait sleeps for d, returning false if the surface was stopped first.
func (s *Surface) wait(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-s.stopCh:
		return false
	case <-timer.C:
		return true
	}
}

// refresh renders one quick sample into the icon and tooltip. Errors
// are reported and the loop carries on; the next tick simply retries.
func (s *Surface) refresh() {
	start := time.Now()
	q := s.collector.QuickSample()

	data, err := s.encode(s.renderer.Render(q))
	if err != nil {
		s.reportError(fmt.Errorf("render tray icon: %w", err))
		return
	}
	s.backend.SetIcon(data)
	s.backend.SetTooltip(s.tooltip(q))

	if s.onRefresh != nil {
		s.onRefresh(time.Since(start))
	}
}

func (s *Surface) tooltip(q metrics.QuickSample) string {
	return fmt.Sprintf("%s\nCPU: %s\nMemory: %s\nDisk (%s): %s",
		s.title,
		metrics.FormatPercent(q.CPU),
		metrics.FormatPercent(q.Memory),
		s.collector.SystemDrive(),
		metrics.FormatPercent(q.Disk))
}

// menuLoop dispatches menu clicks to the coordinator callbacks. The
// Exit entry halts both the refresh loop and the host event loop
// before notifying the coordinator, so teardown is prompt even when a
// profile window is open.
func (s *Surface) menuLoop(show, exit MenuItem) {
	defer s.wg.Done()

	var showCh <-chan struct{}
	if show != nil {
		showCh = show.Clicked()
	}
	exitCh := exit.Clicked()

	for {
		select {
		case <-showCh:
			s.callbacks.OnShowProfile()
		case <-exitCh:
			s.Stop()
			if s.callbacks.OnExit != nil {
				s.callbacks.OnExit()
			}
			return
		case <-s.stopCh:
			return
		}
	}
}

func (s *Surface) reportError(err error) {
	if s.onError != nil {
		s.onError(err)
	}
}
