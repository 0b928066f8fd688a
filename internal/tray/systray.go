package tray

import "fyne.io/systray"

// systrayBackend is the production Backend, wrapping the package-level
// fyne.io/systray API. The host toolkit supports one tray per process.
type systrayBackend struct{}

func (systrayBackend) Run(onReady, onExit func()) {
	systray.Run(onReady, onExit)
}

func (systrayBackend) Quit() {
	systray.Quit()
}

func (systrayBackend) SetIcon(data []byte) {
	systray.SetIcon(data)
}

func (systrayBackend) SetTooltip(tooltip string) {
	systray.SetTooltip(tooltip)
}

func (systrayBackend) AddMenuItem(title, tooltip string) MenuItem {
	return systrayItem{item: systray.AddMenuItem(title, tooltip)}
}

func (systrayBackend) AddSeparator() {
	systray.AddSeparator()
}

// systrayItem adapts *systray.MenuItem to the MenuItem interface.
type systrayItem struct {
	item *systray.MenuItem
}

func (i systrayItem) Clicked() <-chan struct{} {
	return i.item.ClickedCh
}
