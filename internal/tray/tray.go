// Package tray provides the system tray menu of the brochure.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/brochure/internal/nav"
)

// Navigator accepts navigation requests from any goroutine.
type Navigator interface {
	Submit(req nav.Request) bool
}

// Tray represents the system tray menu.
type Tray struct {
	navigator Navigator
	onToggle  func(enabled bool)
	onOpen    func()
	onQuit    func()
	enabled   bool
	status    string
	mu        sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuStatus *systray.MenuItem
}

// New creates a new Tray that submits page turns to navigator.
func New(navigator Navigator, gesturesEnabled bool) *Tray {
	return &Tray{
		navigator: navigator,
		enabled:   gesturesEnabled,
		status:    "disabled",
	}
}

// OnToggle sets the callback invoked when gestures are switched on or off.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpen sets the callback invoked when "Open Viewer" is clicked.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback invoked when "Quit" is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Brochure")
	systray.SetTooltip("Brochure page turner")

	menuNext := systray.AddMenuItem("Next Page", "Turn to the next page")
	menuPrev := systray.AddMenuItem("Previous Page", "Turn back to the previous page")
	systray.AddSeparator()

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle gesture navigation")
	t.menuStatus = systray.AddMenuItem(statusTitle(t.status), "Gesture status")
	t.menuStatus.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open Viewer", "Open the brochure in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Brochure")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-menuNext.ClickedCh:
				t.navigate(nav.Advance)
			case <-menuPrev.ClickedCh:
				t.navigate(nav.Retreat)
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

func (t *Tray) navigate(intent nav.Intent) bool {
	if t.navigator == nil {
		return false
	}
	return t.navigator.Submit(nav.Request{Intent: intent, Source: nav.SourceTray})
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleOpen handles the "Open Viewer" menu item click.
func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetStatus updates the gesture status line.
func (t *Tray) SetStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status = status
	if t.menuStatus != nil {
		t.menuStatus.SetTitle(statusTitle(status))
	}
}

// SetEnabled updates the toggle without invoking the toggle callback.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// Status returns the last status shown in the menu.
func (t *Tray) Status() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Gestures On"
	}
	return "○ Gestures Off"
}

func statusTitle(status string) string {
	if status == "" {
		return "Status: unknown"
	}
	return "Status: " + status
}
