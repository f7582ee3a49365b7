// Package window toggles the popup window in response to tray clicks.
package window

import (
	"go.uber.org/zap"

	"github.com/meteobar/meteobar/internal/tray"
)

// MainWindow is the name of the popup window
const MainWindow = "main"

// Position is a placement request understood by Window.Move
type Position int

const (
	// PositionTrayCenter centres the window on the tray icon, below it when the tray
	// is at the top of the screen and above it otherwise.
	PositionTrayCenter Position = iota + 1
)

// Window is the subset of a host window this package drives
type Window interface {
	IsVisible() (bool, error)
	Show() error
	Hide() error
	SetFocus() error
	Move(pos Position) error
}

// Locator resolves windows by name
type Locator interface {
	Window(name string) (Window, bool)
}

// Controller shows and hides the main window. Every host call is best-effort.
type Controller struct {
	windows Locator
	logger  *zap.Logger
}

// NewController creates a window controller
func NewController(windows Locator, logger *zap.Logger) *Controller {
	return &Controller{
		windows: windows,
		logger:  logger,
	}
}

// HandleTrayEvent toggles the main window on a primary-button release
func (c *Controller) HandleTrayEvent(ev tray.ClickEvent) {
	if !ev.IsPrimaryRelease() {
		return
	}
	c.Toggle()
}

// Toggle hides a visible main window, or positions, shows and focuses a
// hidden one. A failed visibility check counts as hidden.
func (c *Controller) Toggle() {
	w, ok := c.windows.Window(MainWindow)
	if !ok {
		c.logger.Debug("Main window not found")
		return
	}

	visible, err := w.IsVisible()
	if err != nil {
		discard(c.logger, "is visible", err)
		visible = false
	}

	if visible {
		discard(c.logger, "hide", w.Hide())
		return
	}

	discard(c.logger, "move", w.Move(PositionTrayCenter))
	discard(c.logger, "show", w.Show())
	discard(c.logger, "set focus", w.SetFocus())
}

// Hide hides the main window
func (c *Controller) Hide() {
	w, ok := c.windows.Window(MainWindow)
	if !ok {
		return
	}
	discard(c.logger, "hide", w.Hide())
}

// OnFocusLost is called when the main window loses focus. It intentionally
// keeps the window open; hide-on-blur would go here.
func (c *Controller) OnFocusLost() {}

// discard is the single place where best-effort window failures are dropped.
func discard(logger *zap.Logger, op string, err error) {
	if err != nil {
		logger.Debug("Best-effort window call failed", zap.String("op", op), zap.Error(err))
	}
}
