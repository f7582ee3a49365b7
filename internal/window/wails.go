package window

import (
	"context"
	"errors"
	"fmt"
	goruntime "runtime"
	"sync"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"
)

var errNotAttached = errors.New("window runtime not attached")

// WailsWindow drives the single wails window. The wails runtime has no
// visibility query, so the window tracks what it last did.
type WailsWindow struct {
	logger *zap.Logger
	goos   string

	mu      sync.Mutex
	ctx     context.Context
	visible bool
}

// NewWailsWindow creates an unattached window. Calls fail until Attach.
func NewWailsWindow(logger *zap.Logger) *WailsWindow {
	return &WailsWindow{
		logger: logger,
		goos:   goruntime.GOOS,
	}
}

// Attach binds the wails runtime context received in OnStartup. The window
// starts hidden.
func (w *WailsWindow) Attach(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ctx = ctx
	w.visible = false
}

// Window implements Locator. Only the main window exists.
func (w *WailsWindow) Window(name string) (Window, bool) {
	if name != MainWindow {
		return nil, false
	}
	return w, true
}

func (w *WailsWindow) context() (context.Context, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx == nil {
		return nil, errNotAttached
	}
	return w.ctx, nil
}

func (w *WailsWindow) setVisible(v bool) {
	w.mu.Lock()
	w.visible = v
	w.mu.Unlock()
}

// IsVisible reports the last visibility this window applied
func (w *WailsWindow) IsVisible() (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx == nil {
		return false, errNotAttached
	}
	return w.visible, nil
}

// Show shows the window
func (w *WailsWindow) Show() error {
	ctx, err := w.context()
	if err != nil {
		return err
	}
	wailsRuntime.WindowShow(ctx)
	w.setVisible(true)
	return nil
}

// Hide hides the window
func (w *WailsWindow) Hide() error {
	ctx, err := w.context()
	if err != nil {
		return err
	}
	wailsRuntime.WindowHide(ctx)
	w.setVisible(false)
	return nil
}

// SetFocus raises the window above other windows
func (w *WailsWindow) SetFocus() error {
	ctx, err := w.context()
	if err != nil {
		return err
	}
	wailsRuntime.WindowUnminimise(ctx)
	wailsRuntime.WindowSetAlwaysOnTop(ctx, true)
	wailsRuntime.WindowSetAlwaysOnTop(ctx, false)
	return nil
}

// Move places the window relative to the estimated tray position
func (w *WailsWindow) Move(pos Position) error {
	if pos != PositionTrayCenter {
		return fmt.Errorf("unsupported position %d", pos)
	}

	ctx, err := w.context()
	if err != nil {
		return err
	}

	screens, err := wailsRuntime.ScreenGetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list screens: %w", err)
	}
	screen, ok := pickScreen(screens)
	if !ok {
		return errors.New("no screen available")
	}

	width, height := wailsRuntime.WindowGetSize(ctx)
	p := TrayCenter(DefaultTrayAnchor(w.goos, screen), Size{Width: width, Height: height}, screen)

	w.logger.Debug("Positioning window",
		zap.Int("x", p.X),
		zap.Int("y", p.Y),
		zap.Int("screen_width", screen.Width),
		zap.Int("screen_height", screen.Height))

	wailsRuntime.WindowSetPosition(ctx, p.X, p.Y)
	return nil
}

// pickScreen prefers the screen holding the window, then the primary screen.
func pickScreen(screens []wailsRuntime.Screen) (Size, bool) {
	var fallback *wailsRuntime.Screen
	for i := range screens {
		s := &screens[i]
		if s.IsCurrent {
			return Size{Width: s.Size.Width, Height: s.Size.Height}, true
		}
		if s.IsPrimary || fallback == nil {
			fallback = s
		}
	}
	if fallback == nil {
		return Size{}, false
	}
	return Size{Width: fallback.Size.Width, Height: fallback.Size.Height}, true
}
