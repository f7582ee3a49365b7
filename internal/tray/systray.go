package tray

import (
	"fmt"
	"sync"
	"time"

	"fyne.io/systray"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultReadyTimeout = 5 * time.Second

// MenuActions are the callbacks behind the status item menu
type MenuActions struct {
	Refresh func()
	Quit    func()
}

// SystrayHost is the Host backed by fyne.io/systray. The library drives a
// single status item, so the host hands out exactly one ID.
type SystrayHost struct {
	logger       *zap.Logger
	actions      MenuActions
	readyTimeout time.Duration

	start func()
	end   func()

	ready     chan struct{}
	readyOnce sync.Once
	quit      chan struct{}
	quitOnce  sync.Once

	mu sync.Mutex
	id ID
}

// NewSystrayHost prepares the systray loop. The host event loop owns the
// process main thread, so systray runs with an external loop started by Start.
func NewSystrayHost(actions MenuActions, logger *zap.Logger) *SystrayHost {
	h := &SystrayHost{
		logger:       logger,
		actions:      actions,
		readyTimeout: defaultReadyTimeout,
		ready:        make(chan struct{}),
		quit:         make(chan struct{}),
	}
	h.start, h.end = systray.RunWithExternalLoop(h.onReady, h.onExit)
	return h
}

// Start starts the systray loop
func (h *SystrayHost) Start() {
	h.start()
}

// Stop tears the status item down
func (h *SystrayHost) Stop() {
	h.quitOnce.Do(func() { close(h.quit) })
	h.end()
}

func (h *SystrayHost) onReady() {
	mRefresh := systray.AddMenuItem("Refresh Now", "Fetch the forecast immediately")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit MeteoBar", "Exit the application")

	go func() {
		for {
			select {
			case <-mRefresh.ClickedCh:
				h.logger.Info("Refresh clicked from tray")
				if h.actions.Refresh != nil {
					h.actions.Refresh()
				}
			case <-mQuit.ClickedCh:
				h.logger.Info("Quit clicked from tray")
				if h.actions.Quit != nil {
					h.actions.Quit()
				}
				return
			case <-h.quit:
				return
			}
		}
	}()

	h.readyOnce.Do(func() { close(h.ready) })
}

func (h *SystrayHost) onExit() {
	h.logger.Info("System tray exited")
}

// Create configures the status item. It waits for the systray loop to become
// ready and fails if it does not within the ready timeout.
func (h *SystrayHost) Create(opts Options) (ID, error) {
	select {
	case <-h.ready:
	case <-time.After(h.readyTimeout):
		return "", fmt.Errorf("%w: systray not ready after %s", ErrHostUnavailable, h.readyTimeout)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.id != "" {
		return "", ErrAlreadyCreated
	}

	if len(opts.Icon) > 0 {
		if opts.Template {
			systray.SetTemplateIcon(opts.Icon, opts.Icon)
		} else {
			systray.SetIcon(opts.Icon)
		}
	}
	systray.SetTitle(opts.Title)
	systray.SetTooltip(opts.Tooltip)

	// Secondary taps keep opening the menu.
	if opts.OnClick != nil {
		onClick := opts.OnClick
		systray.SetOnTapped(func() {
			onClick(ClickEvent{Button: ButtonLeft, State: StateUp})
		})
	}

	h.id = ID(uuid.NewString())
	return h.id, nil
}

// ByID returns the status item if id is the one this host issued
func (h *SystrayHost) ByID(id ID) (Icon, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if id == "" || id != h.id {
		return nil, false
	}
	return systrayIcon{}, true
}

type systrayIcon struct{}

func (systrayIcon) SetTitle(title string) error {
	systray.SetTitle(title)
	return nil
}

func (systrayIcon) SetTooltip(tooltip string) error {
	systray.SetTooltip(tooltip)
	return nil
}
