// Package tray owns the menu-bar icon: its identity and its title text.
package tray

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrAlreadyCreated is returned when a second tray icon is requested.
	ErrAlreadyCreated = errors.New("tray icon already created")

	// ErrHostUnavailable is returned when the host cannot create tray icons.
	ErrHostUnavailable = errors.New("tray host unavailable")
)

// ID identifies a live tray icon
type ID string

// MouseButton is the button reported by a tray click
type MouseButton int

const (
	ButtonLeft MouseButton = iota + 1
	ButtonRight
	ButtonMiddle
)

// ButtonState is the button transition reported by a tray click
type ButtonState int

const (
	StateUp ButtonState = iota + 1
	StateDown
)

// ClickEvent is delivered to Options.OnClick for every tray click
type ClickEvent struct {
	Button MouseButton
	State  ButtonState
}

// IsPrimaryRelease reports whether the event is a left-button release
func (e ClickEvent) IsPrimaryRelease() bool {
	return e.Button == ButtonLeft && e.State == StateUp
}

// Options describes a tray icon to create
type Options struct {
	Title    string
	Tooltip  string
	Icon     []byte
	Template bool
	OnClick  func(ClickEvent)
}

// Icon is a handle to a live tray icon
type Icon interface {
	SetTitle(title string) error
	SetTooltip(tooltip string) error
}

// Host creates tray icons and resolves them by ID
type Host interface {
	Create(opts Options) (ID, error)
	ByID(id ID) (Icon, bool)
}

// Controller creates the single tray icon and updates its title
type Controller struct {
	host     Host
	state    *State
	logger   *zap.Logger
	createMu sync.Mutex
}

// NewController creates a controller that records the icon ID in state
func NewController(host Host, state *State, logger *zap.Logger) *Controller {
	if state == nil {
		state = &State{}
	}
	return &Controller{
		host:   host,
		state:  state,
		logger: logger,
	}
}

// Create builds the tray icon with a transparent template image so only the
// title is visible. The ID is published to the state after the host returns it.
func (c *Controller) Create(initialTitle, tooltip string, onClick func(ClickEvent)) (ID, error) {
	c.createMu.Lock()
	defer c.createMu.Unlock()

	if _, ok := c.state.ID(); ok {
		return "", ErrAlreadyCreated
	}

	id, err := c.host.Create(Options{
		Title:    initialTitle,
		Tooltip:  tooltip,
		Icon:     TransparentIcon(),
		Template: true,
		OnClick:  onClick,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create tray icon: %w", err)
	}

	if err := c.state.store(id); err != nil {
		return "", err
	}

	c.logger.Info("Tray icon created",
		zap.String("id", string(id)),
		zap.String("title", initialTitle))

	return id, nil
}

// UpdateTitle sets the tray title to title verbatim. It does nothing when the
// icon has not been created yet or the host no longer knows it.
func (c *Controller) UpdateTitle(title string) {
	if c == nil || c.state == nil {
		return
	}

	found := c.state.with(func(id ID) {
		icon, ok := c.host.ByID(id)
		if !ok {
			c.logger.Debug("Tray icon not found", zap.String("id", string(id)))
			return
		}
		discard(c.logger, "set tray title", icon.SetTitle(title))
	})
	if !found {
		c.logger.Debug("Tray title update before tray creation ignored")
	}
}

// State returns the tray state the controller publishes to
func (c *Controller) State() *State {
	return c.state
}

// discard is the single place where best-effort tray failures are dropped.
func discard(logger *zap.Logger, op string, err error) {
	if err != nil {
		logger.Debug("Best-effort tray call failed", zap.String("op", op), zap.Error(err))
	}
}
