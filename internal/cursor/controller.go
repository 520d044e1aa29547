// Package cursor owns the active cursor tool of the viewer and keeps it in
// step with presentation mode.
package cursor

import (
	"errors"
	"io"
	"log/slog"

	"github.com/kyaoi/mdpage/internal/eventbus"
)

// ErrUnsupportedMode is reported for tool values the controller cannot apply.
var ErrUnsupportedMode = errors.New("unsupported cursor tool")

// Handler is a gesture implementation armed while its mode is active.
type Handler interface {
	Activate()
	Deactivate()
}

// Options configures a Controller.
type Options struct {
	Bus      *eventbus.Bus
	HandTool Handler
	Logger   *slog.Logger
}

// Controller tracks the active cursor mode. While presentation mode is on the
// mode is pinned to Select and switch requests are ignored.
type Controller struct {
	bus      *eventbus.Bus
	handTool Handler
	logger   *slog.Logger

	active Mode
	saved  *Mode
}

// New creates a controller in Select mode and subscribes it to the bus.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Controller{
		bus:      opts.Bus,
		handTool: opts.HandTool,
		logger:   logger,
		active:   Select,
	}
	c.bus.On(eventbus.SwitchCursorTool, c.onSwitchCursorTool)
	c.bus.On(eventbus.PresentationModeChanged, c.onPresentationModeChanged)
	return c
}

// Active returns the current mode.
func (c *Controller) Active() Mode {
	return c.active
}

// Saved returns the mode to restore when presentation mode ends.
func (c *Controller) Saved() (Mode, bool) {
	if c.saved == nil {
		return Select, false
	}
	return *c.saved, true
}

// SwitchMode makes requested the active mode. It is ignored while presentation
// mode is on and when requested is already active.
func (c *Controller) SwitchMode(requested Mode) {
	if c.saved != nil {
		return
	}
	c.apply(requested)
}

func (c *Controller) apply(requested Mode) {
	if requested == c.active {
		return
	}

	switch requested {
	case Select, Hand:
	default:
		c.logger.Error("cannot switch cursor tool",
			"tool", int(requested),
			"err", ErrUnsupportedMode)
		return
	}

	if prev := c.handlerFor(c.active); prev != nil {
		prev.Deactivate()
	}
	if next := c.handlerFor(requested); next != nil {
		next.Activate()
	}
	c.active = requested

	c.logger.Debug("cursor tool changed", "tool", requested.String())
	c.bus.Dispatch(eventbus.CursorToolChanged, c, eventbus.Details{"tool": c.active})
}

func (c *Controller) handlerFor(m Mode) Handler {
	switch m {
	case Hand:
		return c.handTool
	default:
		return nil
	}
}

func (c *Controller) onSwitchCursorTool(evt eventbus.Event) {
	v, _ := evt.Value("tool")
	switch tool := v.(type) {
	case Mode:
		c.SwitchMode(tool)
	case int:
		c.SwitchMode(Mode(tool))
	default:
		if c.saved != nil {
			return
		}
		c.logger.Error("cannot switch cursor tool",
			"tool", v,
			"err", ErrUnsupportedMode)
	}
}

func (c *Controller) onPresentationModeChanged(evt eventbus.Event) {
	c.handlePresentationModeChanged(evt.Bool("active"), evt.Bool("switchInProgress"))
}

func (c *Controller) handlePresentationModeChanged(active, switchInProgress bool) {
	if switchInProgress {
		return
	}

	if active {
		if c.saved != nil {
			return
		}
		previous := c.active
		c.apply(Select)
		c.saved = &previous
		return
	}

	if c.saved == nil {
		return
	}
	previous := *c.saved
	c.saved = nil
	c.SwitchMode(previous)
}
