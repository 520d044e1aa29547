package cursor

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/kyaoi/mdpage/internal/prefs"
)

// Preferences is the persisted preference store read at startup.
type Preferences interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any) error
}

// ResolveStartupMode reads the cursor tool to use when a document opens.
//
// A true legacy enableHandToolOnLoad flag is cleared, and promotes
// cursorToolOnLoad to Hand when that preference is still at its default.
// Write failures during the migration do not fail the read; they are logged
// at debug level.
func ResolveStartupMode(ctx context.Context, p Preferences, logger *slog.Logger) (Mode, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	legacy, err := p.Get(ctx, prefs.KeyEnableHandToolOnLoad)
	if err != nil {
		return Select, err
	}
	current, err := p.Get(ctx, prefs.KeyCursorToolOnLoad)
	if err != nil {
		return Select, err
	}

	handOnLoad, ok := legacy.(bool)
	if !ok {
		return Select, fmt.Errorf("preference %s: unexpected %T", prefs.KeyEnableHandToolOnLoad, legacy)
	}
	value, ok := current.(int)
	if !ok {
		return Select, fmt.Errorf("preference %s: unexpected %T", prefs.KeyCursorToolOnLoad, current)
	}
	mode := Mode(value)

	if handOnLoad {
		if err := p.Set(ctx, prefs.KeyEnableHandToolOnLoad, false); err != nil {
			logger.Debug("preference migration write failed", "key", prefs.KeyEnableHandToolOnLoad, "err", err)
		}
		if mode == Select {
			mode = Hand
			if err := p.Set(ctx, prefs.KeyCursorToolOnLoad, int(mode)); err != nil {
				logger.Debug("preference migration write failed", "key", prefs.KeyCursorToolOnLoad, "err", err)
			}
		}
	}
	return mode, nil
}

// Restore applies the result of ResolveStartupMode. A failed read is dropped
// and the controller stays at its current mode.
func (c *Controller) Restore(mode Mode, err error) {
	if err != nil {
		c.logger.Debug("cursor tool preference unavailable", "err", err)
		return
	}
	c.SwitchMode(mode)
}
