// Package prefs persists viewer preferences across sessions.
package prefs

import (
	"context"
	"errors"
	"fmt"
)

// Preference keys.
const (
	// KeyEnableHandToolOnLoad is the legacy boolean preference replaced by
	// KeyCursorToolOnLoad. It is migrated once at startup.
	KeyEnableHandToolOnLoad = "enableHandToolOnLoad"
	// KeyCursorToolOnLoad holds the cursor tool selected when a document opens.
	KeyCursorToolOnLoad = "cursorToolOnLoad"
)

// ErrUnknownKey is returned for keys without a registered default.
var ErrUnknownKey = errors.New("unknown preference key")

var defaults = map[string]any{
	KeyEnableHandToolOnLoad: false,
	KeyCursorToolOnLoad:     0,
}

// Default returns the default value for key.
func Default(key string) (any, error) {
	v, ok := defaults[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return v, nil
}

// Interface is the preference store contract.
type Interface interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any) error
}

// checkType reports whether value has the same dynamic type as the default
// registered for key.
func checkType(key string, value any) error {
	def, err := Default(key)
	if err != nil {
		return err
	}
	switch def.(type) {
	case bool:
		if _, ok := value.(bool); ok {
			return nil
		}
	case int:
		if _, ok := value.(int); ok {
			return nil
		}
	}
	return fmt.Errorf("preference %q: want %T, got %T", key, def, value)
}
