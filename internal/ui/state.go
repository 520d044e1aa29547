package ui

import (
	"log/slog"

	"github.com/kyaoi/mdpage/internal/config"
	"github.com/kyaoi/mdpage/internal/cursor"
	"github.com/kyaoi/mdpage/internal/document"
	"github.com/kyaoi/mdpage/internal/eventbus"
	"github.com/kyaoi/mdpage/internal/tree"
)

// State contains the data required to bootstrap the Bubble Tea model.
type State struct {
	Document        *document.Document
	Message         string
	HeaderPath      string
	PickerVisible   bool
	PickerRoot      *tree.Node
	PickerSelection string
	RootDir         string
	DisplayRoot     string
	FocusPicker     bool
}

// Deps are the services shared with the rest of the program.
type Deps struct {
	Config *config.Config
	Prefs  cursor.Preferences
	Logger *slog.Logger
	// Bus is created when nil.
	Bus *eventbus.Bus
}
