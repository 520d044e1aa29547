package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kyaoi/mdpage/internal/config"
	"github.com/kyaoi/mdpage/internal/cursor"
	"github.com/kyaoi/mdpage/internal/eventbus"
	"github.com/kyaoi/mdpage/internal/logging"
	"github.com/kyaoi/mdpage/internal/prefs"
	"github.com/kyaoi/mdpage/internal/ui"
)

// Options are the command line inputs of the pager.
type Options struct {
	Target     string
	ConfigPath string
	Debug      bool
	Tag        string
	CursorTool string
}

// Run executes the Bubble Tea program for the pager.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger, closer, err := openLogger(cfg, opts.Debug)
	if err != nil {
		return err
	}
	defer closer.Close()

	store, closeStore := openPreferences(logger)
	defer closeStore()

	if opts.CursorTool != "" {
		if err := persistCursorTool(ctx, store, opts.CursorTool); err != nil {
			return err
		}
	}

	var state ui.State
	if opts.Tag != "" {
		state, err = LoadTagFiltered(opts.Target, opts.Tag, cfg.Extensions)
	} else {
		state, err = LoadInitialState(opts.Target, cfg.Extensions)
	}
	if err != nil {
		return err
	}

	logger.Info("starting", "target", opts.Target, "tag", opts.Tag)
	bus := eventbus.New(eventbus.WithLogger(logger))
	model := ui.NewModel(state, ui.Deps{
		Config: cfg,
		Prefs:  store,
		Logger: logger,
		Bus:    bus,
	})

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}

func openLogger(cfg *config.Config, debug bool) (*slog.Logger, io.Closer, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if debug {
		level = slog.LevelDebug
	}
	logger, closer, err := logging.Open(cfg.LogFile, level)
	if err != nil {
		// Unwritable log file: records are dropped.
		return logging.Discard(), io.NopCloser(nil), nil
	}
	return logger, closer, nil
}

// openPreferences opens the preference database, falling back to a store
// that only lives for this run.
func openPreferences(logger *slog.Logger) (cursor.Preferences, func()) {
	store, err := prefs.Open()
	if err != nil {
		logger.Warn("preferences unavailable, using defaults", "err", err)
		return prefs.NewMemory(nil), func() {}
	}
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing preferences", "err", err)
		}
	}
}

// persistCursorTool stores the tool selected on the command line as the
// startup tool.
func persistCursorTool(ctx context.Context, p cursor.Preferences, value string) error {
	mode, err := cursor.ParseMode(value)
	if err != nil {
		return err
	}
	if mode != cursor.Select && mode != cursor.Hand {
		return fmt.Errorf("%w: %s", cursor.ErrUnsupportedMode, mode)
	}
	return p.Set(ctx, prefs.KeyCursorToolOnLoad, int(mode))
}
