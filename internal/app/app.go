// Package app wires configuration, the tail session, and the UI into
// the pyoscope viewer.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jlazear/pyoscope/internal/config"
	"github.com/jlazear/pyoscope/internal/oscope"
	"github.com/jlazear/pyoscope/internal/ui"
)

// Options configure the pyoscope application.
type Options struct {
	File       string
	ConfigPath string
	LogPath    string

	Delimiter string // overrides config when non-empty
	Columns   []string
	Poll      time.Duration // overrides config when positive
	Hex       bool
	WaitFile  bool

	X      string
	Ys     []string
	Window int // negative uses the config default
	Legend bool
}

// Run boots the viewer until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := newLogger(opts.LogPath)
	if err != nil {
		return err
	}
	defer closeLog()

	delimiter := cfg.Delimiter
	if opts.Delimiter != "" {
		delimiter = opts.Delimiter
	}
	poll := cfg.PollEvery
	if opts.Poll > 0 {
		poll = opts.Poll
	}
	window := cfg.Window
	if opts.Window >= 0 {
		window = opts.Window
	}

	sessionOpts := []oscope.Option{
		oscope.WithDelimiter(delimiter),
		oscope.WithInterval(poll),
		oscope.WithLogger(logger),
	}
	if len(opts.Columns) > 0 {
		sessionOpts = append(sessionOpts, oscope.WithColumns(opts.Columns))
	}
	if opts.Hex || cfg.HexValues {
		sessionOpts = append(sessionOpts, oscope.WithHexValues())
	}
	if opts.WaitFile {
		sessionOpts = append(sessionOpts, oscope.WaitForFile())
	}

	session, err := oscope.New(ctx, opts.File, sessionOpts...)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer session.Close()

	return ui.Run(ui.Options{
		Session:    session,
		FrameEvery: cfg.FrameEvery,
		ThemeName:  cfg.Theme,
		X:          opts.X,
		Ys:         opts.Ys,
		Window:     window,
		Legend:     opts.Legend,
	})
}

// newLogger builds the watcher's diagnostic logger. Without a log file
// the diagnostics are discarded: the TUI owns the terminal, and watcher
// health is already surfaced in the status bar.
func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, nil)), func() { _ = f.Close() }, nil
}
