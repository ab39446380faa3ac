// Package config loads pyoscope settings from ~/.config/pyoscope/config.toml.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds session and viewer defaults. Flags override these per run.
type Config struct {
	Delimiter  string
	PollEvery  time.Duration
	FrameEvery time.Duration
	Window     int
	Theme      string
	HexValues  bool
}

const (
	defaultConfigPath = "~/.config/pyoscope/config.toml"
	defaultPollMS     = 100
	defaultFrameMS    = 250
	defaultWindow     = 512
	defaultTheme      = "Dracula"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		PollEvery:  defaultPollMS * time.Millisecond,
		FrameEvery: defaultFrameMS * time.Millisecond,
		Window:     defaultWindow,
		Theme:      defaultTheme,
	}
}

// Load reads the config file at path (or the default location when path
// is empty), falling back to defaults when the file is missing. A file
// that exists but cannot be parsed is an error; silently ignoring a
// typo'd config is worse than failing.
func Load(path string) (Config, error) {
	cfg := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Delimiter string `toml:"delimiter"`
		PollMS    int    `toml:"poll_ms"`
		FrameMS   int    `toml:"frame_ms"`
		Window    int    `toml:"window"`
		Theme     string `toml:"theme"`
		HexValues bool   `toml:"hex_values"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Delimiter = raw.Delimiter
	if raw.PollMS > 0 {
		cfg.PollEvery = time.Duration(raw.PollMS) * time.Millisecond
	}
	if raw.FrameMS > 0 {
		cfg.FrameEvery = time.Duration(raw.FrameMS) * time.Millisecond
	}
	if raw.Window > 0 {
		cfg.Window = raw.Window
	}
	if theme := strings.TrimSpace(raw.Theme); theme != "" {
		cfg.Theme = theme
	}
	cfg.HexValues = raw.HexValues

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
