// Package watch runs the background loop that tails the source file
// into the shared store.
//
// On a fixed interval the loop stats the source file and compares its
// size to the store's consumed offset. Growth triggers an incremental
// scan of the new bytes; a missing file is a quiet tick (acquisition
// may not have started); a file smaller than the offset means the
// source was truncated or replaced, so the store is reset and the new
// contents re-resolved from the beginning. Tick-local failures are
// logged and recorded on the store, never fatal: the loop always
// returns to polling until its context is cancelled.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jlazear/pyoscope/internal/parse"
	"github.com/jlazear/pyoscope/internal/schema"
	"github.com/jlazear/pyoscope/internal/state"
)

// DefaultInterval is the polling cadence used when none is configured.
const DefaultInterval = 100 * time.Millisecond

// Options configure the watcher.
type Options struct {
	// Path is the source file to tail.
	Path string
	// Interval is the polling cadence; zero uses DefaultInterval.
	Interval time.Duration
	// Delimiter separates fields; empty means any whitespace.
	Delimiter string
	// Mode selects numeric coercion for fields.
	Mode parse.Mode
	// Columns, when non-empty, names the columns explicitly and
	// overrides any header or comment metadata in the file.
	Columns []string
	// Logger receives anomaly and failure reports. Nil uses the
	// default slog logger.
	Logger *slog.Logger
}

// Start launches the watcher goroutine and returns immediately. The
// loop polls until ctx is cancelled; cancellation is observed within
// one interval.
func Start(ctx context.Context, store *state.Store, opts Options) {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if err := Tick(store, opts); err != nil {
				store.RecordError(err)
				logger.Warn("poll tick failed", "path", opts.Path, "error", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Tick performs one poll cycle: stat, detect growth or truncation, scan
// new bytes, and apply the result to the store. It is exported so the
// session can run a synchronous first poll before the loop starts.
func Tick(store *state.Store, opts Options) error {
	info, err := os.Stat(opts.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Acquisition has not started yet.
			return nil
		}
		return fmt.Errorf("stat source: %w", err)
	}

	size := info.Size()
	offset := store.Offset()
	if size < offset {
		logger := opts.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("source file shrank, resetting",
			"path", opts.Path, "size", size, "offset", offset)
		store.Reset()
		offset = 0
	}
	if size == offset {
		return nil
	}

	f, err := os.Open(opts.Path)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	scanOpts := parse.Options{
		Delimiter: opts.Delimiter,
		Mode:      opts.Mode,
	}
	if sc, ok := store.Schema(); ok {
		scanOpts.FieldCount = sc.Len()
	} else {
		// No schema means no data row has ever been consumed, so the
		// next non-comment line is still the file's first.
		scanOpts.DetectHeader = true
	}

	res, err := parse.ScanFrom(f, offset, size, scanOpts)
	if err != nil {
		return err
	}

	store.MergeMeta(res.Meta)

	if !store.HasSchema() {
		sc, resolved, err := resolveSchema(res, opts.Columns)
		if err != nil {
			return err
		}
		if resolved {
			if err := store.SetSchema(sc); err != nil {
				return err
			}
		}
	}

	if err := store.ApplyScan(res.Rows, res.NewOffset, res.ParseErrors); err != nil {
		return err
	}
	return nil
}

// resolveSchema builds the schema from the scan's findings. Explicit
// names win over "# columns: [...]" metadata, which wins over a header
// line; a headerless file gets positional names sized to its first row.
func resolveSchema(res parse.Result, explicit []string) (schema.Schema, bool, error) {
	fieldCount := 0
	switch {
	case len(res.Rows) > 0:
		fieldCount = len(res.Rows[0])
	case len(explicit) > 0:
		fieldCount = len(explicit)
	case len(res.MetaColumns) > 0:
		fieldCount = len(res.MetaColumns)
	case len(res.Header) > 0:
		fieldCount = len(res.Header)
	default:
		// Nothing to go on yet; wait for data.
		return schema.Schema{}, false, nil
	}

	header := res.Header
	if len(res.MetaColumns) > 0 {
		header = res.MetaColumns
	}
	sc, err := schema.Resolve(header, explicit, fieldCount)
	if err != nil {
		return schema.Schema{}, false, err
	}
	return sc, true, nil
}
