// Package oscope ties the store and the file watcher into a session:
// one tailed source file, one accumulating table, and a query surface
// for plotting.
package oscope

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/jlazear/pyoscope/internal/parse"
	"github.com/jlazear/pyoscope/internal/state"
	"github.com/jlazear/pyoscope/internal/watch"
)

// ErrSourceUnavailable indicates the source file was missing at
// construction time. Once a session is running, a missing file is
// treated as "no data yet" instead.
var ErrSourceUnavailable = errors.New("source file unavailable")

// ErrNoColumn indicates a selector matched neither a column name nor a
// valid positional index.
var ErrNoColumn = errors.New("no such column")

type options struct {
	delimiter string
	columns   []string
	interval  time.Duration
	mode      parse.Mode
	logger    *slog.Logger
	waitFile  bool
}

// Option configures a Session.
type Option func(*options)

// WithDelimiter sets the field delimiter. The default splits on any
// run of whitespace.
func WithDelimiter(d string) Option { return func(o *options) { o.delimiter = d } }

// WithColumns names the columns explicitly, overriding any header in
// the file.
func WithColumns(names []string) Option { return func(o *options) { o.columns = names } }

// WithInterval sets the polling cadence.
func WithInterval(d time.Duration) Option { return func(o *options) { o.interval = d } }

// WithHexValues parses fields as base-16 integers.
func WithHexValues() Option { return func(o *options) { o.mode = parse.ModeHex } }

// WithLogger routes watcher diagnostics to the given logger.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WaitForFile tolerates a missing source file at construction; the
// watcher picks it up once acquisition starts writing.
func WaitForFile() Option { return func(o *options) { o.waitFile = true } }

// Session owns one live-tailed data file. The background watcher runs
// until ctx is cancelled or Close is called.
type Session struct {
	store  *state.Store
	cancel context.CancelFunc
	path   string
}

// New opens a session on the given source file and starts the watcher.
// The first poll runs synchronously so schema problems surface here
// rather than in the background loop.
func New(ctx context.Context, path string, opts ...Option) (*Session, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if _, err := os.Stat(path); err != nil {
		if !o.waitFile {
			return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, path)
		}
	}

	store := &state.Store{}
	watchOpts := watch.Options{
		Path:      path,
		Interval:  o.interval,
		Delimiter: o.delimiter,
		Mode:      o.mode,
		Columns:   o.columns,
		Logger:    o.logger,
	}

	if err := watch.Tick(store, watchOpts); err != nil {
		return nil, fmt.Errorf("initial read: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	watch.Start(ctx, store, watchOpts)

	return &Session{store: store, cancel: cancel, path: path}, nil
}

// Close stops the background watcher. Accumulated data remains readable.
func (s *Session) Close() { s.cancel() }

// Path returns the tailed source file path.
func (s *Session) Path() string { return s.path }

// Columns returns the resolved column names, or nil before the schema
// is established.
func (s *Session) Columns() []string { return s.store.Snapshot().Schema.Names() }

// Rows returns the current row count.
func (s *Session) Rows() int { return s.store.Rows() }

// ParseErrors returns the count of malformed lines skipped so far.
func (s *Session) ParseErrors() int { return s.store.Snapshot().ParseErrors }

// Snapshot returns a consistent view of everything accumulated so far.
func (s *Session) Snapshot() state.Snapshot { return s.store.Snapshot() }

// Column returns the named or positional column as floats. Fields that
// did not coerce to numbers come back as NaN.
func (s *Session) Column(selector string) ([]float64, error) {
	snap := s.store.Snapshot()
	vals, ok := snap.Column(selector)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoColumn, selector)
	}
	return toFloats(vals), nil
}

// A Series is one plottable line: matching X and Y sequences and the
// column name used for legends.
type Series struct {
	Name string
	X    []float64
	Y    []float64
}

// Plot is a consistent selection of series from one snapshot.
type Plot struct {
	XName       string
	Series      []Series
	Rows        int
	ParseErrors int
	LastError   error
}

// Series selects an x column and one or more y columns from a single
// snapshot. An empty x selector plots values against their row index.
// A positive window keeps only the last window points of each series.
func (s *Session) Series(x string, ys []string, window int) (Plot, error) {
	snap := s.store.Snapshot()
	plot := Plot{
		Rows:        snap.Rows,
		ParseErrors: snap.ParseErrors,
		LastError:   snap.LastError,
	}

	var xs []float64
	if x == "" {
		plot.XName = "index"
		xs = make([]float64, snap.Rows)
		for i := range xs {
			xs[i] = float64(i)
		}
	} else {
		i, ok := snap.Schema.Lookup(x)
		if !ok {
			return Plot{}, fmt.Errorf("%w: %q", ErrNoColumn, x)
		}
		plot.XName = snap.Schema.Name(i)
		xs = toFloats(snap.Columns[i])
	}

	for _, y := range ys {
		i, ok := snap.Schema.Lookup(y)
		if !ok {
			return Plot{}, fmt.Errorf("%w: %q", ErrNoColumn, y)
		}
		sx, sy := applyWindow(xs, toFloats(snap.Columns[i]), window)
		plot.Series = append(plot.Series, Series{
			Name: snap.Schema.Name(i),
			X:    sx,
			Y:    sy,
		})
	}
	return plot, nil
}

// applyWindow trims both sequences to their last n points.
func applyWindow(xs, ys []float64, n int) ([]float64, []float64) {
	if n <= 0 || len(ys) <= n {
		return xs, ys
	}
	return xs[len(xs)-n:], ys[len(ys)-n:]
}

func toFloats(vals []parse.Value) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		if v.IsNum {
			out[i] = v.Num
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}
