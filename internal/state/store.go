package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jlazear/pyoscope/internal/parse"
	"github.com/jlazear/pyoscope/internal/schema"
)

// ErrState indicates invalid API usage, such as replacing an already
// established schema with a different one.
var ErrState = errors.New("invalid store state")

// Snapshot is a consistent point-in-time view of the accumulated data.
// All column slices have exactly Rows elements.
type Snapshot struct {
	Schema      schema.Schema
	Columns     [][]parse.Value
	Rows        int
	Offset      int64
	ParseErrors int
	Resets      int
	Meta        map[string]string
	LastError   error
	LastUpdated time.Time
}

// Column returns the values of the named or positional column.
func (s Snapshot) Column(selector string) ([]parse.Value, bool) {
	i, ok := s.Schema.Lookup(selector)
	if !ok {
		return nil, false
	}
	return s.Columns[i], true
}

// Store is the shared in-memory table the watcher writes and the
// renderer reads. A single RWMutex guards the column data, the read
// offset, and the counters together, so a reader can never observe one
// column ahead of another.
type Store struct {
	mu          sync.RWMutex
	schema      schema.Schema
	hasSchema   bool
	columns     [][]parse.Value
	rows        int
	offset      int64
	parseErrors int
	resets      int
	meta        map[string]string
	lastError   error
	lastUpdated time.Time
}

// SetSchema establishes the column layout. It may be called once;
// calling it again with an equal schema is a no-op, with a different
// schema an ErrState.
func (s *Store) SetSchema(sc schema.Schema) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasSchema {
		if s.schema.Equal(sc) {
			return nil
		}
		return fmt.Errorf("%w: schema already set to %v", ErrState, s.schema.Names())
	}
	if sc.Len() == 0 {
		return fmt.Errorf("%w: empty schema", ErrState)
	}
	s.schema = sc
	s.hasSchema = true
	s.columns = make([][]parse.Value, sc.Len())
	return nil
}

// HasSchema reports whether the column layout has been established.
func (s *Store) HasSchema() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasSchema
}

// Schema returns the established column layout, if any.
func (s *Store) Schema() (schema.Schema, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schema, s.hasSchema
}

// ApplyScan appends the rows of one scan, advances the read offset, and
// accumulates the parse-error count, all under one lock acquisition.
// A scan with no rows (comments or a bare header) may be applied before
// the schema exists; data rows require it. Rows whose field count does
// not match the schema are rejected with ErrState; the parser filters
// those out before they reach here.
func (s *Store) ApplyScan(rows [][]parse.Value, newOffset int64, parseErrors int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasSchema && len(rows) > 0 {
		return fmt.Errorf("%w: schema not set", ErrState)
	}
	for _, row := range rows {
		if len(row) != s.schema.Len() {
			return fmt.Errorf("%w: row has %d fields, schema has %d", ErrState, len(row), s.schema.Len())
		}
	}
	for _, row := range rows {
		for i, v := range row {
			s.columns[i] = append(s.columns[i], v)
		}
		s.rows++
	}
	if newOffset > s.offset {
		s.offset = newOffset
	}
	s.parseErrors += parseErrors
	s.lastError = nil
	s.lastUpdated = time.Now()
	return nil
}

// MergeMeta records metadata from comment lines.
func (s *Store) MergeMeta(meta map[string]string) {
	if len(meta) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.meta == nil {
		s.meta = make(map[string]string, len(meta))
	}
	for k, v := range meta {
		s.meta[k] = v
	}
}

// RecordError notes a failed poll tick. Accumulated data is kept; the
// error is surfaced in snapshots for visibility.
func (s *Store) RecordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = err
	s.lastUpdated = time.Now()
}

// Reset discards all rows, the offset, and the schema. The watcher
// calls this when the source file shrinks or is replaced, so the new
// file contents re-resolve from scratch. Parse-error and reset counters
// survive for observability.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schema = schema.Schema{}
	s.hasSchema = false
	s.columns = nil
	s.rows = 0
	s.offset = 0
	s.meta = nil
	s.resets++
	s.lastUpdated = time.Now()
}

// Offset returns the byte position consumed so far.
func (s *Store) Offset() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offset
}

// Rows returns the current row count.
func (s *Store) Rows() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows
}

// Snapshot returns a copy of the current state. The copy is independent
// of the store: appends that happen after the call never show through.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Schema:      s.schema,
		Rows:        s.rows,
		Offset:      s.offset,
		ParseErrors: s.parseErrors,
		Resets:      s.resets,
		LastError:   s.lastError,
		LastUpdated: s.lastUpdated,
	}
	if s.hasSchema {
		snap.Columns = make([][]parse.Value, len(s.columns))
		for i, col := range s.columns {
			dup := make([]parse.Value, len(col))
			copy(dup, col)
			snap.Columns[i] = dup
		}
	}
	if len(s.meta) > 0 {
		snap.Meta = make(map[string]string, len(s.meta))
		for k, v := range s.meta {
			snap.Meta[k] = v
		}
	}
	return snap
}
