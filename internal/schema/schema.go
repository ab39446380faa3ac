// Package schema resolves and holds the column layout of a data file.
package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSchema indicates that column names could not be resolved into a
// usable layout (count mismatch, duplicates, empty names).
var ErrSchema = errors.New("invalid column schema")

// Schema is the fixed, ordered set of column names for a session. Once
// resolved the column count never changes.
type Schema struct {
	names []string
	index map[string]int
}

// Resolve builds a Schema from the first available source of names:
// explicit names win, then tokens from a header line, then generated
// positional names (col0, col1, ...) sized to fieldCount.
func Resolve(headerTokens []string, explicit []string, fieldCount int) (Schema, error) {
	if fieldCount <= 0 {
		return Schema{}, fmt.Errorf("%w: field count %d", ErrSchema, fieldCount)
	}

	var names []string
	switch {
	case len(explicit) > 0:
		if len(explicit) != fieldCount {
			return Schema{}, fmt.Errorf("%w: %d names given for %d fields", ErrSchema, len(explicit), fieldCount)
		}
		names = explicit
	case len(headerTokens) > 0:
		if len(headerTokens) != fieldCount {
			return Schema{}, fmt.Errorf("%w: header has %d tokens for %d fields", ErrSchema, len(headerTokens), fieldCount)
		}
		names = headerTokens
	default:
		names = make([]string, fieldCount)
		for i := range names {
			names[i] = "col" + strconv.Itoa(i)
		}
	}

	s := Schema{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return Schema{}, fmt.Errorf("%w: empty name at position %d", ErrSchema, i)
		}
		if _, dup := s.index[trimmed]; dup {
			return Schema{}, fmt.Errorf("%w: duplicate name %q", ErrSchema, trimmed)
		}
		s.names[i] = trimmed
		s.index[trimmed] = i
	}
	return s, nil
}

// Len returns the column count, or zero for an unresolved schema.
func (s Schema) Len() int { return len(s.names) }

// Names returns a copy of the ordered column names.
func (s Schema) Names() []string {
	if len(s.names) == 0 {
		return nil
	}
	dup := make([]string, len(s.names))
	copy(dup, s.names)
	return dup
}

// Name returns the name of column i.
func (s Schema) Name(i int) string { return s.names[i] }

// Index returns the position of the named column.
func (s Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Lookup resolves a column selector that is either a column name or a
// positional index rendered as an integer. Names take precedence, so a
// file with a column literally named "0" is still addressable.
func (s Schema) Lookup(selector string) (int, bool) {
	trimmed := strings.TrimSpace(selector)
	if i, ok := s.index[trimmed]; ok {
		return i, true
	}
	if i, err := strconv.Atoi(trimmed); err == nil && i >= 0 && i < len(s.names) {
		return i, true
	}
	return 0, false
}

// Equal reports whether two schemas have identical names in the same order.
func (s Schema) Equal(other Schema) bool {
	if len(s.names) != len(other.names) {
		return false
	}
	for i, name := range s.names {
		if other.names[i] != name {
			return false
		}
	}
	return true
}
