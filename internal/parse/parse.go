package parse

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Mode selects how raw field tokens are coerced to numbers.
type Mode int

const (
	// ModeAuto coerces fields as decimal floating point.
	ModeAuto Mode = iota
	// ModeHex coerces fields as unsigned base-16 integers, for
	// instruments that log raw register values.
	ModeHex
)

// Value is one parsed field: a number when coercion succeeded, otherwise
// the raw token.
type Value struct {
	Num   float64
	Str   string
	IsNum bool
}

// Number returns a numeric Value.
func Number(f float64) Value { return Value{Num: f, IsNum: true} }

// Raw returns a non-numeric Value holding the original token.
func Raw(s string) Value { return Value{Str: s} }

// Options configure a scan.
type Options struct {
	// Delimiter separates fields within a line. Empty means any run of
	// whitespace.
	Delimiter string
	// Mode selects the numeric coercion applied to fields.
	Mode Mode
	// FieldCount, when non-zero, is the frozen column count; lines with
	// a different field count are dropped and counted as parse errors.
	// When zero the count freezes on the first data line of the scan.
	FieldCount int
	// DetectHeader enables the header heuristic for the first
	// non-comment line of the scan: if not every token coerces under
	// Mode, the line is treated as a header of column names rather
	// than data. Only meaningful when scanning from the start of the
	// file.
	DetectHeader bool
}

// Result is the outcome of one incremental scan.
type Result struct {
	// Rows holds the parsed data rows in file order. All rows have the
	// same field count.
	Rows [][]Value
	// NewOffset is the byte position after the last complete line
	// consumed. A trailing partial line is left for the next scan.
	NewOffset int64
	// ParseErrors counts lines dropped for a field-count mismatch.
	ParseErrors int
	// Header holds the tokens of a detected header line, if any.
	Header []string
	// Meta holds key/value pairs from "# key: value" comment lines.
	Meta map[string]string
	// MetaColumns holds column names from a "# columns: [a, b]" comment
	// line, if present.
	MetaColumns []string
}

// ScanFrom reads the region [fromOffset, size) of the source, consumes
// the complete lines in it, and parses them. Bytes before fromOffset are
// never touched, so repeated scans of a growing file cost O(new bytes).
//
// A trailing line without a terminating newline is not consumed: the
// writer's flush may have raced the read, so NewOffset stops at the end
// of the last complete line and the partial tail is re-read next time.
func ScanFrom(r io.ReaderAt, fromOffset, size int64, opts Options) (Result, error) {
	res := Result{NewOffset: fromOffset}
	if size <= fromOffset {
		return res, nil
	}

	buf := make([]byte, size-fromOffset)
	if _, err := r.ReadAt(buf, fromOffset); err != nil && err != io.EOF {
		return res, fmt.Errorf("read source: %w", err)
	}

	// Only complete lines are eligible.
	end := len(buf)
	for end > 0 && buf[end-1] != '\n' {
		end--
	}
	if end == 0 {
		return res, nil
	}
	res.NewOffset = fromOffset + int64(end)

	expected := opts.FieldCount
	sawFirst := expected > 0 // header heuristic applies only before any data
	for _, line := range strings.Split(strings.TrimSuffix(string(buf[:end]), "\n"), "\n") {
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			key, val, ok := splitMeta(trimmed)
			if !ok {
				continue
			}
			if res.Meta == nil {
				res.Meta = make(map[string]string)
			}
			res.Meta[key] = val
			if key == "columns" {
				res.MetaColumns = splitList(val)
			}
			continue
		}

		tokens := splitFields(line, opts.Delimiter)
		if !sawFirst {
			sawFirst = true
			if opts.DetectHeader && !allCoercible(tokens, opts.Mode) {
				res.Header = tokens
				continue
			}
		}

		if expected == 0 {
			expected = len(tokens)
		}
		if len(tokens) != expected {
			res.ParseErrors++
			continue
		}

		row := make([]Value, len(tokens))
		for i, tok := range tokens {
			row[i] = coerce(tok, opts.Mode)
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

// coerce converts a token per the mode, falling back to the raw string.
func coerce(tok string, mode Mode) Value {
	switch mode {
	case ModeHex:
		if u, err := strconv.ParseUint(tok, 16, 64); err == nil {
			return Number(float64(u))
		}
	default:
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			return Number(f)
		}
	}
	return Raw(tok)
}

func allCoercible(tokens []string, mode Mode) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		if !coerce(tok, mode).IsNum {
			return false
		}
	}
	return true
}

func splitFields(line, delimiter string) []string {
	if delimiter == "" {
		return strings.Fields(line)
	}
	parts := strings.Split(line, delimiter)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// splitMeta parses "# key: value" comment lines.
func splitMeta(line string) (key, val string, ok bool) {
	body := strings.TrimSpace(strings.TrimPrefix(line, "#"))
	key, val, found := strings.Cut(body, ":")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	val = strings.TrimSpace(val)
	if key == "" {
		return "", "", false
	}
	return key, val, true
}

// splitList parses "[a, b, c]" into its trimmed elements.
func splitList(val string) []string {
	val = strings.TrimSpace(val)
	val = strings.TrimPrefix(val, "[")
	val = strings.TrimSuffix(val, "]")
	if strings.TrimSpace(val) == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
