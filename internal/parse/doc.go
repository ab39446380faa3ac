// Package parse implements incremental parsing of a growing delimited
// text file.
//
// # Overview
//
// An instrument driver appends one record per line to a plain text file
// and flushes as it goes. ScanFrom reads only the bytes appended since
// the previous scan, splits them into complete lines, and parses each
// line into numeric (or raw-string) field values. The caller tracks the
// returned offset; bytes before it are never read again, so the cost of
// a scan is proportional to the new data, not the file size.
//
// # Partial lines
//
// A write can race a read, leaving a trailing line without its newline.
// Such a tail is never consumed: the returned offset stops at the end of
// the last complete line and the fragment is re-read on the next scan.
// This is what makes tailing a live file correct without coordination
// with the writer.
//
// # Line forms
//
// Three kinds of line are recognized:
//
//   - Comment lines starting with "#" carry "key: value" metadata. The
//     "columns" key with a bracketed list ("# columns: [t, v]") names
//     the columns. Comments are never data and never parse errors.
//   - An optional header line of column names. The heuristic: the first
//     non-comment line is a header when not every token coerces to a
//     number under the active mode; if all tokens coerce, it is data.
//   - Data lines, split by the configured delimiter (any whitespace
//     when unset). A line whose field count differs from the frozen
//     column count is dropped and counted, not fatal.
//
// # Coercion modes
//
// ModeAuto parses fields as decimal floats. ModeHex parses them as bare
// base-16 integers, the format some acquisition firmware logs registers
// in. Tokens that fail coercion are kept as raw strings.
package parse
