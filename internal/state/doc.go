// Package state provides the thread-safe in-memory table shared between
// the file watcher and the renderer.
//
// # Architecture
//
// The package follows a producer-consumer pattern over a single shared
// store rather than a queue of work items:
//
//	Producer (watcher):            Consumer (renderer):
//	┌────────────────┐            ┌─────────────────┐
//	│ stat + scan    │            │                 │
//	│      ↓         │            │                 │
//	│ ApplyScan()    │───────────→│ Snapshot()      │
//	│      ↓         │  (mutex)   │      ↓          │
//	│  next tick     │            │  draw frame     │
//	└────────────────┘            └─────────────────┘
//
// One RWMutex guards the column slices, the row count, and the file
// offset together. ApplyScan appends a whole batch of rows and advances
// the offset in one critical section, so a Snapshot can never observe a
// row applied to some columns but not others, nor an offset ahead of
// the rows it covers.
//
// # Invariants
//
//   - Every column slice has exactly Rows elements in every snapshot.
//   - Rows and the offset are monotonically non-decreasing between
//     resets; appended values are never mutated or removed.
//   - The schema is set once; Reset is the only way to clear it, and
//     only the watcher's truncation policy calls Reset.
//
// Snapshots are defensive copies. The append-only invariant would
// permit sharing sub-slices of the live backing arrays, but append can
// reallocate mid-read, so the copy keeps readers entirely free of
// synchronization after Snapshot returns.
package state
