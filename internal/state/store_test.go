package state

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/jlazear/pyoscope/internal/parse"
	"github.com/jlazear/pyoscope/internal/schema"
)

func mustSchema(t *testing.T, names ...string) schema.Schema {
	t.Helper()
	s, err := schema.Resolve(names, nil, len(names))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return s
}

func row(vals ...float64) []parse.Value {
	out := make([]parse.Value, len(vals))
	for i, v := range vals {
		out[i] = parse.Number(v)
	}
	return out
}

func TestSetSchemaOnce(t *testing.T) {
	var s Store
	sc := mustSchema(t, "t", "v")

	if err := s.SetSchema(sc); err != nil {
		t.Fatalf("SetSchema() error = %v", err)
	}
	// Same schema again is a no-op.
	if err := s.SetSchema(mustSchema(t, "t", "v")); err != nil {
		t.Fatalf("SetSchema() same schema error = %v", err)
	}
	// A different schema is invalid usage.
	err := s.SetSchema(mustSchema(t, "a", "b"))
	if !errors.Is(err, ErrState) {
		t.Fatalf("SetSchema() different schema error = %v, want ErrState", err)
	}
}

func TestApplyScanRequiresSchemaForRows(t *testing.T) {
	var s Store

	// Offset-only application (comments, bare header) is fine.
	if err := s.ApplyScan(nil, 42, 0); err != nil {
		t.Fatalf("ApplyScan() without rows error = %v", err)
	}
	if s.Offset() != 42 {
		t.Fatalf("Offset() = %d, want 42", s.Offset())
	}

	err := s.ApplyScan([][]parse.Value{row(1, 2)}, 50, 0)
	if !errors.Is(err, ErrState) {
		t.Fatalf("ApplyScan() rows without schema error = %v, want ErrState", err)
	}
}

func TestApplyScanAppendsAndAdvances(t *testing.T) {
	var s Store
	if err := s.SetSchema(mustSchema(t, "t", "v")); err != nil {
		t.Fatal(err)
	}

	if err := s.ApplyScan([][]parse.Value{row(1, 10), row(2, 20)}, 8, 0); err != nil {
		t.Fatalf("ApplyScan() error = %v", err)
	}
	if err := s.ApplyScan([][]parse.Value{row(3, 30)}, 12, 1); err != nil {
		t.Fatalf("ApplyScan() error = %v", err)
	}

	snap := s.Snapshot()
	if snap.Rows != 3 {
		t.Errorf("Rows = %d, want 3", snap.Rows)
	}
	if snap.Offset != 12 {
		t.Errorf("Offset = %d, want 12", snap.Offset)
	}
	if snap.ParseErrors != 1 {
		t.Errorf("ParseErrors = %d, want 1", snap.ParseErrors)
	}
	for i, col := range snap.Columns {
		if len(col) != snap.Rows {
			t.Errorf("column %d has %d values, want %d", i, len(col), snap.Rows)
		}
	}
	vals, ok := snap.Column("v")
	if !ok {
		t.Fatal("Column(v) not found")
	}
	got := []float64{vals[0].Num, vals[1].Num, vals[2].Num}
	if !reflect.DeepEqual(got, []float64{10, 20, 30}) {
		t.Errorf("column v = %v, want [10 20 30]", got)
	}
}

func TestApplyScanRejectsMismatchedRow(t *testing.T) {
	var s Store
	if err := s.SetSchema(mustSchema(t, "t", "v")); err != nil {
		t.Fatal(err)
	}
	err := s.ApplyScan([][]parse.Value{row(1, 2, 3)}, 8, 0)
	if !errors.Is(err, ErrState) {
		t.Fatalf("ApplyScan() mismatched row error = %v, want ErrState", err)
	}
	// Nothing applied.
	if s.Rows() != 0 || s.Offset() != 0 {
		t.Errorf("store advanced on rejected scan: rows=%d offset=%d", s.Rows(), s.Offset())
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	var s Store
	if err := s.SetSchema(mustSchema(t, "t")); err != nil {
		t.Fatal(err)
	}
	if err := s.ApplyScan([][]parse.Value{row(1)}, 2, 0); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	snap.Columns[0][0] = parse.Number(999)

	again := s.Snapshot()
	if again.Columns[0][0].Num != 1 {
		t.Error("Snapshot() exposed shared backing array")
	}
}

func TestRecordErrorKeepsData(t *testing.T) {
	var s Store
	if err := s.SetSchema(mustSchema(t, "t")); err != nil {
		t.Fatal(err)
	}
	if err := s.ApplyScan([][]parse.Value{row(1)}, 2, 0); err != nil {
		t.Fatal(err)
	}

	s.RecordError(errors.New("stat failed"))
	snap := s.Snapshot()
	if snap.Rows != 1 || snap.Offset != 2 {
		t.Errorf("data changed on RecordError: rows=%d offset=%d", snap.Rows, snap.Offset)
	}
	if snap.LastError == nil {
		t.Error("LastError = nil, want recorded error")
	}

	// A successful scan clears the error.
	if err := s.ApplyScan([][]parse.Value{row(2)}, 4, 0); err != nil {
		t.Fatal(err)
	}
	if s.Snapshot().LastError != nil {
		t.Error("LastError survived a successful scan")
	}
}

func TestReset(t *testing.T) {
	var s Store
	if err := s.SetSchema(mustSchema(t, "t")); err != nil {
		t.Fatal(err)
	}
	if err := s.ApplyScan([][]parse.Value{row(1)}, 2, 1); err != nil {
		t.Fatal(err)
	}

	s.Reset()
	snap := s.Snapshot()
	if snap.Rows != 0 || snap.Offset != 0 || s.HasSchema() {
		t.Errorf("Reset left state behind: %+v", snap)
	}
	if snap.Resets != 1 {
		t.Errorf("Resets = %d, want 1", snap.Resets)
	}
	if snap.ParseErrors != 1 {
		t.Errorf("ParseErrors = %d, want 1 (counters survive reset)", snap.ParseErrors)
	}

	// A new schema may be established after a reset.
	if err := s.SetSchema(mustSchema(t, "a", "b")); err != nil {
		t.Fatalf("SetSchema() after Reset error = %v", err)
	}
}

func TestMergeMeta(t *testing.T) {
	var s Store
	s.MergeMeta(map[string]string{"navg": "167"})
	s.MergeMeta(map[string]string{"mode": "data", "navg": "200"})

	meta := s.Snapshot().Meta
	if meta["navg"] != "200" || meta["mode"] != "data" {
		t.Errorf("Meta = %v, want navg=200 mode=data", meta)
	}
}

// TestConcurrentSnapshots exercises the producer/consumer contract: a
// writer appending in a tight loop must never let a reader observe
// unequal column lengths or a shrinking row count.
func TestConcurrentSnapshots(t *testing.T) {
	var s Store
	if err := s.SetSchema(mustSchema(t, "t", "v")); err != nil {
		t.Fatal(err)
	}

	const appends = 500
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < appends; i++ {
			if err := s.ApplyScan([][]parse.Value{row(float64(i), float64(i)*2)}, int64(i+1), 0); err != nil {
				t.Errorf("ApplyScan() error = %v", err)
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		prevRows := 0
		for i := 0; i < appends; i++ {
			snap := s.Snapshot()
			if snap.Rows < prevRows {
				t.Errorf("row count shrank: %d -> %d", prevRows, snap.Rows)
				return
			}
			prevRows = snap.Rows
			for c, col := range snap.Columns {
				if len(col) != snap.Rows {
					t.Errorf("column %d has %d values at row count %d", c, len(col), snap.Rows)
					return
				}
			}
		}
	}()

	wg.Wait()
}
