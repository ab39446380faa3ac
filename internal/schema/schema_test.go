package schema

import (
	"errors"
	"reflect"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		header     []string
		explicit   []string
		fieldCount int
		want       []string
		wantErr    bool
	}{
		{
			name:       "explicit names",
			explicit:   []string{"time", "volts"},
			fieldCount: 2,
			want:       []string{"time", "volts"},
		},
		{
			name:       "explicit wins over header",
			header:     []string{"a", "b"},
			explicit:   []string{"x", "y"},
			fieldCount: 2,
			want:       []string{"x", "y"},
		},
		{
			name:       "explicit count mismatch",
			explicit:   []string{"x"},
			fieldCount: 2,
			wantErr:    true,
		},
		{
			name:       "header tokens trimmed",
			header:     []string{" t ", "v"},
			fieldCount: 2,
			want:       []string{"t", "v"},
		},
		{
			name:       "header count mismatch",
			header:     []string{"t", "v", "w"},
			fieldCount: 2,
			wantErr:    true,
		},
		{
			name:       "duplicate after trim",
			header:     []string{"t", " t"},
			fieldCount: 2,
			wantErr:    true,
		},
		{
			name:       "empty name",
			header:     []string{"t", "  "},
			fieldCount: 2,
			wantErr:    true,
		},
		{
			name:       "positional fallback",
			fieldCount: 3,
			want:       []string{"col0", "col1", "col2"},
		},
		{
			name:       "zero field count",
			fieldCount: 0,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.header, tt.explicit, tt.fieldCount)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Resolve() error = nil, want error")
				}
				if !errors.Is(err, ErrSchema) {
					t.Fatalf("Resolve() error = %v, want ErrSchema", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if !reflect.DeepEqual(got.Names(), tt.want) {
				t.Errorf("Names() = %v, want %v", got.Names(), tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	s, err := Resolve([]string{"t", "v", "0"}, nil, 3)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	tests := []struct {
		selector string
		want     int
		ok       bool
	}{
		{"t", 0, true},
		{"v", 1, true},
		{" v ", 1, true},
		{"0", 2, true}, // literal name beats positional index
		{"1", 1, true},
		{"2", 2, true},
		{"3", 0, false},
		{"-1", 0, false},
		{"missing", 0, false},
	}
	for _, tt := range tests {
		got, ok := s.Lookup(tt.selector)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("Lookup(%q) = %d, %v, want %d, %v", tt.selector, got, ok, tt.want, tt.ok)
		}
	}
}

func TestEqual(t *testing.T) {
	a, _ := Resolve([]string{"t", "v"}, nil, 2)
	b, _ := Resolve([]string{"t", "v"}, nil, 2)
	c, _ := Resolve([]string{"v", "t"}, nil, 2)
	d, _ := Resolve(nil, nil, 2)

	if !a.Equal(b) {
		t.Error("identical schemas reported unequal")
	}
	if a.Equal(c) {
		t.Error("reordered schemas reported equal")
	}
	if a.Equal(d) {
		t.Error("named and positional schemas reported equal")
	}
}

func TestNamesIsCopy(t *testing.T) {
	s, _ := Resolve([]string{"t", "v"}, nil, 2)
	names := s.Names()
	names[0] = "mutated"
	if s.Name(0) != "t" {
		t.Error("Names() exposed internal slice")
	}
}
