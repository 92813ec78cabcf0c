package island

import (
	"reflect"
	"testing"

	"github.com/espeasy-tools/espcfg/internal/plan"
)

type opTriple struct {
	unit, key, value string
}

func triples(ops []plan.Operation) []opTriple {
	out := make([]opTriple, 0, len(ops))
	for _, op := range ops {
		out = append(out, opTriple{op.Unit, op.Key, op.Value})
	}
	return out
}

// TestParseHeaderRow tests the canonical keys-on-top orientation
func TestParseHeaderRow(t *testing.T) {
	is := detectOne(t, [][]string{
		{"unit", "gpio1"},
		{"dev1", "on"},
		{"dev2", "off"},
	})

	ops, err := Parse(is)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []opTriple{
		{"dev1", "gpio1", "on"},
		{"dev2", "gpio1", "off"},
	}
	if got := triples(ops); !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
}

// TestParseRowMajorOrder tests operation ordering within an island
func TestParseRowMajorOrder(t *testing.T) {
	is := detectOne(t, [][]string{
		{"unit", "gpio1", "gpio2"},
		{"dev1", "a", "b"},
		{"dev2", "c", "d"},
	})

	ops, err := Parse(is)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []opTriple{
		{"dev1", "gpio1", "a"},
		{"dev1", "gpio2", "b"},
		{"dev2", "gpio1", "c"},
		{"dev2", "gpio2", "d"},
	}
	if got := triples(ops); !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() order = %v, want row-major %v", got, want)
	}
}

// TestParseHeaderColumn tests the transposed orientation
func TestParseHeaderColumn(t *testing.T) {
	is := detectOne(t, [][]string{
		{"settings", "192.168.1.40", "192.168.1.41"},
		{"gpio1", "on", "off"},
		{"gpio2", "", "on"},
	})

	ops, err := Parse(is)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []opTriple{
		{"192.168.1.40", "gpio1", "on"},
		{"192.168.1.41", "gpio1", "off"},
		{"192.168.1.41", "gpio2", "on"},
	}
	if got := triples(ops); !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
}

// TestParseUnitInheritance tests that blank unit cells inherit from above
func TestParseUnitInheritance(t *testing.T) {
	is := detectOne(t, [][]string{
		{"unit", "gpio1", "gpio2"},
		{"dev1", "on", "x"},
		{"", "off", ""},
		{"dev2", "y", ""},
	})

	ops, err := Parse(is)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []opTriple{
		{"dev1", "gpio1", "on"},
		{"dev1", "gpio2", "x"},
		{"dev1", "gpio1", "off"}, // inherited unit
		{"dev2", "gpio1", "y"},
	}
	if got := triples(ops); !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
}

// TestParseComments tests '#' comment rows and columns
func TestParseComments(t *testing.T) {
	is := detectOne(t, [][]string{
		{"unit", "gpio1", "#note", "gpio2"},
		{"dev1", "on", "ignored", "x"},
		{"#dev2", "off", "ignored", "y"},
	})

	ops, err := Parse(is)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []opTriple{
		{"dev1", "gpio1", "on"},
		{"dev1", "gpio2", "x"},
	}
	if got := triples(ops); !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
}

// TestParseClearSentinel tests the explicit-clear convention
func TestParseClearSentinel(t *testing.T) {
	is := detectOne(t, [][]string{
		{"unit", "name"},
		{"dev1", `""`},
	})

	ops, err := Parse(is)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("Parse() returned %d ops, want 1", len(ops))
	}
	if ops[0].Value != "" {
		t.Errorf("sentinel value = %q, want empty string", ops[0].Value)
	}
}

// TestParseDeterministic tests that re-parsing yields identical output
func TestParseDeterministic(t *testing.T) {
	is := detectOne(t, [][]string{
		{"unit", "gpio1", "gpio2", "name"},
		{"dev1", "on", "", "kitchen"},
		{"dev2", "off", "on", ""},
	})

	first, err := Parse(is)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Parse(is)
		if err != nil {
			t.Fatalf("Parse() error on re-parse = %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Parse() not deterministic: %v vs %v", first, again)
		}
	}
}

// TestParseStructureError tests the malformed island path
func TestParseStructureError(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
	}{
		{"single cell", [][]string{{"stray"}}},
		{"single row", [][]string{{"unit", "gpio1"}}},
		{"single column", [][]string{{"unit"}, {"dev1"}, {"dev2"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(detectOne(t, tt.rows))
			if !IsStructureError(err) {
				t.Errorf("expected StructureError, got %v", err)
			}
		})
	}
}

// TestParseAmbiguousHeader tests the unclassifiable island path
func TestParseAmbiguousHeader(t *testing.T) {
	is := detectOne(t, [][]string{
		{"alpha", "beta"},
		{"gamma", "delta"},
	})

	_, err := Parse(is)
	if !IsAmbiguousHeaderError(err) {
		t.Errorf("expected AmbiguousHeaderError, got %v", err)
	}
}

// TestParseSourcePositions tests the provenance fields on operations
func TestParseSourcePositions(t *testing.T) {
	is := detectOne(t, [][]string{
		{"unit", "gpio1"},
		{"dev1", "on"},
	})

	ops, err := Parse(is)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("Parse() returned %d ops, want 1", len(ops))
	}
	op := ops[0]
	if op.Island != is.ID {
		t.Errorf("Island = %d, want %d", op.Island, is.ID)
	}
	if op.Row != 1 || op.Col != 1 {
		t.Errorf("position = (%d,%d), want (1,1)", op.Row, op.Col)
	}
}
