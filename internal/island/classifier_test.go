package island

import (
	"testing"
)

func detectOne(t *testing.T, rows [][]string) *Island {
	t.Helper()
	islands := Detect(gridOf(t, rows))
	if len(islands) != 1 {
		t.Fatalf("expected one island, got %d", len(islands))
	}
	return islands[0]
}

// TestClassify tests the header axis classifier
func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want Orientation
	}{
		{
			name: "corner label pins units to left column",
			rows: [][]string{
				{"unit", "gpio1"},
				{"dev1", "on"},
			},
			want: OrientationHeaderRow,
		},
		{
			name: "original sheet corner label",
			rows: [][]string{
				{"units IP/addr", "/config#unitname"},
				{"192.168.1.40", "kitchen"},
			},
			want: OrientationHeaderRow,
		},
		{
			name: "address-like left column",
			rows: [][]string{
				{"settings", "gpio1", "gpio2"},
				{"192.168.1.40", "on", "off"},
				{"192.168.1.41", "off", "on"},
			},
			want: OrientationHeaderRow,
		},
		{
			name: "address-like top row is transposed",
			rows: [][]string{
				{"settings", "192.168.1.40", "192.168.1.41"},
				{"gpio1", "on", "off"},
				{"gpio2", "off", "on"},
			},
			want: OrientationHeaderColumn,
		},
		{
			name: "neither axis looks like units",
			rows: [][]string{
				{"alpha", "beta"},
				{"gamma", "delta"},
			},
			want: OrientationAmbiguous,
		},
		{
			name: "both axes look like units",
			rows: [][]string{
				{"x", "192.168.1.40", "192.168.1.41"},
				{"192.168.1.42", "on", "off"},
				{"192.168.1.43", "off", "on"},
			},
			want: OrientationAmbiguous,
		},
		{
			name: "single row cannot carry two axes",
			rows: [][]string{
				{"unit", "gpio1", "on"},
			},
			want: OrientationAmbiguous,
		},
		{
			name: "hostnames count as units",
			rows: [][]string{
				{"keys", "gpio1"},
				{"dev1.local", "on"},
				{"dev2.local", "off"},
			},
			want: OrientationHeaderRow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := detectOne(t, tt.rows)
			if got := Classify(is); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestLooksLikeUnit tests the unit address heuristic
func TestLooksLikeUnit(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"192.168.1.40", true},
		{"192.168.1.40:8080", true},
		{"dev1.local", true},
		{"fe80::1", true},
		{"gpio1", false},
		{"two words", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := looksLikeUnit(tt.text); got != tt.want {
				t.Errorf("looksLikeUnit(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
