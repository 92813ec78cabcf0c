package island

import (
	"net"
	"strings"
)

// Orientation is the result of classifying an island's axes.
type Orientation int

const (
	// OrientationAmbiguous means neither axis could be classified:
	// both look like headers, or both look like data
	OrientationAmbiguous Orientation = iota

	// OrientationHeaderRow means setting keys run across the top row
	// and unit identifiers run down the left column
	OrientationHeaderRow

	// OrientationHeaderColumn means unit identifiers run across the
	// top row and setting keys run down the left column
	OrientationHeaderColumn
)

// String returns a human-readable name for the orientation
func (o Orientation) String() string {
	switch o {
	case OrientationHeaderRow:
		return "header-row"
	case OrientationHeaderColumn:
		return "header-column"
	default:
		return "ambiguous"
	}
}

// unitAxisLabels are corner-cell texts that explicitly mark the unit
// axis. "units ip/addr" is the label the original configuration sheets
// use; the rest are accepted aliases.
var unitAxisLabels = map[string]bool{
	"unit":          true,
	"units":         true,
	"unit ip/addr":  true,
	"units ip/addr": true,
	"host":          true,
	"hosts":         true,
	"address":       true,
	"addresses":     true,
	"addr":          true,
	"device":        true,
	"devices":       true,
	"ip":            true,
	"ip/addr":       true,
}

// Classify decides which island axis carries the setting keys and
// which carries the unit identifiers.
//
// The corner cell is checked first: a recognized unit-axis label there
// pins the units to the left column. Otherwise the left column and top
// row are scored on how address-like their cells are; the axis whose
// cells look like unit addresses wins. When both or neither axis look
// address-like the island is ambiguous.
func Classify(is *Island) Orientation {
	minRow, minCol, maxRow, maxCol := is.Bounds()

	if maxRow == minRow || maxCol == minCol {
		return OrientationAmbiguous
	}

	corner := normalizeLabel(is.Text(minRow, minCol))
	if unitAxisLabels[corner] {
		return OrientationHeaderRow
	}

	var leftCol, topRow []string
	for row := minRow + 1; row <= maxRow; row++ {
		leftCol = append(leftCol, is.Text(row, minCol))
	}
	for col := minCol + 1; col <= maxCol; col++ {
		topRow = append(topRow, is.Text(minRow, col))
	}

	leftUnits := axisLooksLikeUnits(leftCol)
	topUnits := axisLooksLikeUnits(topRow)

	switch {
	case leftUnits && !topUnits:
		return OrientationHeaderRow
	case topUnits && !leftUnits:
		return OrientationHeaderColumn
	default:
		return OrientationAmbiguous
	}
}

// axisLooksLikeUnits reports whether the majority of an axis' non-empty,
// non-comment cells look like unit addresses.
func axisLooksLikeUnits(cells []string) bool {
	total, unitLike := 0, 0
	for _, text := range cells {
		text = strings.TrimSpace(text)
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		total++
		if looksLikeUnit(text) {
			unitLike++
		}
	}
	return total > 0 && unitLike*2 > total
}

// looksLikeUnit reports whether a cell text plausibly identifies a
// device: an IP address, an ip:port pair, or a dotted hostname.
func looksLikeUnit(text string) bool {
	if strings.ContainsAny(text, " \t\n") {
		return false
	}
	if net.ParseIP(text) != nil {
		return true
	}
	if host, _, err := net.SplitHostPort(text); err == nil && host != "" {
		return true
	}
	return strings.Contains(text, ".")
}

func normalizeLabel(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
