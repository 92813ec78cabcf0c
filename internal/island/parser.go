package island

import (
	"strings"

	"github.com/espeasy-tools/espcfg/internal/plan"
)

// clearSentinel is the cell text that requests an explicit clear of a
// setting. A genuinely empty cell produces no operation at all; a cell
// holding two double quotes produces an operation with an empty value.
const clearSentinel = `""`

// Parse converts one island into its ordered operation list.
//
// Operations are emitted in row-major order of their value cells.
// Rules, matching the source sheet conventions:
//   - a key header cell starting with "#" comments out its whole
//     column (or row, in header-column orientation)
//   - a unit cell starting with "#" comments out its row (or column)
//   - an empty unit cell inherits the nearest unit above it (or to its
//     left); rows with no inheritable unit are skipped
//   - empty value cells are skipped; the "" sentinel requests an
//     explicit clear
//
// Parse is deterministic: the same island always yields the same
// sequence.
func Parse(is *Island) ([]plan.Operation, error) {
	minRow, minCol, maxRow, maxCol := is.Bounds()

	if maxRow == minRow || maxCol == minCol {
		return nil, &StructureError{
			IslandID: is.ID,
			Anchor:   is.Anchor,
			Message:  "island needs a header axis and at least one data row",
		}
	}

	switch Classify(is) {
	case OrientationHeaderRow:
		return parseHeaderRow(is), nil
	case OrientationHeaderColumn:
		return parseHeaderColumn(is), nil
	default:
		return nil, &AmbiguousHeaderError{IslandID: is.ID, Anchor: is.Anchor}
	}
}

// parseHeaderRow handles islands with keys across the top row and
// units down the left column.
func parseHeaderRow(is *Island) []plan.Operation {
	minRow, minCol, maxRow, maxCol := is.Bounds()

	keys := make(map[int]string)
	for col := minCol + 1; col <= maxCol; col++ {
		if key := headerKey(is.Text(minRow, col)); key != "" {
			keys[col] = key
		}
	}

	var ops []plan.Operation
	prevUnit := ""
	for row := minRow + 1; row <= maxRow; row++ {
		unit := strings.TrimSpace(is.Text(row, minCol))
		if unit == "" {
			unit = prevUnit
		} else {
			prevUnit = unit
		}
		if unit == "" || strings.HasPrefix(unit, "#") {
			continue
		}

		for col := minCol + 1; col <= maxCol; col++ {
			key, ok := keys[col]
			if !ok {
				continue
			}
			if op, ok := valueOp(is, unit, key, row, col); ok {
				ops = append(ops, op)
			}
		}
	}
	return ops
}

// parseHeaderColumn handles the transposed orientation: units across
// the top row, keys down the left column.
func parseHeaderColumn(is *Island) []plan.Operation {
	minRow, minCol, maxRow, maxCol := is.Bounds()

	units := make(map[int]string)
	prevUnit := ""
	for col := minCol + 1; col <= maxCol; col++ {
		unit := strings.TrimSpace(is.Text(minRow, col))
		if unit == "" {
			unit = prevUnit
		} else {
			prevUnit = unit
		}
		if unit == "" || strings.HasPrefix(unit, "#") {
			continue
		}
		units[col] = unit
	}

	var ops []plan.Operation
	for row := minRow + 1; row <= maxRow; row++ {
		key := headerKey(is.Text(row, minCol))
		if key == "" {
			continue
		}
		for col := minCol + 1; col <= maxCol; col++ {
			unit, ok := units[col]
			if !ok {
				continue
			}
			if op, ok := valueOp(is, unit, key, row, col); ok {
				ops = append(ops, op)
			}
		}
	}
	return ops
}

// headerKey normalizes a key header cell; "" means the cell carries no
// usable key (empty or commented out).
func headerKey(text string) string {
	key := strings.TrimSpace(text)
	if key == "" || strings.HasPrefix(key, "#") {
		return ""
	}
	return key
}

// valueOp builds the operation for one intersection cell, if any.
func valueOp(is *Island, unit, key string, row, col int) (plan.Operation, bool) {
	value := is.Text(row, col)
	if strings.TrimSpace(value) == "" {
		return plan.Operation{}, false
	}
	if value == clearSentinel {
		value = ""
	}
	return plan.Operation{
		Unit:   unit,
		Key:    key,
		Value:  value,
		Island: is.ID,
		Row:    row,
		Col:    col,
	}, true
}
