package island

import "fmt"

// StructureError indicates a malformed island: a region too small to
// hold a header axis plus data, or one with no data cells at all.
// It is scoped to the one island and does not invalidate the rest of
// the grid unless fail-fast escalates it.
type StructureError struct {
	// IslandID is the discovery index of the offending island
	IslandID int

	// Anchor is the island's anchor position, for operator-facing
	// error messages
	Anchor Pos

	// Message describes the structural problem
	Message string
}

// Error implements the error interface
func (e *StructureError) Error() string {
	return fmt.Sprintf("island %d at row %d col %d: %s", e.IslandID, e.Anchor.Row, e.Anchor.Col, e.Message)
}

// IsStructureError reports whether err is a StructureError
func IsStructureError(err error) bool {
	_, ok := err.(*StructureError)
	return ok
}

// AmbiguousHeaderError indicates that neither axis of an island could
// be unambiguously classified as the key header or the unit axis.
type AmbiguousHeaderError struct {
	// IslandID is the discovery index of the offending island
	IslandID int

	// Anchor is the island's anchor position
	Anchor Pos
}

// Error implements the error interface
func (e *AmbiguousHeaderError) Error() string {
	return fmt.Sprintf("island %d at row %d col %d: cannot tell the key header axis from the unit axis", e.IslandID, e.Anchor.Row, e.Anchor.Col)
}

// IsAmbiguousHeaderError reports whether err is an AmbiguousHeaderError
func IsAmbiguousHeaderError(err error) bool {
	_, ok := err.(*AmbiguousHeaderError)
	return ok
}
