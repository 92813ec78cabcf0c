// Package plan defines configuration operations and the ordered update
// plan executed against a fleet of units.
package plan

// Operation is a single "set this key to this value on this unit"
// instruction, tagged with where in the source table it came from.
type Operation struct {
	// Unit is the device name or address the operation targets
	Unit string

	// Key is the setting key, an opaque string interpreted by the
	// device client (see the device package for the page#control
	// convention)
	Key string

	// Value is the setting value to apply
	Value string

	// Island is the discovery index of the source island
	Island int

	// Row and Col are the grid position of the value cell
	Row int
	Col int
}

// UnitOps is the ordered operation list for one unit.
type UnitOps struct {
	Unit string
	Ops  []Operation
}

// Plan is the final linear operation sequence for a run.
//
// Ordering is a stable total order: operations appear in island
// discovery order, then in row-major order within an island. Duplicate
// unit+key pairs are retained; the operation later in the sequence is
// the one the device observes last, so later table position wins.
type Plan struct {
	ops []Operation
}

// Build concatenates per-island operation lists, in island discovery
// order, into a Plan. The per-island lists are expected to already be
// in row-major order as produced by the island parser.
func Build(perIsland [][]Operation) *Plan {
	total := 0
	for _, ops := range perIsland {
		total += len(ops)
	}

	p := &Plan{ops: make([]Operation, 0, total)}
	for _, ops := range perIsland {
		p.ops = append(p.ops, ops...)
	}
	return p
}

// Operations returns the plan's operations in execution order.
func (p *Plan) Operations() []Operation {
	return p.ops
}

// Len returns the number of operations in the plan.
func (p *Plan) Len() int {
	return len(p.ops)
}

// Units returns the distinct unit identifiers referenced by the plan,
// in order of first appearance.
func (p *Plan) Units() []string {
	seen := make(map[string]bool)
	var units []string
	for _, op := range p.ops {
		if !seen[op.Unit] {
			seen[op.Unit] = true
			units = append(units, op.Unit)
		}
	}
	return units
}

// PerUnit groups the plan by unit, preserving both the units'
// first-appearance order and each unit's operation order. Operations
// for one unit must be applied strictly in this order; different units
// are independent.
func (p *Plan) PerUnit() []UnitOps {
	index := make(map[string]int)
	var groups []UnitOps
	for _, op := range p.ops {
		i, ok := index[op.Unit]
		if !ok {
			i = len(groups)
			index[op.Unit] = i
			groups = append(groups, UnitOps{Unit: op.Unit})
		}
		groups[i].Ops = append(groups[i].Ops, op)
	}
	return groups
}

// Filter returns a new plan containing only operations for the given
// unit. An empty unit returns the plan unchanged.
func (p *Plan) Filter(unit string) *Plan {
	if unit == "" {
		return p
	}
	filtered := &Plan{}
	for _, op := range p.ops {
		if op.Unit == unit {
			filtered.ops = append(filtered.ops, op)
		}
	}
	return filtered
}
