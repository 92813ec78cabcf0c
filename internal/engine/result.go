package engine

// UnitResult is the per-unit outcome record of a run.
type UnitResult struct {
	// Unit is the identifier as it appears in the source table
	Unit string

	// Address is the resolved network address the engine used
	Address string

	// State is the unit's final lifecycle state
	State UnitState

	// Attempted is the number of operations attempted (or, under
	// dry-run, that would have been attempted)
	Attempted int

	// Applied is the number of operations the device acknowledged
	Applied int

	// Err is the connect or apply failure, if any
	Err error
}

// Report aggregates the outcome of one engine run.
type Report struct {
	// Status is the overall run outcome
	Status RunStatus

	// DryRun records whether the run was a dry run
	DryRun bool

	// Results holds one entry per unit, in plan order
	Results []*UnitResult
}

// Counts sums attempted and applied operations and failed units.
func (r *Report) Counts() (attempted, applied, failed int) {
	for _, res := range r.Results {
		attempted += res.Attempted
		applied += res.Applied
		if res.State == StateFailed {
			failed++
		}
	}
	return attempted, applied, failed
}

// ExitCode maps the run outcome to the process exit code: 0 for full
// success, 1 when every unit was attempted but some failed, 2 when the
// run aborted early.
func (r *Report) ExitCode() int {
	switch r.Status {
	case StatusCompleted:
		return 0
	case StatusPartial:
		return 1
	default:
		return 2
	}
}
