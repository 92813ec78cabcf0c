package engine

import "fmt"

// UnitState tracks where one unit is in its update lifecycle.
// Transitions run Pending → Connecting → Connected → Applying and end
// in Done or Failed. A unit never attempted (run aborted before its
// turn) stays Pending.
type UnitState int

const (
	// StatePending means the unit's operations have not started
	StatePending UnitState = iota
	// StateConnecting means a connection attempt is in flight
	StateConnecting
	// StateConnected means the connection probe succeeded
	StateConnected
	// StateApplying means operations are being applied
	StateApplying
	// StateDone means every operation for the unit was applied
	StateDone
	// StateFailed means the unit failed to connect or an apply failed;
	// its remaining operations were skipped
	StateFailed
)

// String returns a human-readable name for the state
func (s UnitState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateApplying:
		return "applying"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("UnitState(%d)", s)
	}
}

// RunStatus is the overall outcome of a run.
type RunStatus int

const (
	// StatusCompleted means every unit finished successfully
	StatusCompleted RunStatus = iota
	// StatusPartial means all units were attempted but some failed
	StatusPartial
	// StatusAborted means the run stopped early (fail-fast or a
	// failed precheck) and some operations were never attempted
	StatusAborted
)

// String returns a human-readable name for the status
func (s RunStatus) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusPartial:
		return "completed with failures"
	case StatusAborted:
		return "aborted"
	default:
		return fmt.Sprintf("RunStatus(%d)", s)
	}
}
