// Package engine executes an update plan against a fleet of units.
//
// The engine walks the plan's per-unit operation lists, connects to
// each unit through the device-client collaborator, applies operations
// in strict plan order within a unit, and records a structured log
// entry for every attempt. Units are independent and run concurrently;
// operations for one unit run on one session, in order.
//
// # Policy
//
// Four policies shape a run:
//
//   - Precheck: before anything mutates, every distinct unit in the
//     plan is probed for reachability, concurrently. Unreachable units
//     are reported Failed and skipped; combined with fail-fast a
//     single unreachable unit aborts the run before any mutation.
//   - Dry-run: the apply phase neither connects nor applies. Every
//     operation is logged as it would have been attempted, so the log
//     of a dry run matches what a real run would have tried.
//   - Fail-fast: the first connect or apply failure cancels the run
//     context; in-flight workers stop before their next operation and
//     no new work starts. Already-issued applies are not rolled back,
//     the run log is the source of truth for what was attempted.
//   - Host filter: restricts the run to a single unit.
//
// # States
//
// Each unit moves Pending → Connecting → Connected → Applying and ends
// in Done or Failed. A failed unit's remaining operations are skipped;
// under fail-fast the whole run ends Aborted and units not yet started
// stay Pending.
package engine
