package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/espeasy-tools/espcfg/internal/plan"
)

// DefaultConcurrency is the default number of units updated in parallel.
const DefaultConcurrency = 4

// Session is an open configuration session with one unit.
type Session interface {
	// Apply writes one setting to the unit
	Apply(ctx context.Context, key, value string) error

	// Close releases the session
	Close() error
}

// Client is the device-client collaborator. Connect doubles as the
// precheck probe: it must not mutate the unit.
type Client interface {
	Connect(ctx context.Context, unit string) (Session, error)
}

// Options configures a run.
type Options struct {
	// DryRun logs intended changes without connecting or applying
	DryRun bool

	// FailFast aborts the whole run on the first failure instead of
	// skipping to the next unit
	FailFast bool

	// Precheck probes every referenced unit before applying anything
	Precheck bool

	// Host restricts the run to a single unit identifier
	Host string

	// Concurrency bounds the number of units updated in parallel;
	// zero means DefaultConcurrency
	Concurrency int

	// Resolve optionally maps a unit identifier to a network address
	// (e.g. through the name registry). Nil means identity.
	Resolve func(unit string) string
}

// Engine executes plans. The log handle is explicit: it is passed in
// at construction and threaded to every unit worker, there is no
// package-level logger.
type Engine struct {
	client Client
	log    *zap.Logger
	opts   Options
}

// New creates an engine using the given device client and log sink.
func New(client Client, log *zap.Logger, opts Options) *Engine {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Resolve == nil {
		opts.Resolve = func(unit string) string { return unit }
	}
	return &Engine{client: client, log: log, opts: opts}
}

// Run executes the plan and returns the per-unit outcome report.
func (e *Engine) Run(ctx context.Context, p *plan.Plan) *Report {
	p = p.Filter(e.opts.Host)
	groups := p.PerUnit()

	report := &Report{DryRun: e.opts.DryRun}
	results := make([]*UnitResult, len(groups))
	for i, group := range groups {
		results[i] = &UnitResult{
			Unit:    group.Unit,
			Address: e.opts.Resolve(group.Unit),
			State:   StatePending,
		}
	}
	report.Results = results

	if e.opts.DryRun {
		e.log.Info("dry run: no changes will be applied")
	}

	if e.opts.Precheck {
		if aborted := e.precheck(ctx, results); aborted {
			report.Status = StatusAborted
			e.logSummary(report)
			return report
		}
	}

	var aborted atomic.Bool
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	abort := func() {
		if e.opts.FailFast {
			aborted.Store(true)
			cancel()
		}
	}

	sem := make(chan struct{}, e.opts.Concurrency)
	var wg sync.WaitGroup
	for i := range groups {
		if results[i].State == StateFailed {
			// failed precheck, operations skipped
			continue
		}
		wg.Add(1)
		go func(group plan.UnitOps, res *UnitResult) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if runCtx.Err() != nil {
				return
			}
			e.runUnit(runCtx, group, res, abort)
		}(groups[i], results[i])
	}
	wg.Wait()

	_, _, failed := report.Counts()
	switch {
	case aborted.Load() || ctx.Err() != nil:
		report.Status = StatusAborted
	case failed > 0:
		report.Status = StatusPartial
	default:
		report.Status = StatusCompleted
	}

	e.logSummary(report)
	return report
}

// precheck probes every unit concurrently. It returns true when the
// run must abort (fail-fast with at least one unreachable unit).
// Probes are read-only, so they run even under dry-run.
func (e *Engine) precheck(ctx context.Context, results []*UnitResult) bool {
	var wg sync.WaitGroup
	var failures atomic.Int32

	for _, res := range results {
		wg.Add(1)
		go func(res *UnitResult) {
			defer wg.Done()

			e.log.Info("precheck", zap.String("unit", res.Unit), zap.String("address", res.Address))
			sess, err := e.client.Connect(ctx, res.Address)
			if err != nil {
				res.State = StateFailed
				res.Err = err
				failures.Add(1)
				e.log.Error("precheck failed",
					zap.String("unit", res.Unit),
					zap.String("address", res.Address),
					zap.Error(err),
				)
				return
			}
			_ = sess.Close()
			e.log.Debug("precheck ok", zap.String("unit", res.Unit))
		}(res)
	}
	wg.Wait()

	return e.opts.FailFast && failures.Load() > 0
}

// runUnit applies one unit's operations in order on a single session.
func (e *Engine) runUnit(ctx context.Context, group plan.UnitOps, res *UnitResult, abort func()) {
	if e.opts.DryRun {
		for _, op := range group.Ops {
			if ctx.Err() != nil {
				return
			}
			res.Attempted++
			e.logOperation(op, res, "would apply")
		}
		res.State = StateDone
		return
	}

	res.State = StateConnecting
	e.log.Debug("connecting", zap.String("unit", res.Unit), zap.String("address", res.Address))

	sess, err := e.client.Connect(ctx, res.Address)
	if err != nil {
		res.State = StateFailed
		res.Err = err
		e.log.Error("connect failed",
			zap.String("unit", res.Unit),
			zap.String("address", res.Address),
			zap.Error(err),
		)
		abort()
		return
	}
	defer func() { _ = sess.Close() }()
	res.State = StateConnected

	for _, op := range group.Ops {
		if ctx.Err() != nil {
			// run aborted elsewhere; remaining operations skipped
			return
		}

		res.State = StateApplying
		res.Attempted++

		if err := sess.Apply(ctx, op.Key, op.Value); err != nil {
			res.State = StateFailed
			res.Err = err
			e.log.Error("apply failed",
				zap.String("unit", res.Unit),
				zap.String("key", op.Key),
				zap.String("value", op.Value),
				zap.Int("island", op.Island),
				zap.Error(err),
			)
			abort()
			return
		}

		res.Applied++
		e.logOperation(op, res, "applied")
	}

	if ctx.Err() == nil {
		res.State = StateDone
	}
}

// logOperation writes the structured record for one attempted change.
func (e *Engine) logOperation(op plan.Operation, res *UnitResult, outcome string) {
	e.log.Info(outcome,
		zap.String("unit", res.Unit),
		zap.String("address", res.Address),
		zap.String("key", op.Key),
		zap.String("value", op.Value),
		zap.Int("island", op.Island),
		zap.Int("row", op.Row),
		zap.Int("col", op.Col),
	)
}

// logSummary emits the end-of-run summary record. Every run gets one,
// dry runs included.
func (e *Engine) logSummary(r *Report) {
	attempted, applied, failed := r.Counts()
	e.log.Info("run finished",
		zap.String("status", r.Status.String()),
		zap.Bool("dryrun", r.DryRun),
		zap.Int("units", len(r.Results)),
		zap.Int("attempted", attempted),
		zap.Int("applied", applied),
		zap.Int("failed_units", failed),
	)
}
