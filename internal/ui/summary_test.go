package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/espeasy-tools/espcfg/internal/engine"
)

// TestRenderReport tests the plain-text report layout
func TestRenderReport(t *testing.T) {
	r := &engine.Report{
		Status: engine.StatusPartial,
		Results: []*engine.UnitResult{
			{Unit: "kitchen", Address: "192.168.1.40", State: engine.StateDone, Attempted: 2, Applied: 2},
			{Unit: "garage", Address: "garage", State: engine.StateFailed, Attempted: 1, Applied: 0,
				Err: errors.New("connection refused")},
			{Unit: "attic", Address: "attic", State: engine.StatePending},
		},
	}

	out := RenderReport(r, false)

	if !strings.Contains(out, "kitchen (192.168.1.40)") {
		t.Errorf("output missing resolved-address form:\n%s", out)
	}
	if !strings.Contains(out, "2/2 applied") {
		t.Errorf("output missing applied counts:\n%s", out)
	}
	if !strings.Contains(out, "connection refused") {
		t.Errorf("output missing failure cause:\n%s", out)
	}
	if !strings.Contains(out, "not attempted") {
		t.Errorf("output missing skipped unit:\n%s", out)
	}
	if !strings.Contains(out, "3 units, 3 operations attempted, 2 applied, 1 units failed") {
		t.Errorf("output missing totals line:\n%s", out)
	}
	if !strings.Contains(out, engine.StatusPartial.String()) {
		t.Errorf("output missing run status:\n%s", out)
	}
}

// TestRenderReportDryRun tests the dry-run banner and per-unit wording
func TestRenderReportDryRun(t *testing.T) {
	r := &engine.Report{
		Status: engine.StatusCompleted,
		DryRun: true,
		Results: []*engine.UnitResult{
			{Unit: "kitchen", Address: "kitchen", State: engine.StateDone, Attempted: 3},
		},
	}

	out := RenderReport(r, false)

	if !strings.Contains(out, "DRY RUN") {
		t.Errorf("output missing dry-run banner:\n%s", out)
	}
	if !strings.Contains(out, "3 would be applied") {
		t.Errorf("output missing would-apply wording:\n%s", out)
	}
}

// TestRenderReportUnstyled tests that plain output carries no ANSI
// escape sequences
func TestRenderReportUnstyled(t *testing.T) {
	r := &engine.Report{
		Status: engine.StatusCompleted,
		Results: []*engine.UnitResult{
			{Unit: "kitchen", Address: "kitchen", State: engine.StateDone, Attempted: 1, Applied: 1},
		},
	}

	if out := RenderReport(r, false); strings.Contains(out, "\x1b[") {
		t.Errorf("unstyled output contains ANSI escapes:\n%q", out)
	}
}

// TestRenderReportInterrupted tests the aborted-mid-unit wording
func TestRenderReportInterrupted(t *testing.T) {
	r := &engine.Report{
		Status: engine.StatusAborted,
		Results: []*engine.UnitResult{
			{Unit: "kitchen", Address: "kitchen", State: engine.StateApplying, Attempted: 3, Applied: 2},
		},
	}

	out := RenderReport(r, false)
	if !strings.Contains(out, "interrupted after 2/3") {
		t.Errorf("output missing interrupted wording:\n%s", out)
	}
}
