// Package ui renders the end-of-run report for the terminal.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/espeasy-tools/espcfg/internal/engine"
)

// Color palette for run summaries
var (
	SuccessColor = lipgloss.Color("#43BF6D")
	ErrorColor   = lipgloss.Color("#FF5555")
	WarningColor = lipgloss.Color("#FFA500")
	MutedColor   = lipgloss.Color("#626262")
)

var (
	// TitleStyle is for the summary heading line
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// OKStyle marks successful units and the success status
	OKStyle = lipgloss.NewStyle().Foreground(SuccessColor)

	// FailStyle marks failed units and failing statuses
	FailStyle = lipgloss.NewStyle().Foreground(ErrorColor)

	// SkipStyle marks units that were never attempted
	SkipStyle = lipgloss.NewStyle().Foreground(MutedColor)

	// DryRunStyle marks the dry-run banner
	DryRunStyle = lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
)

// IsTerminal reports whether stdout is an interactive terminal.
// Non-terminal output gets plain text.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// RenderReport formats a run report. When styled is false the output
// is plain text suitable for pipes and CI logs.
func RenderReport(r *engine.Report, styled bool) string {
	var sb strings.Builder

	style := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	if r.DryRun {
		sb.WriteString(style(DryRunStyle, "DRY RUN: no changes were applied"))
		sb.WriteString("\n")
	}

	for _, res := range r.Results {
		var mark, detail string
		switch res.State {
		case engine.StateDone:
			mark = style(OKStyle, "✓")
			detail = fmt.Sprintf("%d/%d applied", res.Applied, res.Attempted)
			if r.DryRun {
				detail = fmt.Sprintf("%d would be applied", res.Attempted)
			}
		case engine.StateFailed:
			mark = style(FailStyle, "✗")
			detail = fmt.Sprintf("%d/%d applied, error: %v", res.Applied, res.Attempted, res.Err)
		case engine.StatePending:
			mark = style(SkipStyle, "-")
			detail = "not attempted"
		default:
			mark = style(SkipStyle, "…")
			detail = fmt.Sprintf("interrupted after %d/%d", res.Applied, res.Attempted)
		}

		unit := res.Unit
		if res.Address != "" && res.Address != res.Unit {
			unit = fmt.Sprintf("%s (%s)", res.Unit, res.Address)
		}
		fmt.Fprintf(&sb, "  %s %-30s %s\n", mark, unit, detail)
	}

	attempted, applied, failed := r.Counts()
	statusStyle := OKStyle
	if r.Status != engine.StatusCompleted {
		statusStyle = FailStyle
	}
	sb.WriteString(style(TitleStyle, fmt.Sprintf("%d units, %d operations attempted, %d applied, %d units failed",
		len(r.Results), attempted, applied, failed)))
	sb.WriteString(" => ")
	sb.WriteString(style(statusStyle, r.Status.String()))
	sb.WriteString("\n")

	return sb.String()
}
