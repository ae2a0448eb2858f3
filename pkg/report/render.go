package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// WriteJSON writes r as indented JSON followed by a newline.
func WriteJSON(w io.Writer, r Report) error {
	if r.Entries == nil {
		r.Entries = []Entry{}
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// TextOptions configures WriteText.
type TextOptions struct {
	// NoColor disables styling even on a terminal.
	NoColor bool
	// Durations appends each entry's duration.
	Durations bool
}

type textStyles struct {
	passed  lipgloss.Style
	failed  lipgloss.Style
	skipped lipgloss.Style
	detail  lipgloss.Style
	summary lipgloss.Style
}

func newTextStyles(w io.Writer, noColor bool) textStyles {
	if noColor {
		plain := lipgloss.NewStyle()
		return textStyles{passed: plain, failed: plain, skipped: plain, detail: plain, summary: plain}
	}
	r := lipgloss.NewRenderer(w)
	return textStyles{
		passed:  r.NewStyle().Foreground(lipgloss.Color("2")),
		failed:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		skipped: r.NewStyle().Foreground(lipgloss.Color("3")),
		detail:  r.NewStyle().Faint(true),
		summary: r.NewStyle().Bold(true),
	}
}

// WriteText writes r as an indented tree, one line per entry, with failure
// details under the failing entry and a summary line at the end.
//
//	✓ Calculator
//	  ✓ adds
//	  ✗ divides
//	      division by zero
//	      suppressed: cleanup failed
//	  ○ later (disabled)
func WriteText(w io.Writer, r Report, opts TextOptions) error {
	st := newTextStyles(w, opts.NoColor)

	var b strings.Builder
	for _, e := range r.Entries {
		indent := strings.Repeat("  ", e.Depth())

		var glyph string
		switch e.Status {
		case StatusPassed:
			glyph = st.passed.Render("✓")
		case StatusFailed:
			glyph = st.failed.Render("✗")
		case StatusBuildFailed:
			glyph = st.failed.Render("!")
		case StatusSkipped:
			glyph = st.skipped.Render("○")
		default:
			glyph = "?"
		}

		line := indent + glyph + " " + e.Name
		switch {
		case e.Status == StatusSkipped && e.Reason != "":
			line += " " + st.skipped.Render("("+e.Reason+")")
		case e.Status == StatusBuildFailed:
			line += " " + st.failed.Render("(build failed)")
		}
		if opts.Durations && e.Status != StatusSkipped && e.Status != StatusBuildFailed {
			line += " " + st.detail.Render("("+e.Duration.String()+")")
		}
		b.WriteString(line)
		b.WriteByte('\n')

		if e.Detail != nil {
			pad := indent + "    "
			b.WriteString(pad + st.detail.Render(e.Detail.Primary) + "\n")
			for _, s := range e.Detail.Suppressed {
				b.WriteString(pad + st.detail.Render("suppressed: "+s) + "\n")
			}
		}
	}

	s := r.Summary
	b.WriteByte('\n')
	b.WriteString(st.summary.Render(fmt.Sprintf(
		"%d passed, %d failed, %d skipped, %d build failed (%d tests)",
		s.Passed, s.Failed, s.Skipped, s.BuildFailed, s.Tests,
	)))
	b.WriteByte('\n')

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
