package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/hedgehq/sitenodes/internal/core/ports/driving"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
)

// isTerminal reports whether stdout is a TTY; summaries go uncoloured
// into build logs.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// renderSummary formats the pass summary as a small table.
func renderSummary(summary *driving.PassSummary, coloured bool) string {
	style := func(s lipgloss.Style, text string) string {
		if !coloured {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	b.WriteString(style(headerStyle, fmt.Sprintf("%-22s %8s %8s %10s %8s  %s",
		"FEED", "CREATED", "UPDATED", "UNCHANGED", "SKIPPED", "STATUS")))
	b.WriteString("\n")

	total := 0
	for _, f := range summary.Feeds {
		status := style(okStyle, "ok")
		if f.Err != nil {
			status = style(failStyle, "failed: "+f.Err.Error())
		}
		b.WriteString(fmt.Sprintf("%-22s %8d %8d %10d %8d  %s\n",
			f.Feed, f.Created, f.Updated, f.Unchanged, f.Skipped, status))
		total += f.Nodes()
	}

	b.WriteString(style(mutedStyle, fmt.Sprintf("%d nodes sourced\n", total)))
	return b.String()
}
