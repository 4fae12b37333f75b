package gemini

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fortuna/courtvision/internal/trends"
)

// BuildPrompt composes the single prompt string sent to the model: a fixed
// instruction, the trend table and injury map rendered as plain text, then
// the user's question.
func BuildPrompt(report trends.Report, injuries map[string]string, question string) string {
	var b strings.Builder

	b.WriteString("You are CourtVision, an NBA scoring-trends assistant. ")
	b.WriteString("Answer the question using only the context below. ")
	b.WriteString("If the context does not cover the question, say so.\n\n")

	b.WriteString("=== SCORING TRENDS (sorted by trend delta) ===\n")
	b.WriteString(renderReport(report))

	b.WriteString("\n=== INJURY REPORT ===\n")
	b.WriteString(renderInjuries(injuries))

	b.WriteString("\n=== QUESTION ===\n")
	b.WriteString(question)
	b.WriteString("\n")

	return b.String()
}

func renderReport(report trends.Report) string {
	if len(report.Rows) == 0 {
		return "(no trend data available)\n"
	}

	var b strings.Builder
	b.WriteString(strings.Join(report.Columns, " | "))
	b.WriteString("\n")
	for _, row := range report.Rows {
		fmt.Fprintf(&b, "%s | %s | %.1f | %.1f | %+.1f | %s\n",
			row.Player, row.Matchup, row.SeasonPPG, row.Last5PPG, row.Delta, row.Status)
	}
	return b.String()
}

func renderInjuries(injuries map[string]string) string {
	if len(injuries) == 0 {
		return "(no injury data available)\n"
	}

	names := make([]string, 0, len(injuries))
	for name := range injuries {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s: %s\n", name, injuries[name])
	}
	return b.String()
}
