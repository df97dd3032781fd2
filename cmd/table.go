package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/inovacc/repodeck/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	draftStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	privateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	countStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const maxDescription = 50

// printRepoTable writes repositories as an aligned table. Drafts show
// "(draft)" in the owner column.
func printRepoTable(w io.Writer, list []model.Repository) {
	if len(list) == 0 {
		_, _ = fmt.Fprintln(w, "No repositories found.")
		return
	}

	maxName, maxOwner, maxLang := 10, 7, 8

	for _, r := range list {
		maxName = max(maxName, len([]rune(r.Name)))
		maxOwner = max(maxOwner, len([]rune(model.StringValue(r.Owner))))
		maxLang = max(maxLang, len([]rune(model.StringValue(r.Language))))
	}

	_, _ = fmt.Fprintf(w, "%s  %s  %s  %s  %s  %s\n",
		headerStyle.Render(padRight("NAME", maxName)),
		headerStyle.Render(padRight("OWNER", maxOwner)),
		headerStyle.Render(padRight("VISIBILITY", 10)),
		headerStyle.Render(padRight("LANGUAGE", maxLang)),
		headerStyle.Render(padRight("STARS", 5)),
		headerStyle.Render("DESCRIPTION"),
	)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", maxName+maxOwner+maxLang+40))

	for _, r := range list {
		owner := dimStyle.Render(padRight("(draft)", maxOwner))
		if !r.IsDraft() {
			owner = padRight(*r.Owner, maxOwner)
		}

		visibility := padRight("public", 10)
		if r.Private {
			visibility = privateStyle.Render(padRight("private", 10))
		}

		name := padRight(r.Name, maxName)
		if r.IsDraft() {
			name = draftStyle.Render(name)
		}

		_, _ = fmt.Fprintf(w, "%s  %s  %s  %s  %s  %s\n",
			name,
			owner,
			visibility,
			padRight(model.StringValue(r.Language), maxLang),
			countStyle.Render(padRight(fmt.Sprintf("%d", r.Stars), 5)),
			truncateString(model.StringValue(r.Description), maxDescription),
		)
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Total: %d repositories\n", len(list))
}
