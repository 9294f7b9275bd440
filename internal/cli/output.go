package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pfrederiksen/gig-o-download/internal/gigo"
)

// styles are bound to the output writer so plain text is produced when it is
// not a terminal
type styles struct {
	header  lipgloss.Style
	rule    lipgloss.Style
	skipped lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header:  r.NewStyle().Bold(true),
		rule:    r.NewStyle().Faint(true),
		skipped: r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// writeBands prints the accessible bands as a short-name / id table
func writeBands(w io.Writer, bands []gigo.Band, st styles) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "You have access to these bands:")
	fmt.Fprintln(w, st.header.Render(fmt.Sprintf("    %-15s%s", "name", "id")))
	fmt.Fprintln(w, st.rule.Render(strings.Repeat("-", 100)))
	for _, b := range bands {
		fmt.Fprintf(w, "    %-15s%s\n", b.ShortName, b.ID)
	}
	fmt.Fprintln(w)
}
