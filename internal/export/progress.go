package export

import (
	"fmt"
	"io"

	"github.com/pfrederiksen/gig-o-download/internal/gig"
)

// nameColumn is the width gig names are padded to on progress lines
const nameColumn = 80

// Progress receives per-gig status while a batch runs
type Progress interface {
	Begin(g *gig.Gig)
	End(g *gig.Gig, downloaded bool)
	// Fail terminates the current line after an export error
	Fail(g *gig.Gig)
}

// LineProgress prints one padded line per gig, suffixed when nothing was new
type LineProgress struct {
	out          io.Writer
	SkippedLabel string
}

// NewLineProgress creates a LineProgress writing to out
func NewLineProgress(out io.Writer) *LineProgress {
	return &LineProgress{out: out, SkippedLabel: " (skipped)"}
}

func (p *LineProgress) Begin(g *gig.Gig) {
	fmt.Fprintf(p.out, "%-*s", nameColumn, g.FileSafeName())
}

func (p *LineProgress) End(g *gig.Gig, downloaded bool) {
	if downloaded {
		fmt.Fprintln(p.out)
		return
	}
	fmt.Fprintln(p.out, p.SkippedLabel)
}

func (p *LineProgress) Fail(g *gig.Gig) {
	fmt.Fprintln(p.out)
}
