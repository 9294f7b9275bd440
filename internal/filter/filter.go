package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/gig-o-download/internal/gig"
)

// Filter represents gig selection criteria
type Filter struct {
	// Inclusive calendar-day bounds; nil means unbounded
	DateFrom *time.Time
	DateTo   *time.Time

	// Gig name filtering (case-insensitive substring match, any of)
	Names []string
}

// NewFilter creates a filter over the inclusive range [from, to]. Either
// bound may be nil.
func NewFilter(from, to *time.Time) *Filter {
	f := &Filter{}
	if from != nil {
		d := gig.Day(*from)
		f.DateFrom = &d
	}
	if to != nil {
		d := gig.Day(*to)
		f.DateTo = &d
	}
	return f
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil && f.DateTo == nil && len(f.Names) == 0
}

// Matches reports whether g passes every active criterion. Bounds compare
// calendar days, so a gig dated on either bound is included.
func (f *Filter) Matches(g *gig.Gig) bool {
	day := gig.Day(g.Date)

	if f.DateFrom != nil && day.Before(gig.Day(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && day.After(gig.Day(*f.DateTo)) {
		return false
	}

	if len(f.Names) > 0 {
		nameLower := strings.ToLower(g.Name)
		for _, n := range f.Names {
			if strings.Contains(nameLower, strings.ToLower(n)) {
				return true
			}
		}
		return false
	}

	return true
}

// Apply returns the gigs that match, preserving order. The input slice is
// never modified.
func (f *Filter) Apply(gigs []*gig.Gig) []*gig.Gig {
	filtered := make([]*gig.Gig, 0, len(gigs))
	for _, g := range gigs {
		if f.Matches(g) {
			filtered = append(filtered, g)
		}
	}
	return filtered
}

// String returns a human-readable description of the active criteria.
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format(gig.DateLayout)))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format(gig.DateLayout)))
	}
	if len(f.Names) > 0 {
		parts = append(parts, fmt.Sprintf("Names: %s", strings.Join(f.Names, ", ")))
	}

	return strings.Join(parts, " | ")
}
