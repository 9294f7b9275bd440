package gig

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ArchiveDateLayout is the MM/DD/YY form shown on the band gig archive page.
const ArchiveDateLayout = "01/02/06"

// ParseArchiveDate parses a date as displayed in the archive listing.
func ParseArchiveDate(text string) (time.Time, error) {
	t, err := time.Parse(ArchiveDateLayout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing archive date %q: %w", text, err)
	}
	return t, nil
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(text string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", text, err)
	}
	return t, nil
}

// SortByDate sorts gigs ascending by date. Gigs on the same day keep their
// relative order.
func SortByDate(gigs []*Gig) {
	sort.SliceStable(gigs, func(i, j int) bool {
		return gigs[i].Date.Before(gigs[j].Date)
	})
}
