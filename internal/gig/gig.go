package gig

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date form used in file names and the catalog cache.
const DateLayout = "2006-01-02"

var (
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9 ,.-]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Gig represents one archived band event
type Gig struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

// New creates a Gig, truncating date to a calendar day in UTC
func New(id, name string, date time.Time) *Gig {
	return &Gig{
		ID:   id,
		Name: name,
		Date: Day(date),
	}
}

// FileSafeName returns the base file name used for the gig's PDF and JSON
// files: the ISO date, a space, then the name with everything outside
// [A-Za-z0-9 ,.-] removed. Whitespace runs collapse to a single space.
//
// Two gigs with the same date and name produce the same file name.
func (g *Gig) FileSafeName() string {
	name := g.Date.Format(DateLayout) + " " + unsafeChars.ReplaceAllString(g.Name, "")
	return strings.TrimSpace(whitespace.ReplaceAllString(name, " "))
}

// Day truncates t to midnight UTC of its calendar date
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
