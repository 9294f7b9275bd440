package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/gig-o-download/internal/gig"
)

// FileName is the calendar written next to a band's downloaded gigs
const FileName = "gigs.ics"

// maxLineOctets is the RFC 5545 content line limit before folding
const maxLineOctets = 75

// URLFunc returns the detail page address for a gig id
type URLFunc func(gigID string) string

// GenerateICS generates an iCalendar (.ics) document with one all-day event
// per gig. infoURL may be nil.
func GenerateICS(bandName string, gigs []*gig.Gig, infoURL URLFunc) string {
	var ics strings.Builder
	stamp := formatICSTime(time.Now())

	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:-//Gig-o-Download//gig-o-download//EN")
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")
	writeLine(&ics, "X-WR-CALNAME:"+escapeICS(bandName))

	for _, g := range gigs {
		day := gig.Day(g.Date)

		writeLine(&ics, "BEGIN:VEVENT")
		writeLine(&ics, fmt.Sprintf("UID:%s@gig-o-matic.com", g.ID))
		writeLine(&ics, "DTSTAMP:"+stamp)
		writeLine(&ics, "DTSTART;VALUE=DATE:"+formatICSDate(day))
		writeLine(&ics, "DTEND;VALUE=DATE:"+formatICSDate(day.AddDate(0, 0, 1)))
		writeLine(&ics, "SUMMARY:"+escapeICS(g.Name))
		if bandName != "" {
			writeLine(&ics, "DESCRIPTION:"+escapeICS(bandName+" - "+g.Name))
		}
		if infoURL != nil {
			writeLine(&ics, "URL:"+infoURL(g.ID))
		}
		writeLine(&ics, "TRANSP:TRANSPARENT")
		writeLine(&ics, "END:VEVENT")
	}

	writeLine(&ics, "END:VCALENDAR")
	return ics.String()
}

// writeLine writes one CRLF-terminated content line, folding it at 75 octets
// without splitting a UTF-8 sequence.
func writeLine(b *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !isRuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		// continuation lines carry a leading space
		limit = maxLineOctets - 1
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

func isRuneStart(c byte) bool {
	return c&0xC0 != 0x80
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
