// Package export writes a band's gigs to disk.
//
// Each gig becomes two files named after gig.Gig.FileSafeName: a PDF printed
// from the gig's detail page and the gig's JSON record indented with two
// spaces. An existing file is never overwritten, so re-running a download
// only fetches what is missing.
//
// Downloader runs a whole batch: band resolution, catalog lookup, date
// filtering, one rendering driver for every gig and an optional calendar.
package export
