// Package scraper parses the Gig-o-Matic band gig archive page.
//
// The archive lists one gig per nested ".row" element: an anchor linking to
// the gig's info page (carrying the gig key in a gk= query parameter) and a
// division holding the date as MM/DD/YY. The page layout is assumed stable,
// so a row of any other shape is reported as an error rather than skipped.
package scraper
