// Package filter narrows a band's gig catalog to the gigs a download should cover.
//
// Filters are built from command-line flags: an inclusive date range (either
// bound optional) and optional case-insensitive name substrings.
package filter
