// Package gig provides the data model for archived Gig-o-Matic gigs.
//
// A Gig is identified by the opaque id the remote service assigns it, and is
// written to disk under a file-safe name derived from its date and title. The
// package also parses the archive listing's date format and keeps gig lists
// in date order.
package gig
