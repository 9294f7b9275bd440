// Package catalog builds a band's list of archived gigs, using the local
// cache when it was built for the same band.
package catalog
