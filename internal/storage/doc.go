// Package storage provides JSON-based persistence for the gig catalog cache.
//
// The catalog of a band's archived gigs is kept in gigs.json inside the cache
// directory, tagged with the band id it was built for. Only one band's
// catalog is cached at a time.
package storage
