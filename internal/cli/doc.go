// Package cli implements the command-line interface for gig-o-download.
//
// The cli package provides the Cobra-based CLI with commands for listing the
// bands a user can access, downloading a band's archived gigs as PDF and JSON,
// flattening downloaded JSON into a CSV and clearing cached data. It loads
// the configuration once per invocation and wires the auth, gigo, catalog,
// export and sheet packages together.
package cli
