// Package sheet flattens a directory of per-gig JSON records into gigs.csv.
package sheet
