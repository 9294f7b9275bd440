package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/gig-o-download/internal/gigo"
)

// SortOrder represents the available band listing orders
type SortOrder string

const (
	SortNone   SortOrder = ""
	SortByName SortOrder = "name"
	SortByID   SortOrder = "id"
)

func parseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case SortNone, SortByName, SortByID:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'name' or 'id')", s)
	}
}

// sortBands sorts bands in place; SortNone keeps the service's order
func sortBands(bands []gigo.Band, order SortOrder) {
	switch order {
	case SortByName:
		sort.SliceStable(bands, func(i, j int) bool {
			return strings.ToLower(bands[i].ShortName) < strings.ToLower(bands[j].ShortName)
		})
	case SortByID:
		sort.SliceStable(bands, func(i, j int) bool {
			return compareIDs(string(bands[i].ID), string(bands[j].ID))
		})
	}
}

// compareIDs orders numeric ids numerically and everything else lexically
func compareIDs(a, b string) bool {
	if len(a) != len(b) && isDigits(a) && isDigits(b) {
		return len(a) < len(b)
	}
	return a < b
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
