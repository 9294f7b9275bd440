package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pfrederiksen/gig-o-download/internal/gig"
)

const catalogFile = "gigs.json"

// Storage handles persistence of the cached gig catalog
type Storage struct {
	cacheDir string
}

// CatalogEntry is one gig as written to the cache file
type CatalogEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
}

// Catalog is the cached gig list of one band
type Catalog struct {
	BandID    string         `json:"band_id"`
	Gigs      []CatalogEntry `json:"gigs"`
	UpdatedAt string         `json:"updated_at,omitempty"`
}

// NewCatalog builds a cache record for bandID from gigs
func NewCatalog(bandID string, gigs []*gig.Gig) *Catalog {
	entries := make([]CatalogEntry, 0, len(gigs))
	for _, g := range gigs {
		entries = append(entries, CatalogEntry{
			ID:   g.ID,
			Name: g.Name,
			Date: g.Date.Format(gig.DateLayout),
		})
	}
	return &Catalog{BandID: bandID, Gigs: entries}
}

// ToGigs decodes the cached entries, sorted ascending by date
func (c *Catalog) ToGigs() ([]*gig.Gig, error) {
	gigs := make([]*gig.Gig, 0, len(c.Gigs))
	for _, e := range c.Gigs {
		date, err := gig.ParseDate(e.Date)
		if err != nil {
			return nil, fmt.Errorf("gig %s: %w", e.ID, err)
		}
		gigs = append(gigs, gig.New(e.ID, e.Name, date))
	}
	gig.SortByDate(gigs)
	return gigs, nil
}

// New creates a Storage rooted at cacheDir, creating the directory if needed
func New(cacheDir string) (*Storage, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	return &Storage{
		cacheDir: cacheDir,
	}, nil
}

// CatalogPath returns the path to the catalog cache file
func (s *Storage) CatalogPath() string {
	return filepath.Join(s.cacheDir, catalogFile)
}

// LoadCatalog reads the cached catalog. It returns nil and no error when
// nothing is cached.
func (s *Storage) LoadCatalog() (*Catalog, error) {
	data, err := os.ReadFile(s.CatalogPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return &catalog, nil
}

// SaveCatalog writes the catalog cache file
func (s *Storage) SaveCatalog(catalog *Catalog) error {
	catalog.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}

	if err := os.WriteFile(s.CatalogPath(), data, 0644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	return nil
}

// RemoveCatalog deletes the catalog cache file. A missing file is not an error.
func (s *Storage) RemoveCatalog() error {
	if err := os.Remove(s.CatalogPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing catalog: %w", err)
	}
	return nil
}

// Clear deletes the whole cache directory tree, including the auth token.
func Clear(cacheDir string) error {
	if err := os.RemoveAll(cacheDir); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}
