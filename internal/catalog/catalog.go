package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/gig-o-download/internal/gig"
	"github.com/pfrederiksen/gig-o-download/internal/logger"
	"github.com/pfrederiksen/gig-o-download/internal/scraper"
	"github.com/pfrederiksen/gig-o-download/internal/storage"
)

// ArchiveSource returns the HTML archive listing for a band
type ArchiveSource interface {
	ArchivePage(ctx context.Context, bandID string) (string, error)
}

// Builder produces date-sorted gig catalogs
type Builder struct {
	source ArchiveSource
	store  *storage.Storage
	out    io.Writer
}

// NewBuilder creates a Builder; progress messages are written to out
func NewBuilder(source ArchiveSource, store *storage.Storage, out io.Writer) *Builder {
	return &Builder{
		source: source,
		store:  store,
		out:    out,
	}
}

// GetGigs returns bandID's gigs sorted ascending by date. A cached catalog
// for the same band is used without network access; a catalog cached for a
// different band is discarded and rebuilt from the archive page.
func (b *Builder) GetGigs(ctx context.Context, bandID string) ([]*gig.Gig, error) {
	cached, err := b.store.LoadCatalog()
	if err != nil {
		return nil, err
	}

	if cached != nil {
		if cached.BandID == bandID {
			fmt.Fprintln(b.out, "Using cached gigs list...")
			return cached.ToGigs()
		}

		logger.Debug("Discarding catalog cached for another band", logger.Fields{
			"cached_band": cached.BandID,
			"band":        bandID,
		})
		if err := b.store.RemoveCatalog(); err != nil {
			return nil, err
		}
	}

	fmt.Fprintln(b.out, "Fetching gigs list...")
	page, err := b.source.ArchivePage(ctx, bandID)
	if err != nil {
		return nil, fmt.Errorf("fetching gig archive: %w", err)
	}

	gigs, err := scraper.ParseArchive(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parsing gig archive: %w", err)
	}

	if err := b.store.SaveCatalog(storage.NewCatalog(bandID, gigs)); err != nil {
		return nil, err
	}

	logger.Info("Built gig catalog", logger.Fields{
		"band": bandID,
		"gigs": len(gigs),
	})
	return gigs, nil
}
