package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/pfrederiksen/gig-o-download/internal/calendar"
	"github.com/pfrederiksen/gig-o-download/internal/filter"
	"github.com/pfrederiksen/gig-o-download/internal/gig"
	"github.com/pfrederiksen/gig-o-download/internal/gigo"
	"github.com/pfrederiksen/gig-o-download/internal/logger"
	"github.com/pfrederiksen/gig-o-download/internal/render"
)

// ErrNoGigs is returned when no gig survives filtering
var ErrNoGigs = errors.New("no gigs to download")

var unsafeDirChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// BandResolver finds a band by id or short name
type BandResolver interface {
	ResolveBand(ctx context.Context, idOrShortName string) (*gigo.Band, error)
	GigInfoURL(gigID string) string
}

// GigSource returns a band's date-sorted gigs
type GigSource interface {
	GetGigs(ctx context.Context, bandID string) ([]*gig.Gig, error)
}

// OpenDriverFunc opens a rendering driver for a batch
type OpenDriverFunc func(ctx context.Context, kind render.BrowserKind) (render.Driver, error)

// Request describes one download batch
type Request struct {
	BandQuery string
	Browser   render.BrowserKind
	// Inclusive day bounds; nil leaves that side open
	Start *time.Time
	End   *time.Time
	Names []string
	// Calendar writes gigs.ics for the selected gigs
	Calendar bool
}

// Result summarizes a finished batch
type Result struct {
	Band       *gigo.Band
	OutDir     string
	Total      int
	Downloaded int
	Skipped    int
}

// Downloader exports every selected gig of a band
type Downloader struct {
	bands      BandResolver
	gigs       GigSource
	exporter   *Exporter
	openDriver OpenDriverFunc
	dataDir    string
	out        io.Writer
	progress   Progress
}

// NewDownloader wires a Downloader. Status lines go to out.
func NewDownloader(bands BandResolver, gigs GigSource, exporter *Exporter, openDriver OpenDriverFunc, dataDir string, out io.Writer) *Downloader {
	return &Downloader{
		bands:      bands,
		gigs:       gigs,
		exporter:   exporter,
		openDriver: openDriver,
		dataDir:    dataDir,
		out:        out,
		progress:   NewLineProgress(out),
	}
}

// SetProgress replaces the per-gig progress reporter
func (d *Downloader) SetProgress(p Progress) {
	d.progress = p
}

// OutDir returns the output directory for a band short name
func OutDir(dataDir, shortName string) string {
	return filepath.Join(dataDir, unsafeDirChars.ReplaceAllString(shortName, ""))
}

// Download runs the batch described by req. The first failing gig aborts it.
func (d *Downloader) Download(ctx context.Context, req Request) (*Result, error) {
	band, err := d.bands.ResolveBand(ctx, req.BandQuery)
	if err != nil {
		return nil, err
	}

	gigs, err := d.gigs.GetGigs(ctx, string(band.ID))
	if err != nil {
		return nil, err
	}

	f := filter.NewFilter(req.Start, req.End)
	f.Names = req.Names
	selected := f.Apply(gigs)

	logger.Debug("Filtered gigs", logger.Fields{
		"band":     string(band.ID),
		"filter":   f.String(),
		"catalog":  len(gigs),
		"selected": len(selected),
	})

	if len(selected) == 0 {
		return nil, ErrNoGigs
	}
	logger.SetGauge("gigs.selected", float64(len(selected)))

	fmt.Fprintf(d.out, "Downloading %d gigs...\n", len(selected))

	outDir := OutDir(d.dataDir, band.ShortName)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	driver, err := d.openDriver(ctx, req.Browser)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", req.Browser, err)
	}
	defer func() {
		if err := driver.Close(); err != nil {
			logger.Warn("Failed to close rendering driver", logger.Fields{"error": err.Error()})
		}
	}()

	result := &Result{Band: band, OutDir: outDir, Total: len(selected)}
	for _, g := range selected {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		downloaded, err := d.exportGig(ctx, g, outDir, driver)
		if err != nil {
			return result, err
		}
		if downloaded {
			result.Downloaded++
		} else {
			result.Skipped++
		}
	}

	if req.Calendar {
		if err := d.writeCalendar(band, selected, outDir); err != nil {
			return result, err
		}
	}

	logger.Debug("Download complete", logger.Fields{
		"out_dir":    outDir,
		"downloaded": result.Downloaded,
		"skipped":    result.Skipped,
		"metrics":    logger.GetMetricsSnapshot(),
	})
	return result, nil
}

// exportGig writes both files for g and reports whether either was new
func (d *Downloader) exportGig(ctx context.Context, g *gig.Gig, outDir string, driver render.Driver) (bool, error) {
	start := time.Now()
	d.progress.Begin(g)

	pdf, err := d.exporter.DownloadPDF(ctx, g, outDir, driver)
	if err != nil {
		d.progress.Fail(g)
		return false, err
	}
	record, err := d.exporter.DownloadJSON(ctx, g, outDir)
	if err != nil {
		d.progress.Fail(g)
		return false, err
	}

	downloaded := pdf || record
	d.progress.End(g, downloaded)

	if downloaded {
		logger.IncrCounter("gigs.downloaded")
		logger.RecordTiming("gig.export", time.Since(start))
	} else {
		logger.IncrCounter("gigs.skipped")
	}
	return downloaded, nil
}

func (d *Downloader) writeCalendar(band *gigo.Band, gigs []*gig.Gig, outDir string) error {
	name := band.Name
	if name == "" {
		name = band.ShortName
	}

	path := filepath.Join(outDir, calendar.FileName)
	ics := calendar.GenerateICS(name, gigs, d.bands.GigInfoURL)
	if err := os.WriteFile(path, []byte(ics), 0644); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}

	fmt.Fprintf(d.out, "Created calendar at %s\n", path)
	return nil
}
