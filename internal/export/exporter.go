package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/gig-o-download/internal/gig"
	"github.com/pfrederiksen/gig-o-download/internal/render"
)

// Fetcher returns a gig's detail page and JSON record
type Fetcher interface {
	GigInfoPage(ctx context.Context, gigID string) (string, error)
	GigJSON(ctx context.Context, gigID string) (string, error)
}

// Exporter writes single gigs into an output directory
type Exporter struct {
	fetcher Fetcher
	// tempDir holds the transient HTML pages; empty means os.TempDir()
	tempDir string
}

// NewExporter creates an Exporter backed by fetcher
func NewExporter(fetcher Fetcher) *Exporter {
	return &Exporter{fetcher: fetcher}
}

// PDFPath returns where g's PDF is written inside outDir
func PDFPath(outDir string, g *gig.Gig) string {
	return filepath.Join(outDir, g.FileSafeName()+".pdf")
}

// JSONPath returns where g's JSON record is written inside outDir
func JSONPath(outDir string, g *gig.Gig) string {
	return filepath.Join(outDir, g.FileSafeName()+".json")
}

// DownloadPDF renders g's detail page to a PDF. It returns false without any
// network or driver work when the PDF already exists.
func (e *Exporter) DownloadPDF(ctx context.Context, g *gig.Gig, outDir string, driver render.Driver) (bool, error) {
	path := PDFPath(outDir, g)
	if exists, err := fileExists(path); err != nil || exists {
		return false, err
	}

	page, err := e.fetcher.GigInfoPage(ctx, g.ID)
	if err != nil {
		return false, fmt.Errorf("fetching gig page %s: %w", g.ID, err)
	}

	tmp, err := os.CreateTemp(e.tempDir, "gig-*.html")
	if err != nil {
		return false, fmt.Errorf("creating temp page: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	// The browser reads the file by path, so it must be flushed and closed first.
	if _, err := tmp.WriteString(page); err != nil {
		_ = tmp.Close()
		return false, fmt.Errorf("writing temp page: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("closing temp page: %w", err)
	}

	fileURL, err := FileURL(tmp.Name())
	if err != nil {
		return false, err
	}

	pdf, err := driver.PrintToPDF(ctx, fileURL)
	if err != nil {
		return false, fmt.Errorf("rendering gig %s: %w", g.ID, err)
	}

	if err := os.WriteFile(path, pdf, 0644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

// DownloadJSON writes g's JSON record, indented with two spaces. It returns
// false without any network work when the file already exists.
func (e *Exporter) DownloadJSON(ctx context.Context, g *gig.Gig, outDir string) (bool, error) {
	path := JSONPath(outDir, g)
	if exists, err := fileExists(path); err != nil || exists {
		return false, err
	}

	raw, err := e.fetcher.GigJSON(ctx, g.ID)
	if err != nil {
		return false, fmt.Errorf("fetching gig record %s: %w", g.ID, err)
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, []byte(raw), "", "  "); err != nil {
		return false, fmt.Errorf("parsing gig record %s: %w", g.ID, err)
	}

	if err := os.WriteFile(path, indented.Bytes(), 0644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

// FileURL converts a local path into a file:// URL a browser can load
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	slashed := filepath.ToSlash(abs)
	if !strings.HasPrefix(slashed, "/") {
		// Windows drive paths become file:///C:/...
		slashed = "/" + slashed
	}
	return (&url.URL{Scheme: "file", Path: slashed}).String(), nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking %s: %w", path, err)
}
