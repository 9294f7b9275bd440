package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/gig-o-download/internal/gig"
)

// RowSelector matches one gig row inside the archive listing.
const RowSelector = "div.row div.row"

const gigKeyParam = "gk="

// ParseArchive extracts the gigs listed on an archive page, sorted by date.
func ParseArchive(r io.Reader) ([]*gig.Gig, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	gigs := make([]*gig.Gig, 0)
	var rowErr error

	doc.Find(RowSelector).EachWithBreak(func(i int, row *goquery.Selection) bool {
		g, err := parseRow(row)
		if err != nil {
			rowErr = fmt.Errorf("archive row %d: %w", i, err)
			return false
		}
		gigs = append(gigs, g)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	gig.SortByDate(gigs)
	return gigs, nil
}

// parseRow reads the gig id and name from the row's first anchor and the
// date from its first nested division
func parseRow(row *goquery.Selection) (*gig.Gig, error) {
	anchor := row.Find("a").First()
	if anchor.Length() == 0 {
		return nil, fmt.Errorf("no gig link")
	}

	href, ok := anchor.Attr("href")
	if !ok {
		return nil, fmt.Errorf("gig link has no href")
	}
	id, err := gigKey(href)
	if err != nil {
		return nil, err
	}

	dateDiv := row.Find("div").First()
	if dateDiv.Length() == 0 {
		return nil, fmt.Errorf("no date for gig %s", id)
	}
	date, err := gig.ParseArchiveDate(dateDiv.Text())
	if err != nil {
		return nil, err
	}

	return gig.New(id, strings.TrimSpace(anchor.Text()), date), nil
}

// gigKey returns everything after the first "gk=" in href
func gigKey(href string) (string, error) {
	idx := strings.Index(href, gigKeyParam)
	if idx < 0 {
		return "", fmt.Errorf("gig link %q has no %s parameter", href, gigKeyParam)
	}
	return href[idx+len(gigKeyParam):], nil
}
