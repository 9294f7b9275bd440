package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pfrederiksen/gig-o-download/internal/logger"
)

// FileName is the CSV written into the record directory
const FileName = "gigs.csv"

// ErrNoRecords is returned when the directory has no JSON records
var ErrNoRecords = errors.New("no JSON records found")

// fixup rewrites characters spreadsheet tools mishandle. It runs on each
// cell before encoding so the rewritten newlines end up quoted.
var fixup = strings.NewReplacer(
	"\u2028", "\n",
	"\u2029", "\n",
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
)

// MakeCSV writes dir/gigs.csv from every *.json file in dir and returns its
// path. Columns come from the first record's keys in document order; rows
// follow file name order.
func MakeCSV(dir string) (string, error) {
	files, err := recordFiles(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoRecords, dir)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	var header []string
	for i, file := range files {
		record, err := readRecord(file)
		if err != nil {
			return "", err
		}

		if i == 0 {
			header = keys(record)
			if len(header) == 0 {
				return "", fmt.Errorf("%w: %s has no fields", ErrNoRecords, filepath.Base(file))
			}
			if err := w.Write(header); err != nil {
				return "", fmt.Errorf("writing csv header: %w", err)
			}
		}

		if extra := extraKeys(record, header); len(extra) > 0 {
			logger.Warn("Ignoring fields missing from the CSV header", logger.Fields{
				"file":   filepath.Base(file),
				"fields": strings.Join(extra, ","),
			})
		}

		if err := w.Write(row(record, header)); err != nil {
			return "", fmt.Errorf("writing csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("writing csv: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	logger.Info("Created CSV", logger.Fields{"path": path, "records": len(files)})
	return path, nil
}

// recordFiles lists the JSON files in dir, sorted by name
func recordFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

func readRecord(path string) (gjson.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("parsing %s: invalid JSON", filepath.Base(path))
	}

	record := gjson.ParseBytes(data)
	if !record.IsObject() {
		return gjson.Result{}, fmt.Errorf("parsing %s: not a JSON object", filepath.Base(path))
	}
	return record, nil
}

func keys(record gjson.Result) []string {
	var out []string
	record.ForEach(func(key, _ gjson.Result) bool {
		out = append(out, key.String())
		return true
	})
	return out
}

func extraKeys(record gjson.Result, header []string) []string {
	known := make(map[string]bool, len(header))
	for _, h := range header {
		known[h] = true
	}

	var extra []string
	record.ForEach(func(key, _ gjson.Result) bool {
		if !known[key.String()] {
			extra = append(extra, key.String())
		}
		return true
	})
	return extra
}

// row renders header's values from record. Missing keys and nulls are
// empty; strings are unquoted; everything else keeps its JSON text.
func row(record gjson.Result, header []string) []string {
	values := make(map[string]gjson.Result, len(header))
	record.ForEach(func(key, value gjson.Result) bool {
		values[key.String()] = value
		return true
	})

	cells := make([]string, len(header))
	for i, h := range header {
		v, ok := values[h]
		if !ok {
			continue
		}
		switch v.Type {
		case gjson.Null:
		case gjson.String:
			cells[i] = fixup.Replace(v.String())
		default:
			cells[i] = fixup.Replace(v.Raw)
		}
	}
	return cells
}
