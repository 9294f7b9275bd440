package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/gig-o-download/internal/catalog"
	"github.com/pfrederiksen/gig-o-download/internal/export"
	"github.com/pfrederiksen/gig-o-download/internal/gig"
	"github.com/pfrederiksen/gig-o-download/internal/logger"
	"github.com/pfrederiksen/gig-o-download/internal/render"
	"github.com/pfrederiksen/gig-o-download/internal/sheet"
	"github.com/pfrederiksen/gig-o-download/internal/storage"
)

func (a *app) listCmd() *cobra.Command {
	var sortOrder string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the bands the user has access to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := parseSortOrder(sortOrder)
			if err != nil {
				return err
			}

			bands, err := a.client().Bands(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing bands: %w", err)
			}

			sortBands(bands, order)
			writeBands(a.out, bands, a.styles)
			return nil
		},
	}

	cmd.Flags().StringVar(&sortOrder, "sort", "", "Sort bands by: name or id (default: service order)")
	return cmd
}

func (a *app) downloadCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
		browser   string
		names     []string
		writeICS  bool
	)

	cmd := &cobra.Command{
		Use:   "download <band id or short name>",
		Short: "Download archived gig info",
		Long: `Download archived gig info. Creates PDFs of archived gigs for browsing and
JSON files containing the raw database records. Gigs already downloaded are
skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if browser == "" {
				browser = a.cfg.Browser
			}
			kind, err := render.ParseBrowserKind(browser)
			if err != nil {
				return err
			}

			start, err := parseOptionalDate(startDate)
			if err != nil {
				return err
			}
			end, err := parseOptionalDate(endDate)
			if err != nil {
				return err
			}
			if end == nil {
				today := gig.Day(time.Now())
				end = &today
			}

			store, err := storage.New(a.cfg.CacheDir)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}

			client := a.client()
			builder := catalog.NewBuilder(client, store, a.out)
			downloader := export.NewDownloader(client, builder, export.NewExporter(client), a.driverOpener(), a.cfg.DataDir, a.out)

			progress := export.NewLineProgress(a.out)
			progress.SkippedLabel = " " + a.styles.skipped.Render("(skipped)")
			downloader.SetProgress(progress)

			result, err := downloader.Download(cmd.Context(), export.Request{
				BandQuery: args[0],
				Browser:   kind,
				Start:     start,
				End:       end,
				Names:     names,
				Calendar:  writeICS,
			})
			if err != nil {
				return err
			}

			logger.Info("Download finished", logger.Fields{
				"band":       result.Band.ShortName,
				"out_dir":    result.OutDir,
				"downloaded": result.Downloaded,
				"skipped":    result.Skipped,
			})
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&startDate, "start-date", "s", "", "The earliest day of gigs to include (YYYY-MM-DD)")
	flags.StringVarP(&endDate, "end-date", "e", "", "The latest day of gigs to include (YYYY-MM-DD). Defaults to today")
	flags.StringVarP(&browser, "browser", "b", "", fmt.Sprintf(
		"The browser used to generate PDFs: %s. Chrome and ChromiumEdge tend to be faster; Firefox tends to produce smaller files (default from config, else %s)",
		render.KindNames(), render.Firefox))
	flags.StringArrayVar(&names, "name", nil, "Only include gigs whose name contains this text (repeatable)")
	flags.BoolVar(&writeICS, "ics", false, "Also write a gigs.ics calendar of the selected gigs")
	return cmd
}

func (a *app) makeCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "make-csv <out dir>",
		Short: "Combine downloaded gigs' JSON files into a single CSV",
		Long: `Combine and convert downloaded gigs' raw JSON files into a single CSV file
suitable for searching and analysis. The generated file can be opened in
Microsoft Excel or uploaded to Google Sheets.

<out dir> is a band directory under the data directory, or a path.`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 || a.cfg.DataDir == "" {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			dirs, _ := outDirs(a.cfg.DataDir)
			return dirs, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveOutDir(a.cfg.DataDir, args[0])
			if err != nil {
				return err
			}

			path, err := sheet.MakeCSV(dir)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Created CSV file at %s\n", path)
			return nil
		},
	}
}

func (a *app) clearCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Clear cached data, including the auth cookie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.Clear(a.cfg.CacheDir); err != nil {
				return err
			}
			logger.Info("Cleared cache", logger.Fields{"cache_dir": a.cfg.CacheDir})
			return nil
		},
	}
}

func parseOptionalDate(text string) (*time.Time, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	d, err := gig.ParseDate(text)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// resolveOutDir maps a make-csv argument to a directory: a band directory
// under dataDir first, then the argument as a path
func resolveOutDir(dataDir, name string) (string, error) {
	candidates := []string{name}
	if !filepath.IsAbs(name) {
		candidates = []string{filepath.Join(dataDir, name), name}
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c, nil
		}
	}

	dirs, err := outDirs(dataDir)
	if err != nil || len(dirs) == 0 {
		return "", fmt.Errorf("output directory %q not found", name)
	}
	return "", fmt.Errorf("output directory %q not found (choose from: %s)", name, strings.Join(dirs, ", "))
}

// outDirs lists the band directories under dataDir
func outDirs(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}
