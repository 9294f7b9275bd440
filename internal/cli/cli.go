package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/gig-o-download/internal/auth"
	"github.com/pfrederiksen/gig-o-download/internal/config"
	"github.com/pfrederiksen/gig-o-download/internal/crypto"
	"github.com/pfrederiksen/gig-o-download/internal/export"
	"github.com/pfrederiksen/gig-o-download/internal/gigo"
	"github.com/pfrederiksen/gig-o-download/internal/logger"
	"github.com/pfrederiksen/gig-o-download/internal/render"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// app carries the I/O streams, flag values and loaded configuration shared by
// every command of one invocation
type app struct {
	in     *os.File
	out    io.Writer
	errOut io.Writer

	configPath string
	cacheDir   string
	dataDir    string
	verbose    bool

	cfg    config.Config
	styles styles

	// openDriver overrides browser construction; nil uses render.New
	openDriver export.OpenDriverFunc
}

func newApp(in *os.File, out, errOut io.Writer) *app {
	return &app{
		in:     in,
		out:    out,
		errOut: errOut,
		styles: newStyles(out),
	}
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newApp(os.Stdin, os.Stdout, os.Stderr).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gig-o-download",
		Short: "Download archived gig info from Gig-o-Matic version 2",
		Long: `Downloads archived gig info from Gig-o-Matic version 2.

Each gig is saved as a PDF of its detail page for browsing and as a JSON file
containing the raw database record. Downloaded JSON can be combined into a
single CSV for searching and analysis.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default: <user config dir>/Gig-o-Download/config.toml)")
	flags.StringVar(&a.cacheDir, "cache-dir", "", "Cache directory for the auth cookie and gigs list")
	flags.StringVar(&a.dataDir, "data-dir", "", "Directory downloaded gigs are written to")
	flags.BoolVar(&a.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		a.listCmd(),
		a.downloadCmd(),
		a.makeCSVCmd(),
		a.clearCacheCmd(),
	)
	return cmd
}

// setup loads configuration, prepares directories and drops a stale token
// before any command runs
func (a *app) setup(cmd *cobra.Command, args []string) error {
	level := logger.LevelWarn
	if a.verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, a.errOut))

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Override(a.cacheDir, a.dataDir); err != nil {
		return err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return err
	}
	a.cfg = cfg

	logger.Debug("Loaded configuration", logger.Fields{
		"base_url":  cfg.BaseURL,
		"cache_dir": cfg.CacheDir,
		"data_dir":  cfg.DataDir,
		"encrypted": cfg.TokenPassphrase != "",
	})

	expired, err := a.tokenStore().ExpireStale()
	if err != nil {
		return fmt.Errorf("expiring auth cookie: %w", err)
	}
	if expired {
		logger.Info("Removed expired auth cookie", logger.Fields{"path": cfg.AuthTokenPath()})
	}
	return nil
}

func (a *app) tokenStore() *auth.Store {
	return auth.NewStore(a.cfg.AuthTokenPath(), crypto.NewEncryptor(a.cfg.TokenPassphrase), a.cfg.TokenTTL)
}

// client returns a service client that logs in on the console when needed
func (a *app) client() *gigo.Client {
	prompter := auth.NewConsolePrompter(a.in, a.out)
	authenticator := auth.NewAuthenticator(a.tokenStore(), a.cfg.BaseURL, prompter, a.out, a.errOut)
	return gigo.NewClient(a.cfg.BaseURL, authenticator)
}

func (a *app) driverOpener() export.OpenDriverFunc {
	if a.openDriver != nil {
		return a.openDriver
	}
	return func(ctx context.Context, kind render.BrowserKind) (render.Driver, error) {
		return render.New(ctx, kind, render.Options{
			ExecPath:  a.cfg.BrowserPath,
			DriverURL: a.cfg.DriverURL,
		})
	}
}

// run executes args and returns the process exit code
func (a *app) run(ctx context.Context, args []string) int {
	cmd := a.rootCmd()
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		a.reportError(err)
		return ExitError
	}
	return ExitSuccess
}

// reportError prints err for the user. Failures with their own wording are
// printed as-is; everything else gets an "Error:" prefix.
func (a *app) reportError(err error) {
	var notFound *gigo.BandNotFoundError
	switch {
	case errors.Is(err, auth.ErrLoginAttemptsExhausted):
		// the authenticator has already printed the diagnostic
	case errors.As(err, &notFound):
		fmt.Fprintln(a.errOut, notFound.Error())
		writeBands(a.out, notFound.Bands, a.styles)
	case errors.Is(err, export.ErrNoGigs):
		fmt.Fprintln(a.errOut, "No gigs to download!")
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(a.errOut, "Interrupted.")
	default:
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
	}
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := newApp(os.Stdin, os.Stdout, os.Stderr).run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
