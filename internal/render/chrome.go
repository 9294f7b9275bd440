package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/pfrederiksen/gig-o-download/internal/logger"
)

// chromeDriver prints through a headless Chromium-family browser
type chromeDriver struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

func newChromeDriver(parent context.Context, execPath string) (*chromeDriver, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("allow-file-access-from-files", true))
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	// An empty Run starts the browser so a missing executable fails here
	// rather than on the first gig.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	logger.Debug("Started browser", logger.Fields{"exec_path": execPath})

	return &chromeDriver{
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
	}, nil
}

func (d *chromeDriver) PrintToPDF(ctx context.Context, fileURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var pdf []byte
	err := chromedp.Run(d.ctx,
		chromedp.Navigate(fileURL),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("printing %s: %w", fileURL, err)
	}
	return pdf, nil
}

func (d *chromeDriver) Close() error {
	err := chromedp.Cancel(d.ctx)
	d.cancel()
	d.allocCancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("closing browser: %w", err)
	}
	return nil
}

// edgeCandidates are tried in order when no Edge executable is configured
var edgeCandidates = []string{
	"microsoft-edge",
	"microsoft-edge-stable",
	"msedge",
	`C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`,
	`C:\Program Files\Microsoft\Edge\Application\msedge.exe`,
	"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
}

func findEdge() (string, error) {
	for _, c := range edgeCandidates {
		if path, err := exec.LookPath(c); err == nil {
			return path, nil
		}
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", errors.New("microsoft edge not found; set browser_path in the config file")
}
