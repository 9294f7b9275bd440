package render

import (
	"context"
	"fmt"
	"strings"
)

// BrowserKind selects the browser used to print PDFs
type BrowserKind int

const (
	Firefox BrowserKind = iota
	Chrome
	ChromiumEdge
)

// BrowserKinds lists every supported browser in help-text order
var BrowserKinds = []BrowserKind{Chrome, ChromiumEdge, Firefox}

func (k BrowserKind) String() string {
	switch k {
	case Firefox:
		return "Firefox"
	case Chrome:
		return "Chrome"
	case ChromiumEdge:
		return "ChromiumEdge"
	default:
		return fmt.Sprintf("BrowserKind(%d)", int(k))
	}
}

// ParseBrowserKind converts a browser name (any case) to a BrowserKind
func ParseBrowserKind(name string) (BrowserKind, error) {
	for _, k := range BrowserKinds {
		if strings.EqualFold(strings.TrimSpace(name), k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown browser %q (choose from %s)", name, KindNames())
}

// KindNames returns the supported browser names joined for messages
func KindNames() string {
	names := make([]string, len(BrowserKinds))
	for i, k := range BrowserKinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}

// Driver prints documents loaded from file:// URLs
type Driver interface {
	// PrintToPDF loads fileURL and returns the rendered PDF bytes
	PrintToPDF(ctx context.Context, fileURL string) ([]byte, error)
	Close() error
}

// Options tune driver construction
type Options struct {
	// ExecPath overrides the Chrome or Edge executable
	ExecPath string
	// DriverURL is an already running WebDriver endpoint for Firefox. When
	// empty, geckodriver is started from PATH.
	DriverURL string
}

// New opens a driver session for kind
func New(ctx context.Context, kind BrowserKind, opts Options) (Driver, error) {
	switch kind {
	case Chrome, ChromiumEdge:
		path := opts.ExecPath
		if kind == ChromiumEdge && path == "" {
			found, err := findEdge()
			if err != nil {
				return nil, err
			}
			path = found
		}
		d, err := newChromeDriver(ctx, path)
		if err != nil {
			return nil, err
		}
		return d, nil
	case Firefox:
		d, err := newFirefoxDriver(ctx, opts.DriverURL)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unsupported browser: %v", kind)
	}
}
