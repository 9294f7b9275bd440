package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/gig-o-download/internal/logger"
)

const (
	geckodriverBinary = "geckodriver"
	driverStartup     = 10 * time.Second
)

// WebDriverError is an error payload returned by a WebDriver endpoint
type WebDriverError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *WebDriverError) Error() string {
	return fmt.Sprintf("webdriver %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
}

// webDriver prints through a W3C WebDriver session
type webDriver struct {
	baseURL    string
	sessionID  string
	httpClient *http.Client
	process    *exec.Cmd
}

var firefoxCapabilities = map[string]any{
	"capabilities": map[string]any{
		"alwaysMatch": map[string]any{
			"browserName": "firefox",
			"moz:firefoxOptions": map[string]any{
				"args": []string{"-headless"},
			},
		},
	},
}

func newFirefoxDriver(ctx context.Context, driverURL string) (*webDriver, error) {
	var process *exec.Cmd
	if driverURL == "" {
		var err error
		process, driverURL, err = startGeckodriver(ctx)
		if err != nil {
			return nil, err
		}
	}

	d, err := newSession(ctx, driverURL, firefoxCapabilities)
	if err != nil {
		stopProcess(process)
		return nil, err
	}
	d.process = process
	return d, nil
}

// newSession opens a WebDriver session at baseURL with the given request body
func newSession(ctx context.Context, baseURL string, capabilities any) (*webDriver, error) {
	d := &webDriver{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}

	var created struct {
		SessionID string `json:"sessionId"`
	}
	if err := d.call(ctx, http.MethodPost, "/session", capabilities, &created); err != nil {
		return nil, fmt.Errorf("creating webdriver session: %w", err)
	}
	if created.SessionID == "" {
		return nil, errors.New("creating webdriver session: empty session id")
	}
	d.sessionID = created.SessionID

	logger.Debug("Opened WebDriver session", logger.Fields{
		"driver_url": d.baseURL,
		"session_id": d.sessionID,
	})
	return d, nil
}

func (d *webDriver) PrintToPDF(ctx context.Context, fileURL string) ([]byte, error) {
	if err := d.call(ctx, http.MethodPost, d.sessionPath("/url"), map[string]string{"url": fileURL}, nil); err != nil {
		return nil, fmt.Errorf("loading %s: %w", fileURL, err)
	}

	var encoded string
	if err := d.call(ctx, http.MethodPost, d.sessionPath("/print"), map[string]any{"background": true}, &encoded); err != nil {
		return nil, fmt.Errorf("printing %s: %w", fileURL, err)
	}

	pdf, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding printed pdf: %w", err)
	}
	return pdf, nil
}

func (d *webDriver) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), driverStartup)
	defer cancel()

	err := d.call(ctx, http.MethodDelete, d.sessionPath(""), nil, nil)
	stopProcess(d.process)
	if err != nil {
		return fmt.Errorf("closing webdriver session: %w", err)
	}
	return nil
}

func (d *webDriver) sessionPath(suffix string) string {
	return "/session/" + d.sessionID + suffix
}

// call performs one WebDriver command and decodes the "value" member into out
func (d *webDriver) call(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var envelope struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(envelope.Value, &payload)
		return &WebDriverError{StatusCode: resp.StatusCode, Code: payload.Error, Message: payload.Message}
	}

	if out == nil || len(envelope.Value) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Value, out); err != nil {
		return fmt.Errorf("decoding value: %w", err)
	}
	return nil
}

// startGeckodriver launches geckodriver on a free local port and waits for it
// to report ready.
func startGeckodriver(ctx context.Context) (*exec.Cmd, string, error) {
	path, err := exec.LookPath(geckodriverBinary)
	if err != nil {
		return nil, "", fmt.Errorf("geckodriver not found on PATH; install it or set driver_url: %w", err)
	}

	port, err := freePort()
	if err != nil {
		return nil, "", err
	}

	cmd := exec.Command(path, "--port", strconv.Itoa(port))
	if err := cmd.Start(); err != nil {
		return nil, "", fmt.Errorf("starting geckodriver: %w", err)
	}

	url := "http://127.0.0.1:" + strconv.Itoa(port)
	if err := waitReady(ctx, url, driverStartup); err != nil {
		stopProcess(cmd)
		return nil, "", err
	}

	logger.Debug("Started geckodriver", logger.Fields{"pid": cmd.Process.Pid, "url": url})
	return cmd, url, nil
}

// waitReady polls the WebDriver status endpoint until it reports ready
func waitReady(ctx context.Context, baseURL string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	d := &webDriver{baseURL: baseURL, httpClient: &http.Client{Timeout: time.Second}}
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		var status struct {
			Ready bool `json:"ready"`
		}
		if err := d.call(ctx, http.MethodGet, "/status", nil, &status); err == nil && status.Ready {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for webdriver at %s: %w", baseURL, ctx.Err())
		case <-ticker.C:
		}
	}
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("finding free port: %w", err)
	}
	defer func() { _ = l.Close() }()
	return l.Addr().(*net.TCPAddr).Port, nil
}

func stopProcess(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
	_ = cmd.Wait()
}
