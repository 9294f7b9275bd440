package render

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func TestParseBrowserKind(t *testing.T) {
	tests := []struct {
		input   string
		want    BrowserKind
		wantErr bool
	}{
		{"Firefox", Firefox, false},
		{"firefox", Firefox, false},
		{"CHROME", Chrome, false},
		{" ChromiumEdge ", ChromiumEdge, false},
		{"Safari", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBrowserKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBrowserKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseBrowserKind(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBrowserKindString(t *testing.T) {
	if Firefox.String() != "Firefox" || Chrome.String() != "Chrome" || ChromiumEdge.String() != "ChromiumEdge" {
		t.Error("unexpected BrowserKind names")
	}
	if got := BrowserKind(9).String(); got != "BrowserKind(9)" {
		t.Errorf("String() = %q", got)
	}
	if got := KindNames(); got != "Chrome, ChromiumEdge, Firefox" {
		t.Errorf("KindNames() = %q", got)
	}
}

// fakeWebDriver records commands and answers like geckodriver
type fakeWebDriver struct {
	mu       sync.Mutex
	commands []string
	loaded   string
	pdf      []byte
	failURL  bool
}

func (f *fakeWebDriver) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.commands = append(f.commands, r.Method+" "+r.URL.Path)
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/session":
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decoding capabilities: %v", err)
			}
			if !strings.Contains(mustJSON(t, body), `"browserName":"firefox"`) {
				t.Errorf("capabilities missing firefox: %v", body)
			}
			_, _ = w.Write([]byte(`{"value":{"sessionId":"abc","capabilities":{}}}`))
		case r.Method == http.MethodPost && r.URL.Path == "/session/abc/url":
			if f.failURL {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"value":{"error":"unknown error","message":"file not found"}}`))
				return
			}
			var body struct {
				URL string `json:"url"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.mu.Lock()
			f.loaded = body.URL
			f.mu.Unlock()
			_, _ = w.Write([]byte(`{"value":null}`))
		case r.Method == http.MethodPost && r.URL.Path == "/session/abc/print":
			_, _ = w.Write([]byte(`{"value":"` + base64.StdEncoding.EncodeToString(f.pdf) + `"}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/session/abc":
			_, _ = w.Write([]byte(`{"value":null}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"value":{"error":"unknown command","message":"` + r.URL.Path + `"}}`))
		}
	})
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestFirefoxDriver_PrintToPDF(t *testing.T) {
	fake := &fakeWebDriver{pdf: []byte("%PDF-1.7 fake")}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	ctx := context.Background()
	driver, err := New(ctx, Firefox, Options{DriverURL: server.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	pdf, err := driver.PrintToPDF(ctx, "file:///tmp/gig.html")
	if err != nil {
		t.Fatalf("PrintToPDF() error = %v", err)
	}
	if string(pdf) != "%PDF-1.7 fake" {
		t.Errorf("PrintToPDF() = %q", pdf)
	}
	if fake.loaded != "file:///tmp/gig.html" {
		t.Errorf("loaded URL = %q", fake.loaded)
	}

	if err := driver.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	want := []string{
		"POST /session",
		"POST /session/abc/url",
		"POST /session/abc/print",
		"DELETE /session/abc",
	}
	if strings.Join(fake.commands, "|") != strings.Join(want, "|") {
		t.Errorf("commands = %v, want %v", fake.commands, want)
	}
}

func TestFirefoxDriver_ErrorPayload(t *testing.T) {
	fake := &fakeWebDriver{failURL: true}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	ctx := context.Background()
	driver, err := New(ctx, Firefox, Options{DriverURL: server.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = driver.Close() }()

	_, err = driver.PrintToPDF(ctx, "file:///missing.html")
	var wdErr *WebDriverError
	if !errors.As(err, &wdErr) {
		t.Fatalf("PrintToPDF() error = %v, want *WebDriverError", err)
	}
	if wdErr.StatusCode != http.StatusNotFound || wdErr.Message != "file not found" {
		t.Errorf("WebDriverError = %+v", wdErr)
	}
}

func TestFirefoxDriver_SessionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"value":{"error":"session not created","message":"no firefox binary"}}`))
	}))
	defer server.Close()

	_, err := New(context.Background(), Firefox, Options{DriverURL: server.URL})
	if err == nil || !strings.Contains(err.Error(), "no firefox binary") {
		t.Errorf("New() error = %v, want session not created", err)
	}
}

func TestWaitReady(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ready := calls.Add(1) >= 3
		_ = json.NewEncoder(w).Encode(map[string]any{"value": map[string]any{"ready": ready}})
	}))
	defer server.Close()

	if err := waitReady(context.Background(), server.URL, driverStartup); err != nil {
		t.Fatalf("waitReady() error = %v", err)
	}
	if n := calls.Load(); n < 3 {
		t.Errorf("status polled %d times, want at least 3", n)
	}
}
