package auth

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type scriptedPrompter struct {
	answers []Credentials
	calls   int
}

func (p *scriptedPrompter) Credentials(ctx context.Context) (Credentials, error) {
	if p.calls >= len(p.answers) {
		return Credentials{}, errors.New("no more answers")
	}
	c := p.answers[p.calls]
	p.calls++
	return c, nil
}

func newLoginServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error: %v", err)
		}
		if r.PostForm.Get("email") == "me@example.com" && r.PostForm.Get("password") == "right" {
			http.SetCookie(w, &http.Cookie{Name: "auth", Value: "tok-good"})
		}
		// The real endpoint redirects either way; the cookie must be read
		// from the redirect response itself.
		http.Redirect(w, r, "/", http.StatusFound)
	}))
}

func TestAuthenticator_EnsureToken_Cached(t *testing.T) {
	store := newTestStore(t, nil)
	if err := store.Save("tok-cached"); err != nil {
		t.Fatal(err)
	}
	prompter := &scriptedPrompter{}

	a := NewAuthenticator(store, "http://127.0.0.1:1", prompter, &bytes.Buffer{}, &bytes.Buffer{})

	token, err := a.EnsureToken(context.Background())
	if err != nil {
		t.Fatalf("EnsureToken() error: %v", err)
	}
	if token != "tok-cached" {
		t.Errorf("EnsureToken() = %q, want tok-cached", token)
	}
	if prompter.calls != 0 {
		t.Errorf("prompted %d times, want 0", prompter.calls)
	}
}

func TestAuthenticator_EnsureToken_Login(t *testing.T) {
	server := newLoginServer(t)
	defer server.Close()

	store := newTestStore(t, nil)
	prompter := &scriptedPrompter{answers: []Credentials{
		{Email: "me@example.com", Password: "wrong"},
		{Email: "me@example.com", Password: "right"},
	}}
	var out, errOut bytes.Buffer

	a := NewAuthenticator(store, server.URL, prompter, &out, &errOut)

	token, err := a.EnsureToken(context.Background())
	if err != nil {
		t.Fatalf("EnsureToken() error: %v", err)
	}
	if token != "tok-good" {
		t.Errorf("EnsureToken() = %q, want tok-good", token)
	}
	if prompter.calls != 2 {
		t.Errorf("prompted %d times, want 2", prompter.calls)
	}

	if !strings.Contains(out.String(), "expired or not found") {
		t.Errorf("stdout = %q, want first-attempt message", out.String())
	}
	if !strings.Contains(errOut.String(), "Ensure you've entered the correct credentials") {
		t.Errorf("stderr = %q, want retry message", errOut.String())
	}

	saved, ok, _ := store.Load()
	if !ok || saved != "tok-good" {
		t.Errorf("stored token = %q (ok %v), want tok-good", saved, ok)
	}
}

func TestAuthenticator_EnsureToken_Exhausted(t *testing.T) {
	server := newLoginServer(t)
	defer server.Close()

	bad := Credentials{Email: "me@example.com", Password: "wrong"}
	prompter := &scriptedPrompter{answers: []Credentials{bad, bad, bad, bad}}
	var errOut bytes.Buffer

	a := NewAuthenticator(newTestStore(t, nil), server.URL, prompter, &bytes.Buffer{}, &errOut)

	_, err := a.EnsureToken(context.Background())
	if !errors.Is(err, ErrLoginAttemptsExhausted) {
		t.Fatalf("EnsureToken() error = %v, want ErrLoginAttemptsExhausted", err)
	}
	if prompter.calls != MaxAttempts {
		t.Errorf("prompted %d times, want %d", prompter.calls, MaxAttempts)
	}
	if !strings.Contains(errOut.String(), "after 3 attempts") {
		t.Errorf("stderr = %q, want fatal message", errOut.String())
	}
}

func TestAuthenticator_EnsureToken_ServerDown(t *testing.T) {
	server := newLoginServer(t)
	url := server.URL
	server.Close()

	bad := Credentials{Email: "x", Password: "y"}
	prompter := &scriptedPrompter{answers: []Credentials{bad, bad, bad}}

	a := NewAuthenticator(newTestStore(t, nil), url, prompter, &bytes.Buffer{}, &bytes.Buffer{})

	if _, err := a.EnsureToken(context.Background()); !errors.Is(err, ErrLoginAttemptsExhausted) {
		t.Errorf("EnsureToken() error = %v, want ErrLoginAttemptsExhausted", err)
	}
}

func TestAuthenticator_Invalidate(t *testing.T) {
	store := newTestStore(t, nil)
	if err := store.Save("tok"); err != nil {
		t.Fatal(err)
	}

	a := NewAuthenticator(store, "http://127.0.0.1:1", &scriptedPrompter{}, &bytes.Buffer{}, &bytes.Buffer{})
	if err := a.Invalidate(); err != nil {
		t.Fatalf("Invalidate() error: %v", err)
	}
	if _, ok, _ := store.Load(); ok {
		t.Error("token still cached after Invalidate()")
	}
}
