package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pfrederiksen/gig-o-download/internal/logger"
)

const (
	// CookieName is the cookie carrying the auth token
	CookieName = "auth"
	Timeout    = 30 * time.Second
)

// ErrLoginAttemptsExhausted is returned once MaxAttempts logins have failed.
var ErrLoginAttemptsExhausted = errors.New("login attempts exhausted")

// Authenticator hands out a valid auth token, logging in interactively when
// none is cached
type Authenticator struct {
	store      *Store
	prompter   Prompter
	loginURL   string
	httpClient *http.Client
	out        io.Writer
	errOut     io.Writer
}

// NewAuthenticator creates an Authenticator that logs in against baseURL.
// Informational prompts go to out and failure diagnostics to errOut.
func NewAuthenticator(store *Store, baseURL string, prompter Prompter, out, errOut io.Writer) *Authenticator {
	return &Authenticator{
		store:    store,
		prompter: prompter,
		loginURL: strings.TrimRight(baseURL, "/") + "/login",
		httpClient: &http.Client{
			Timeout: Timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		out:    out,
		errOut: errOut,
	}
}

// EnsureToken returns the cached token, or prompts for credentials until a
// login succeeds. After MaxAttempts failures it returns
// ErrLoginAttemptsExhausted.
func (a *Authenticator) EnsureToken(ctx context.Context) (string, error) {
	token, ok, err := a.store.Load()
	if err != nil {
		return "", err
	}

	status := Status{State: StateNoToken}
	if ok {
		return token, nil
	}
	status = Transition(status, EventTokenMissing)

	for {
		a.report(status)
		if status.State == StateFatal {
			return "", ErrLoginAttemptsExhausted
		}

		creds, err := a.prompter.Credentials(ctx)
		if err != nil {
			return "", fmt.Errorf("reading credentials: %w", err)
		}

		token, err := a.Login(ctx, creds)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			logger.Warn("Login request failed", logger.Fields{
				"attempt": status.Failures + 1,
			})
			logger.Debug("Login error detail", logger.Fields{"error": err.Error()})
		}

		if token == "" {
			status = Transition(status, EventLoginFailed)
			continue
		}

		if err := a.store.Save(token); err != nil {
			return "", err
		}
		status = Transition(status, EventLoginSucceeded)
		logger.Info("Logged in", logger.Fields{"state": status.State.String()})
		return token, nil
	}
}

// Invalidate discards the cached token so the next EnsureToken logs in again.
func (a *Authenticator) Invalidate() error {
	return a.store.Invalidate()
}

// Login posts credentials to the login endpoint and returns the auth cookie
// value, or "" when the response did not set one.
func (a *Authenticator) Login(ctx context.Context, creds Credentials) (string, error) {
	form := url.Values{}
	form.Set("email", creds.Email)
	form.Set("password", creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("posting login: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	for _, c := range resp.Cookies() {
		if c.Name == CookieName && c.Value != "" {
			return c.Value, nil
		}
	}
	return "", nil
}

func (a *Authenticator) report(s Status) {
	text, isError := Message(s)
	if text == "" {
		return
	}
	if isError {
		fmt.Fprintln(a.errOut, text)
	} else {
		fmt.Fprintln(a.out, text)
	}
}
