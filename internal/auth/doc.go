// Package auth keeps a Gig-o-Matic auth token cached between runs.
//
// The token is the value of the "auth" cookie returned by the login endpoint.
// It is stored in a single file in the cache directory and is discarded once
// the file is older than the configured TTL, or as soon as the remote service
// answers 401.
//
// Obtaining a token is interactive. The retry policy is a small state machine
// (see Transition) kept separate from the console prompts, so the policy can
// be tested without a terminal.
package auth
