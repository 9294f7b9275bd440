// Package gigo is a client for the Gig-o-Matic v2 web application.
//
// Every request carries the cached "auth" cookie. A 401 response discards the
// cached token before the error is returned, so the next request prompts for
// a fresh login. Requests are not retried.
package gigo
