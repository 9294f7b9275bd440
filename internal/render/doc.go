// Package render turns local HTML files into PDFs with a real browser.
//
// The browser is picked from a closed set (Chrome, ChromiumEdge, Firefox).
// Chrome and Edge are driven over the DevTools protocol with chromedp;
// Firefox is driven through a W3C WebDriver session, normally a geckodriver
// process started for the lifetime of the Driver.
//
// A Driver is opened once per batch and must be closed by the caller.
package render
