// Package config resolves the directories and settings gig-o-download runs with.
//
// A Config is built once at startup from defaults, an optional TOML file and
// command-line overrides, then passed to every component. Nothing in the
// program reads paths from package-level state.
package config
