// Package main provides the entry point for the batman CLI.
//
// Batman crawls linked Steam community profiles breadth-first from one
// or more seed profiles, scans every profile comment against a
// configurable lexicon, and records flagged comments with the discovery
// path that led to them.
//
// Usage:
//
//	batman scan <profile-url-or-steamid64>...
//	batman report
//
// See --help for all available options.
package main

// main is the entry point for batman.
func main() {
	Execute()
}
