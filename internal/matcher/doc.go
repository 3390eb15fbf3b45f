// Package matcher evaluates comment text against a configured lexicon of
// flagged terms and regular-expression patterns.
//
// The Matcher is built once at startup and is immutable afterwards, so it
// can be shared freely between crawl workers without synchronization.
// Matching is case-insensitive using Unicode case folding, which handles
// comments mixing scripts, accents, and emoticons without special cases:
// malformed or unusual text degrades to "no match", never to an error.
package matcher
