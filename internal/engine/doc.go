// Package engine implements the crawl run: breadth-first traversal of
// the comment graph from the seed profiles, lexicon matching of every
// scraped comment, and idempotent persistence of the findings.
//
// A run moves through a small state machine (idle, running, draining,
// then done or aborted). Fetch failures are contained to the profile
// they occur on; the run keeps going and records the failure. Exhausted
// traversal bounds drain the run cleanly. Only context cancellation or
// an unrecoverable persistence failure aborts it.
package engine
