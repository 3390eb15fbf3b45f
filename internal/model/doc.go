// Package model defines the core data types shared across the crawler:
// Steam identities, discovery paths, scraped comments, flagged comments,
// graph edges, and run summaries.
//
// Types in this package are plain values with no behavior beyond
// validation and formatting. They carry no I/O and no synchronization,
// which keeps them freely shareable between the engine, the database
// layer, and the report writers.
package model
