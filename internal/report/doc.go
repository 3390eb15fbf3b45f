// Package report renders crawl findings for human and machine
// consumption. A Report is assembled from the database (and optionally
// the just-finished run's summary), then rendered by one or more
// Writers: terminal text, Markdown for sharing, or JSON for tooling.
package report
