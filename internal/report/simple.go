package report

import (
	"fmt"
	"io"
	"strings"
)

// SimpleWriter renders a compact terminal summary: totals, the villain
// registry, and one line per flagged comment. It is the default output
// when no report file is requested.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the summary.
func (w *SimpleWriter) Write(r *Report) (int, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Crawl results as of %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	if r.Run != nil {
		fmt.Fprintf(&b, "  run %s: %d profiles visited (%d fetch failures), %d comments scanned\n",
			r.Run.RunID, r.Run.ProfilesVisited, r.Run.FetchFailures, r.Run.CommentsSeen)
	}
	fmt.Fprintf(&b, "  %d flagged comments from %d commenters across %d profiles\n\n",
		r.Stats.FlaggedComments, r.Stats.DistinctCommenters, r.Stats.ProfilesVisited)

	if len(r.Villains) > 0 {
		b.WriteString("Flagged commenters:\n")
		for _, v := range r.Villains {
			fmt.Fprintf(&b, "  %s  %-30s %d comment(s)\n", v.SteamID, v.Aliases, v.CommentCount)
		}
		b.WriteString("\n")
	}

	for _, fc := range r.FlaggedComments {
		fmt.Fprintf(&b, "[%s] %s on %s: %q (matched: %s)\n",
			fc.CommenterID, fc.CommenterAlias, fc.ProfileID,
			previewText(fc.Text), strings.Join(fc.MatchedTerms, ", "))
		fmt.Fprintf(&b, "    discovered via %s\n", fc.FriendPath)
	}

	return w.output.Write([]byte(b.String()))
}
