package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
)

// maxCommentPreview bounds comment text length in Markdown tables so a
// wall-of-text comment does not wreck the layout. Full text is always
// available in the database and the JSON report.
const maxCommentPreview = 120

// MarkdownWriter renders reports as GitHub-flavored Markdown, suitable
// for sharing findings or attaching to an abuse report.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the full report in Markdown format.
func (w *MarkdownWriter) Write(r *Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, r)
	w.writeVillains(md, r)
	w.writeFlaggedComments(md, r)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and the run/statistics table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, r *Report) {
	md.H1("Batman Crawl Report")
	md.PlainText("")

	rows := [][]string{
		{"Generated", r.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		{"Flagged Comments", strconv.Itoa(r.Stats.FlaggedComments)},
		{"Distinct Commenters", strconv.Itoa(r.Stats.DistinctCommenters)},
		{"Profiles Visited", strconv.Itoa(r.Stats.ProfilesVisited)},
	}
	if r.Run != nil {
		rows = append(rows,
			[]string{"Run ID", "`" + r.Run.RunID + "`"},
			[]string{"Seeds", strings.Join(r.Run.SeedRefs, ", ")},
			[]string{"Fetch Failures", strconv.Itoa(r.Run.FetchFailures)},
			[]string{"Comments Scanned", strconv.Itoa(r.Run.CommentsSeen)},
			[]string{"Edges Recorded", strconv.Itoa(r.Run.EdgesRecorded)},
			[]string{"Duration", r.Run.FinishedAt.Sub(r.Run.StartedAt).Round(time.Second).String()},
		)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeVillains writes the flagged-commenter registry.
func (w *MarkdownWriter) writeVillains(md *markdown.Markdown, r *Report) {
	md.H2("Flagged Commenters")
	md.PlainText("")

	if len(r.Villains) == 0 {
		md.PlainText("No flagged commenters recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(r.Villains))
	for _, v := range r.Villains {
		rows = append(rows, []string{
			"`" + v.SteamID + "`",
			escapeCell(v.Aliases),
			strconv.Itoa(v.CommentCount),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"SteamID64", "Known Aliases", "Flagged Comments"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFlaggedComments writes the stored findings, newest first.
func (w *MarkdownWriter) writeFlaggedComments(md *markdown.Markdown, r *Report) {
	md.H2("Flagged Comments")
	md.PlainText("")

	if len(r.FlaggedComments) == 0 {
		md.PlainText("No flagged comments recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(r.FlaggedComments))
	for _, fc := range r.FlaggedComments {
		rows = append(rows, []string{
			escapeCell(fc.CommenterAlias),
			"`" + fc.CommenterID + "`",
			"`" + fc.ProfileID + "`",
			escapeCell(strings.Join(fc.MatchedTerms, ", ")),
			escapeCell(previewText(fc.Text)),
			escapeCell(fc.FriendPath),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Alias", "Commenter", "Found On", "Terms", "Comment", "Discovery Path"},
		Rows:   rows,
	})
	md.PlainText("")
}

// previewText truncates long comment text for table display.
func previewText(s string) string {
	runes := []rune(s)
	if len(runes) <= maxCommentPreview {
		return s
	}
	return string(runes[:maxCommentPreview]) + "…"
}

// escapeCell neutralizes characters that break Markdown table cells.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
