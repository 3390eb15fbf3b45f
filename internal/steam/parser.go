package steam

import (
	"strings"

	"golang.org/x/net/html"
)

// Class tokens in Steam's comment thread markup. The render endpoint
// returns the same fragment markup the profile page uses.
const (
	classComment   = "commentthread_comment"
	classAuthor    = "commentthread_author_link"
	classText      = "commentthread_comment_text"
	classTimestamp = "commentthread_comment_timestamp"
)

// RawComment is one comment as extracted from the HTML fragment, before
// author resolution and timestamp parsing.
type RawComment struct {
	// AuthorURL is the commenter's profile link href.
	AuthorURL string

	// AuthorAlias is the commenter's display name.
	AuthorAlias string

	// Text is the comment body with markup stripped and whitespace collapsed.
	Text string

	// Timestamp is Steam's timestamp string (title attribute when
	// present, otherwise the displayed relative time).
	Timestamp string
}

// ParseCommentsHTML extracts comments from a comments_html fragment.
// Malformed markup is tolerated: the parser never fails, and comment
// blocks missing an author link or body text are skipped.
func ParseCommentsHTML(fragment string) []RawComment {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		// html.Parse recovers from almost anything; a hard error means
		// there is nothing worth extracting.
		return nil
	}

	var comments []RawComment
	walk(doc, func(n *html.Node) {
		if n.Type == html.ElementNode && hasClassToken(n, classComment) {
			if c, ok := extractComment(n); ok {
				comments = append(comments, c)
			}
		}
	})
	return comments
}

// extractComment pulls the author, text, and timestamp out of one
// comment block.
func extractComment(block *html.Node) (RawComment, bool) {
	var c RawComment

	walk(block, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch {
		case n.Data == "a" && hasClassToken(n, classAuthor) && c.AuthorURL == "":
			c.AuthorURL = attr(n, "href")
			c.AuthorAlias = collapseSpace(textContent(n))
		case n.Data == "div" && hasClassToken(n, classText) && c.Text == "":
			c.Text = collapseSpace(textContent(n))
		case n.Data == "span" && hasClassToken(n, classTimestamp) && c.Timestamp == "":
			c.Timestamp = attr(n, "title")
			if c.Timestamp == "" {
				c.Timestamp = collapseSpace(textContent(n))
			}
		}
	})

	if c.AuthorURL == "" || c.Text == "" {
		return RawComment{}, false
	}
	return c, true
}

// walk visits every node in the tree in document order.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(child, fn)
	}
}

// hasClassToken reports whether the node's class attribute contains the
// given token. Token matching avoids false positives from longer class
// names sharing a prefix (commentthread_comment_container).
func hasClassToken(n *html.Node, token string) bool {
	for _, field := range strings.Fields(attr(n, "class")) {
		if field == token {
			return true
		}
	}
	return false
}

// attr returns the value of the named attribute, or empty string.
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// textContent concatenates all text nodes under n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
	})
	return sb.String()
}

// collapseSpace trims and collapses runs of whitespace to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
