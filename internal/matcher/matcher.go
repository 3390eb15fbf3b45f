package matcher

import (
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// Matcher checks comment text against a lexicon of flagged terms and
// compiled regular-expression patterns. It is stateless per call and safe
// for concurrent use.
type Matcher struct {
	// terms are the configured lexicon terms, kept in input order for
	// stable MatchedTerms output.
	terms []string

	// foldedTerms are the case-folded forms matched against folded text.
	foldedTerms []string

	// patterns are the compiled regex patterns, paired with the source
	// expression they were built from.
	patterns []compiledPattern

	// fold performs Unicode case folding for caseless comparison.
	fold cases.Caser
}

// compiledPattern pairs a compiled regexp with its source expression.
type compiledPattern struct {
	source string
	re     *regexp.Regexp
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithPatterns adds regular-expression patterns to the lexicon.
// Each pattern is compiled case-insensitively. Invalid patterns are
// skipped with a warning rather than failing construction, matching the
// behavior operators rely on when hand-editing a lexicon file.
func WithPatterns(patterns []string, logger *slog.Logger) Option {
	return func(m *Matcher) {
		if logger == nil {
			logger = slog.Default()
		}
		for _, p := range patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				logger.Warn("skipping invalid lexicon pattern",
					"pattern", p,
					"error", err,
				)
				continue
			}
			m.patterns = append(m.patterns, compiledPattern{source: p, re: re})
		}
	}
}

// New creates a Matcher for the given lexicon terms.
// Empty and duplicate terms are dropped; term order is preserved.
func New(terms []string, opts ...Option) *Matcher {
	m := &Matcher{
		fold: cases.Fold(),
	}

	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		trimmed := strings.TrimSpace(term)
		if trimmed == "" {
			continue
		}
		folded := m.fold.String(trimmed)
		if seen[folded] {
			continue
		}
		seen[folded] = true
		m.terms = append(m.terms, trimmed)
		m.foldedTerms = append(m.foldedTerms, folded)
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Match returns the lexicon terms and pattern sources that the comment
// text matches, in lexicon order. A nil result means the comment is clean.
// Empty or whitespace-only text never matches.
func (m *Matcher) Match(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var matched []string

	folded := m.fold.String(text)
	for i, foldedTerm := range m.foldedTerms {
		if strings.Contains(folded, foldedTerm) {
			matched = append(matched, m.terms[i])
		}
	}

	for _, p := range m.patterns {
		if p.re.MatchString(text) {
			matched = append(matched, p.source)
		}
	}

	return matched
}

// Size returns the number of active terms and patterns, for startup logging.
func (m *Matcher) Size() int {
	return len(m.terms) + len(m.patterns)
}
