package model

import (
	"encoding/hex"
	"time"

	"golang.org/x/crypto/sha3"
)

// FlaggedComment is a comment that matched the lexicon, together with
// enough context to audit the finding later: who wrote it, whose profile
// it was found on, how the crawl reached that profile, and when.
//
// Two flagged comments with the same (CommenterID, ProfileID, Text) are
// the same logical fact. The database upserts on that key, so re-crawling
// a profile updates timestamps instead of inserting duplicate rows.
type FlaggedComment struct {
	// CommenterID is the identity of the comment's author.
	CommenterID SteamID

	// CommenterAlias is the author's display name at discovery time.
	CommenterAlias string

	// ProfileID is the profile the comment was found on.
	ProfileID SteamID

	// Text is the comment body.
	Text string

	// MatchedTerms are the lexicon terms that flagged this comment.
	MatchedTerms []string

	// Path is the discovery path from the seed to ProfileID.
	Path Path

	// CommentedAt is the comment's own timestamp, when parseable.
	CommentedAt time.Time

	// DiscoveredAt is when the crawler flagged the comment.
	DiscoveredAt time.Time
}

// Fingerprint returns a stable hex identifier for the flagged comment,
// derived from its dedup key (ProfileID, CommenterID, Text). Evidence
// capture uses it to name screenshots so that repeat discoveries of the
// same comment map to the same artifact.
func (f FlaggedComment) Fingerprint() string {
	h := sha3.New256()
	h.Write([]byte(f.ProfileID.String()))
	h.Write([]byte{0})
	h.Write([]byte(f.CommenterID.String()))
	h.Write([]byte{0})
	h.Write([]byte(f.Text))
	return hex.EncodeToString(h.Sum(nil))
}

// GraphEdge records the discovery of a link from one profile to another.
// Edges are recorded when a link is seen, whether or not the child is
// ever visited, so the edge list preserves the full discovered topology
// even under depth and visit bounds.
type GraphEdge struct {
	// Parent is the profile the link was discovered on.
	Parent SteamID

	// Child is the linked profile.
	Child SteamID
}
