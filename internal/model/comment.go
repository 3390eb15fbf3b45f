package model

import "time"

// Comment is a single comment scraped from a profile's comment thread.
// The author fields identify the commenter; AuthorID may be zero when the
// commenter's profile URL could not be resolved to a SteamID64.
type Comment struct {
	// AuthorID is the commenter's canonical identity, if resolved.
	AuthorID SteamID

	// AuthorURL is the commenter's profile URL as it appeared in the
	// comment markup. Kept for resolution when AuthorID is zero.
	AuthorURL string

	// AuthorAlias is the commenter's display name at scrape time.
	// Aliases are mutable on Steam, so this is a point-in-time value.
	AuthorAlias string

	// Text is the comment body with markup stripped.
	Text string

	// PostedAt is the comment timestamp. Zero when Steam's relative
	// timestamp could not be parsed.
	PostedAt time.Time
}

// ProfilePage holds everything extracted from one profile visit:
// the comments on the profile and the identities linked from them.
type ProfilePage struct {
	// ProfileID is the identity of the visited profile.
	ProfileID SteamID

	// Comments are all comments found on the profile, oldest page first.
	Comments []Comment

	// Links are the distinct commenter identities discovered on the
	// profile, in first-seen order. These are the traversal edges.
	Links []SteamID
}
