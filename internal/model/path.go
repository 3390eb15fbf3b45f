package model

import "strings"

// pathSeparator joins identities in the persisted path format.
// The database stores paths as "seed -> ... -> node" so that existing
// consumers of the friend_path column can parse them back into edges.
const pathSeparator = " -> "

// Path is the ordered sequence of identities from a seed profile to a
// discovered profile. The seed is first and the profile itself is last.
// A Path is never mutated after creation: Child returns an extended copy.
type Path []SteamID

// NewPath creates a single-element path rooted at the given seed.
func NewPath(seed SteamID) Path {
	return Path{seed}
}

// Child returns a new path extended with the given identity.
// The receiver is copied, so callers can hold the parent path while
// offering child paths to the frontier.
func (p Path) Child(id SteamID) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, id)
}

// Depth returns the number of hops from the seed (seed itself is depth 0).
func (p Path) Depth() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Last returns the final identity on the path (the profile it leads to).
func (p Path) Last() SteamID {
	if len(p) == 0 {
		return SteamID{}
	}
	return p[len(p)-1]
}

// String renders the path in the persisted "a -> b -> c" format.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, id := range p {
		parts[i] = id.String()
	}
	return strings.Join(parts, pathSeparator)
}

// ParsePath parses the persisted "a -> b -> c" format back into a Path.
// Malformed elements are skipped rather than failing the whole parse,
// since old databases may contain paths written by earlier versions.
func ParsePath(s string) Path {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, pathSeparator)
	path := make(Path, 0, len(parts))
	for _, part := range parts {
		id, err := NewSteamID(part)
		if err != nil {
			continue
		}
		path = append(path, id)
	}
	return path
}
