// Package frontier implements the BFS work queue for the profile crawl:
// a FIFO queue of (identity, path) entries plus the visited, queued, and
// in-flight membership sets that make traversal of a cyclic comment graph
// terminate.
//
// The invariant maintained by every operation is that an identity lives
// in at most one of the three sets, and Offer only enqueues identities in
// none of them. With FIFO ordering this yields breadth-first traversal:
// the first-discovered path to an identity is a shortest path, and later
// discoveries of the same identity are silently discarded.
package frontier

import (
	"sync"

	"github.com/Henry-Pulley/batman/internal/model"
)

// Entry is one unit of crawl work: an identity and the discovery path
// that reached it (seed first, identity last).
type Entry struct {
	ID   model.SteamID
	Path model.Path
}

// Frontier is the shared work queue. All methods are safe for concurrent
// use; each holds the mutex for the whole operation so membership checks
// and queue mutations are a single critical section.
type Frontier struct {
	mu sync.Mutex

	// queue holds pending entries in discovery order.
	queue []Entry

	// queued, inFlight, and visited partition the seen identities by
	// lifecycle stage. Keys are SteamID64 strings.
	queued   map[string]bool
	inFlight map[string]bool
	visited  map[string]bool
}

// New creates an empty Frontier.
func New() *Frontier {
	return &Frontier{
		queued:   make(map[string]bool),
		inFlight: make(map[string]bool),
		visited:  make(map[string]bool),
	}
}

// Offer enqueues the identity with its discovery path unless the identity
// has already been seen (queued, in flight, or visited). Duplicate
// discovery is expected on a cyclic graph and is not an error; the return
// value reports whether the entry was actually enqueued.
func (f *Frontier) Offer(id model.SteamID, path model.Path) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := id.String()
	if f.queued[key] || f.inFlight[key] || f.visited[key] {
		return false
	}

	f.queued[key] = true
	f.queue = append(f.queue, Entry{ID: id, Path: path})
	return true
}

// Take removes and returns the head entry in FIFO order, moving its
// identity from queued to in-flight. The second return value is false
// when the queue is empty.
func (f *Frontier) Take() (Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return Entry{}, false
	}

	entry := f.queue[0]
	f.queue = f.queue[1:]

	key := entry.ID.String()
	delete(f.queued, key)
	f.inFlight[key] = true

	return entry, true
}

// MarkDone moves an identity from in-flight to visited. It is called
// after processing completes, whether the fetch succeeded or failed, so
// an unreachable profile is never retried within the run.
func (f *Frontier) MarkDone(id model.SteamID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := id.String()
	delete(f.inFlight, key)
	f.visited[key] = true
}

// Len returns the number of queued entries.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// InFlight returns the number of identities taken but not yet done.
// A multi-worker engine uses this to distinguish "queue momentarily
// empty" from "traversal finished".
func (f *Frontier) InFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inFlight)
}

// VisitedCount returns the number of fully processed identities.
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}

// Seen reports whether the identity is queued, in flight, or visited.
func (f *Frontier) Seen(id model.SteamID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := id.String()
	return f.queued[key] || f.inFlight[key] || f.visited[key]
}
