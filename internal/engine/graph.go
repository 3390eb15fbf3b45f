package engine

import (
	"sync"

	"github.com/Henry-Pulley/batman/internal/model"
)

// graphRecorder accumulates the distinct discovered edges in first-seen
// order. Edges are recorded for every link, including links past the
// depth bound, so the edge list preserves the discovered topology even
// when the child is never visited.
type graphRecorder struct {
	mu    sync.Mutex
	seen  map[model.GraphEdge]bool
	edges []model.GraphEdge
}

func newGraphRecorder() *graphRecorder {
	return &graphRecorder{seen: make(map[model.GraphEdge]bool)}
}

// record stores the edge unless it was already recorded, reporting
// whether it was new.
func (g *graphRecorder) record(parent, child model.SteamID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	edge := model.GraphEdge{Parent: parent, Child: child}
	if g.seen[edge] {
		return false
	}
	g.seen[edge] = true
	g.edges = append(g.edges, edge)
	return true
}

// count returns the number of distinct edges recorded so far.
func (g *graphRecorder) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.edges)
}

// snapshot returns a copy of the recorded edges in discovery order.
func (g *graphRecorder) snapshot() []model.GraphEdge {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]model.GraphEdge, len(g.edges))
	copy(out, g.edges)
	return out
}
