package report

import (
	"context"
	"fmt"
	"time"

	"github.com/Henry-Pulley/batman/internal/database"
	"github.com/Henry-Pulley/batman/internal/model"
)

// Source provides the stored findings a report is built from.
// *database.CrawlDB satisfies it; tests substitute fixtures.
type Source interface {
	GetStats(ctx context.Context) (*database.Stats, error)
	ListFlaggedComments(ctx context.Context) ([]database.FlaggedCommentRecord, error)
	ListVillains(ctx context.Context) ([]database.VillainRecord, error)
}

// Report is the renderable view of the crawl findings.
type Report struct {
	// GeneratedAt is when the report was assembled.
	GeneratedAt time.Time `json:"generated_at"`

	// Run is the summary of the run that produced the findings. Nil when
	// the report is regenerated from an existing database.
	Run *model.RunSummary `json:"run,omitempty"`

	// Stats are the stored-finding totals.
	Stats database.Stats `json:"stats"`

	// Villains are the flagged commenters, most active first.
	Villains []database.VillainRecord `json:"villains"`

	// FlaggedComments are the stored findings, newest first.
	FlaggedComments []database.FlaggedCommentRecord `json:"flagged_comments"`

	// Edges is the graph topology discovered by the run that produced
	// this report, in discovery order. Empty for regenerated reports.
	Edges []Edge `json:"edges,omitempty"`
}

// Edge is one discovered link, parent profile to linked commenter.
type Edge struct {
	Parent string `json:"parent"`
	Child  string `json:"child"`
}

// EdgesFromRun converts the engine's edge list into report edges.
func EdgesFromRun(edges []model.GraphEdge) []Edge {
	if len(edges) == 0 {
		return nil
	}
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		out = append(out, Edge{Parent: e.Parent.String(), Child: e.Child.String()})
	}
	return out
}

// Build assembles a Report from the store. summary may be nil when
// regenerating from an existing database.
func Build(ctx context.Context, src Source, summary *model.RunSummary) (*Report, error) {
	stats, err := src.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	villains, err := src.ListVillains(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	flagged, err := src.ListFlaggedComments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}

	return &Report{
		GeneratedAt:     time.Now(),
		Run:             summary,
		Stats:           *stats,
		Villains:        villains,
		FlaggedComments: flagged,
	}, nil
}
