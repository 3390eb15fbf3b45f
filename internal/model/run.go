package model

import "time"

// RunState is the lifecycle state of a crawl run.
type RunState int

const (
	// RunStateIdle means the run is constructed but not started.
	RunStateIdle RunState = iota
	// RunStateRunning means the crawl loop is processing the frontier.
	RunStateRunning
	// RunStateDraining means no further profiles will be fetched and
	// buffered work is being flushed.
	RunStateDraining
	// RunStateAborted means the run stopped on an unrecoverable error,
	// abandoning in-flight work. Already-committed writes survive.
	RunStateAborted
	// RunStateDone is terminal: results are read-only from here.
	RunStateDone
)

// String returns the state name for logging.
func (s RunState) String() string {
	switch s {
	case RunStateIdle:
		return "idle"
	case RunStateRunning:
		return "running"
	case RunStateDraining:
		return "draining"
	case RunStateAborted:
		return "aborted"
	case RunStateDone:
		return "done"
	default:
		return "unknown"
	}
}

// RunSummary aggregates the counters of one crawl run.
// It is written by the engine only and becomes read-only once the run
// reaches RunStateDone.
type RunSummary struct {
	// RunID uniquely identifies the run across reports and evidence events.
	RunID string `json:"run_id"`

	// Seeds are the resolved seed identities the traversal started from.
	Seeds []SteamID `json:"-"`

	// SeedRefs are the seed references as given on the command line.
	SeedRefs []string `json:"seeds"`

	// ProfilesVisited counts profiles fetched (successfully or not).
	ProfilesVisited int `json:"profiles_visited"`

	// FetchFailures counts profiles whose fetch failed.
	FetchFailures int `json:"fetch_failures"`

	// CommentsSeen counts all comments run through the matcher.
	CommentsSeen int `json:"comments_seen"`

	// CommentsFlagged counts comments that matched the lexicon.
	CommentsFlagged int `json:"comments_flagged"`

	// EdgesRecorded counts distinct discovered links.
	EdgesRecorded int `json:"edges_recorded"`

	// PersistFailures counts writes that were skipped after exhausting
	// their retries.
	PersistFailures int `json:"persist_failures"`

	// StartedAt and FinishedAt bound the run in wall-clock time.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
