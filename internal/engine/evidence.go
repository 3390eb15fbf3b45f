package engine

// EvidenceEvent announces a freshly flagged comment to consumers that
// capture supporting artifacts (screenshots, archive requests) while the
// run is still in progress. The fingerprint is stable across runs, so
// repeat discoveries of the same comment map to the same artifact.
type EvidenceEvent struct {
	// RunID identifies the run that produced the event.
	RunID string

	// ProfileID is the profile the comment was found on.
	ProfileID string

	// CommenterID is the flagged comment's author.
	CommenterID string

	// Text is the flagged comment body.
	Text string

	// Fingerprint is the comment's stable content hash.
	Fingerprint string
}

// defaultEventBuffer is the evidence channel capacity. Events are
// advisory; when no consumer keeps up the engine drops them rather than
// stalling the crawl.
const defaultEventBuffer = 64

// Events returns the evidence event stream. The channel is closed when
// the run finishes. A slow or absent consumer loses events but never
// blocks the crawl.
func (e *Engine) Events() <-chan EvidenceEvent {
	return e.events
}

// emitEvent publishes an event without blocking.
func (e *Engine) emitEvent(ev EvidenceEvent) {
	select {
	case e.events <- ev:
	default:
		e.logger.Debug("evidence event dropped, buffer full",
			"fingerprint", ev.Fingerprint,
		)
	}
}
