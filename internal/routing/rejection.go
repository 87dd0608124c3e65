package routing

import "fmt"

// Rejection is the delivery layer's signal that the platform refused an
// event delivery.
type Rejection struct {
	Reason string `json:"error" msgpack:"error"`
}

// BenignRejection decides whether a rejection reason is a harmless
// lifecycle artifact that should be swallowed instead of escalated. The
// predicate is injected at the dispatch boundary so the condition stays
// independently testable.
type BenignRejection func(reason string) bool

// invalidScopeReason is emitted when the platform delivers an event for a
// scope the bot no longer occupies, e.g. right after an uninstall.
const invalidScopeReason = "Invalid scope"

// DefaultBenignRejection swallows only the known-harmless "Invalid scope"
// rejection.
func DefaultBenignRejection(reason string) bool {
	return reason == invalidScopeReason
}

// HandleRejection filters a rejection through the configured predicate.
// Benign reasons return nil; everything else is escalated as an error for
// the single event being processed.
func (r *Router) HandleRejection(rej Rejection) error {
	if r.benign(rej.Reason) {
		r.log.Debug().Str("reason", rej.Reason).Msg("ignoring benign delivery rejection")
		return nil
	}
	return fmt.Errorf("event delivery rejected: %s", rej.Reason)
}
