package assistant

import (
	"github.com/Infoya/FourSeasonsPOC/utils"

	"go.uber.org/zap"
)

// TurnContext is the per-turn mutable state of one orchestrated turn. Once
// a booking creation succeeds, its identifier is authoritative: every
// later add-on, cart or checkout call in the same turn must reference it,
// whatever identifier the runtime supplied. A fresh TurnContext is created
// for every turn; it is never shared across conversations.
type TurnContext struct {
	resultSetID string
	fallbackID  string
	corrections int
}

// NewTurnContext returns an empty per-turn context.
func NewTurnContext() *TurnContext {
	return &TurnContext{}
}

// SeedLastKnown records the booking identifier persisted from earlier
// turns in this conversation. It is consulted only when an operation
// arrives with no identifier and no booking was created this turn; it
// never overrides a supplied or authoritative id.
func (t *TurnContext) SeedLastKnown(id string) {
	t.fallbackID = id
}

// ObserveBookingCreated records the identifier of a booking created this
// turn. The most recent successful creation is authoritative.
func (t *TurnContext) ObserveBookingCreated(id string) {
	if id == "" {
		return
	}
	t.resultSetID = id
}

// AuthoritativeID returns the booking identifier established this turn,
// or "" when no booking has been created yet.
func (t *TurnContext) AuthoritativeID() string {
	return t.resultSetID
}

// ReconcileResultSetID returns the identifier the operation must use. When
// an authoritative id exists and the supplied one disagrees, the supplied
// value is silently overridden; the correction is counted and logged for
// diagnostics but never surfaced to the user.
func (t *TurnContext) ReconcileResultSetID(supplied string) string {
	if t.resultSetID == "" {
		if supplied != "" {
			return supplied
		}
		return t.fallbackID
	}
	if supplied != "" && supplied != t.resultSetID {
		t.corrections++
		utils.GetLogger().Warn("Overriding stale result set id",
			zap.String("supplied", supplied),
			zap.String("authoritative", t.resultSetID))
	}
	return t.resultSetID
}

// Corrections reports how many identifier corrections happened this turn.
func (t *TurnContext) Corrections() int {
	return t.corrections
}
