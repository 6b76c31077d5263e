package pricing

import "time"

// ValidityStatus is the derived state of a rate card at an evaluation
// instant. It is recomputed on every query and never stored or cached.
type ValidityStatus string

const (
	// StatusActive means the card is enabled and inside its window.
	StatusActive ValidityStatus = "active"
	// StatusScheduled means the card is enabled but its window has not opened.
	StatusScheduled ValidityStatus = "scheduled"
	// StatusInactive means the card is disabled, or its window has passed.
	StatusInactive ValidityStatus = "inactive"
)

// EvaluateValidity classifies a rate card relative to now. The Active flag is
// the operator's intent; only an enabled card inside [from, to] is active.
func EvaluateValidity(card RateCard, now time.Time) ValidityStatus {
	if !card.Active {
		return StatusInactive
	}
	if now.Before(card.EffectiveFrom) {
		return StatusScheduled
	}
	if now.After(card.EffectiveTo) {
		return StatusInactive
	}
	return StatusActive
}

// CurrentlyValid reports whether the card is active at now.
func CurrentlyValid(card RateCard, now time.Time) bool {
	return EvaluateValidity(card, now) == StatusActive
}
