package tracker

import (
	"fmt"
	"math"
)

// Policy decides whether a value change, given that both values are
// present, warrants a display refresh. Availability is handled by the
// Record before the policy is consulted, so implementations compare
// values only.
//
// The cached value is passed by reference: threshold-style policies
// update it as part of their decision, while equality-style policies
// leave it to the subsequent Update call. The returned reason, when
// non-empty, is emitted through the record's diagnostic log regardless
// of the decision.
type Policy[V comparable] interface {
	Significant(current V, cached *V) (significant bool, reason string)
}

// AlwaysSignificant triggers on any value change. Used for state
// sensors: binary (gates, doors) and plain text (lock, weather).
type AlwaysSignificant[V comparable] struct{}

// Significant reports true when the current value differs from the cache.
func (AlwaysSignificant[V]) Significant(current V, cached *V) (bool, string) {
	return current != *cached, ""
}

// NeverSignificant never triggers. Used for passive sensors that are
// rendered opportunistically when something else refreshes the display.
type NeverSignificant[V comparable] struct{}

// Significant always reports false and never mutates the cache.
func (NeverSignificant[V]) Significant(V, *V) (bool, string) {
	return false, ""
}

// ThresholdGated triggers when a numeric value moves more than Threshold
// away from the cached baseline. The first observation always triggers
// and seeds the baseline.
//
// The original firmware marked "no baseline yet" with the float maximum,
// which made a legitimate max-valued reading indistinguishable from an
// uninitialised one. The explicit flag here removes that collision while
// keeping the first-observation-triggers behaviour.
//
// ThresholdGated carries per-record state; use a distinct pointer per
// record.
type ThresholdGated struct {
	Threshold float64

	initialised bool
}

// Significant seeds the baseline on first observation, then triggers
// whenever the absolute change exceeds the threshold, moving the
// baseline on each trigger.
func (p *ThresholdGated) Significant(current float64, cached *float64) (bool, string) {
	if !p.initialised {
		p.initialised = true
		*cached = current
		return true, "Initialized with first value - triggering update"
	}

	if math.Abs(current-*cached) > p.Threshold {
		*cached = current
		return true, "Threshold exceeded - triggering update"
	}

	return false, ""
}

// FilteredEquality triggers on text changes like AlwaysSignificant but
// treats one value as "not a real state": transitions into or out of the
// ignored value are suppressed. Used for the EV charger status, whose
// integration briefly reports "unavailable" between real states.
type FilteredEquality struct {
	Ignored string
}

// Significant suppresses transitions touching the ignored value and
// otherwise reports inequality with the cache.
func (p FilteredEquality) Significant(current string, cached *string) (bool, string) {
	if current == p.Ignored {
		return false, fmt.Sprintf("Ignoring transition to '%s'", p.Ignored)
	}
	if *cached == p.Ignored {
		return false, fmt.Sprintf("Ignoring transition from '%s'", p.Ignored)
	}
	return current != *cached, ""
}
