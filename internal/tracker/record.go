package tracker

import "fmt"

// Record tracks one quantity of value type V. It caches the last
// observed value and availability of its Source and applies a fixed
// significance Policy to decide whether a change warrants a refresh.
//
// Lifecycle: construct with NewRecord, register in a Registry, then wire
// to a live source exactly once with Bind during the initialisation
// phase. Update and CheckSignificant are safe to call before Bind; they
// are no-ops until a source is present.
type Record[V comparable] struct {
	name     string
	identity string
	hasValue bool
	cached   V
	source   Source[V]
	policy   Policy[V]
	logger   Logger
}

// NewRecord creates an unbound record with the given display name,
// identity and significance policy.
func NewRecord[V comparable](name, identity string, policy Policy[V]) *Record[V] {
	return &Record[V]{
		name:     name,
		identity: identity,
		policy:   policy,
		logger:   noopLogger{},
	}
}

// SetLogger sets the diagnostic sink for this record. A nil logger
// leaves the no-op sink in place.
func (r *Record[V]) SetLogger(logger Logger) {
	if logger == nil {
		return
	}
	r.logger = logger
}

// Bind wires the record to its live value source. It must be called
// exactly once, before checks are meaningful; a second call is a
// programmer error and fails fast.
func (r *Record[V]) Bind(source Source[V]) error {
	if source == nil {
		return fmt.Errorf("%w: %s", ErrNilSource, r.identity)
	}
	if r.source != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyBound, r.identity)
	}
	r.source = source
	return nil
}

// Name returns the display name used for diagnostics.
func (r *Record[V]) Name() string { return r.name }

// Identity returns the record's lookup key.
func (r *Record[V]) Identity() string { return r.identity }

// HasValue reports whether the most recent Update observed usable data.
func (r *Record[V]) HasValue() bool { return r.hasValue }

// Value returns the cached value from the most recent Update.
// Only meaningful when HasValue reports true.
func (r *Record[V]) Value() V { return r.cached }

// Update refreshes the cached availability and, when the source has
// data, the cached value. Unbound records are left untouched.
func (r *Record[V]) Update() {
	if r.source == nil {
		return
	}
	r.hasValue = r.source.HasValue()
	if r.hasValue {
		r.cached = r.source.Value()
	}
}

// CheckSignificant is the unified change-detection entry point.
//
// Availability transitions (in either direction) are always significant
// and short-circuit the policy: a passive sensor still reports a lost or
// regained source. Only when the source has data and availability is
// unchanged does the record's policy see the current value. The policy
// may mutate the cached value as part of its decision.
//
// CheckSignificant never mutates the availability flag; that is Update's
// job, so a transition stays visible until the caller refreshes.
func (r *Record[V]) CheckSignificant() bool {
	if r.source == nil {
		return false
	}

	currentHasValue := r.source.HasValue()
	if currentHasValue != r.hasValue {
		r.Log(fmt.Sprintf("Availability changed (%s -> %s)",
			availability(r.hasValue), availability(currentHasValue)))
		return true
	}

	if !currentHasValue {
		return false
	}

	significant, reason := r.policy.Significant(r.source.Value(), &r.cached)
	if reason != "" {
		r.Log(reason)
	}
	return significant
}

// Log emits "<display_name>: <reason>" through the record's logger.
func (r *Record[V]) Log(reason string) {
	r.logger.Debug(r.name + ": " + reason)
}

// Snapshot returns the record's current cached state.
func (r *Record[V]) Snapshot() Snapshot {
	return Snapshot{
		Name:      r.name,
		Identity:  r.identity,
		Available: r.hasValue,
		Value:     fmt.Sprintf("%v", r.cached),
	}
}

// availability renders a has-value flag for the transition log message.
func availability(hasValue bool) string {
	if hasValue {
		return "available"
	}
	return "unavailable"
}
