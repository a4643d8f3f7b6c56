package tracker

// Orchestrator drives the registry on behalf of the external poll loop.
// It decides nothing about rendering; it only answers whether anything
// downstream should happen.
type Orchestrator struct {
	registry *Registry
}

// NewOrchestrator creates an orchestrator over the given registry.
func NewOrchestrator(registry *Registry) *Orchestrator {
	return &Orchestrator{registry: registry}
}

// RefreshAll calls Update on every registered record in registration
// order. It never short-circuits: caches must be complete for future
// comparisons to be correct, even when no refresh is pending.
func (o *Orchestrator) RefreshAll() {
	for record := range o.registry.All() {
		record.Update()
	}
}

// ScanForChange checks records in registration order and reports true on
// the first significant change, leaving later records unchecked in this
// call. A scan only needs to answer a boolean "should the display
// repaint", so unlike RefreshAll it short-circuits.
func (o *Orchestrator) ScanForChange() bool {
	for record := range o.registry.All() {
		if record.CheckSignificant() {
			record.Log("change detected - triggering update")
			return true
		}
	}
	return false
}
