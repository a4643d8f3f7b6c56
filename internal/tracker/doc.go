// Package tracker implements the change-detection core for the homink
// e-ink display.
//
// Each tracked quantity (a Home Assistant entity or a device-local signal
// such as WiFi RSSI) is represented by a Record that caches the last
// observed value and availability of an external Source. A pluggable
// Policy decides whether a value change is significant enough to warrant
// a display refresh; availability transitions are always significant and
// are handled once in the shared record logic, so policies never repeat
// null/availability checks.
//
// Records are collected in an explicit, append-only Registry and driven
// by an Orchestrator:
//
//	reg := tracker.NewRegistry()
//	rec := tracker.NewRecord[string]("Lock", "lock.shed_lock", tracker.AlwaysSignificant[string]{})
//	reg.Add(rec)
//	rec.Bind(source)
//
//	orch := tracker.NewOrchestrator(reg)
//	if orch.ScanForChange() {
//	    orch.RefreshAll()
//	    // repaint the display
//	}
//
// # Concurrency
//
// The package is deliberately free of synchronisation: all operations are
// synchronous, bounded work over a small fixed collection, and exactly
// one logical thread of control (the device poll loop) may touch a given
// record. Sources that are fed from other goroutines (e.g. MQTT handlers)
// must synchronise internally; see internal/hass.
package tracker
