package tracker

import (
	"errors"
	"strings"
	"testing"
)

// fakeSource is a test implementation of Source.
type fakeSource[V any] struct {
	has bool
	val V
}

func (f *fakeSource[V]) HasValue() bool { return f.has }
func (f *fakeSource[V]) Value() V       { return f.val }

// captureLogger records debug messages for assertions.
type captureLogger struct {
	msgs []string
}

func (l *captureLogger) Debug(msg string, _ ...any) { l.msgs = append(l.msgs, msg) }
func (l *captureLogger) Info(string, ...any)        {}
func (l *captureLogger) Warn(string, ...any)        {}
func (l *captureLogger) Error(string, ...any)       {}

func (l *captureLogger) contains(substr string) bool {
	for _, msg := range l.msgs {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

func TestRecord_UnboundIsInert(t *testing.T) {
	rec := NewRecord[string]("Lock", "lock.shed_lock", AlwaysSignificant[string]{})

	if rec.CheckSignificant() {
		t.Error("CheckSignificant() = true for unbound record, want false")
	}

	// Update must be a safe no-op before wiring.
	rec.Update()
	if rec.HasValue() {
		t.Error("HasValue() = true after no-op Update on unbound record")
	}
}

func TestRecord_BindTwiceFails(t *testing.T) {
	rec := NewRecord[bool]("Sidewalk", "binary_sensor.gate_1", AlwaysSignificant[bool]{})

	if err := rec.Bind(&fakeSource[bool]{}); err != nil {
		t.Fatalf("first Bind() error = %v", err)
	}
	err := rec.Bind(&fakeSource[bool]{})
	if !errors.Is(err, ErrAlreadyBound) {
		t.Errorf("second Bind() error = %v, want ErrAlreadyBound", err)
	}
}

func TestRecord_BindNilFails(t *testing.T) {
	rec := NewRecord[bool]("Sidewalk", "binary_sensor.gate_1", AlwaysSignificant[bool]{})

	if err := rec.Bind(nil); !errors.Is(err, ErrNilSource) {
		t.Errorf("Bind(nil) error = %v, want ErrNilSource", err)
	}
}

func TestRecord_ValueChangeSignificant(t *testing.T) {
	src := &fakeSource[string]{has: true, val: "closed"}
	rec := NewRecord[string]("Lock", "lock.shed_lock", AlwaysSignificant[string]{})
	if err := rec.Bind(src); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	// Seed the cache with the initial value.
	rec.Update()
	if got := rec.Value(); got != "closed" {
		t.Fatalf("Value() = %q after update, want %q", got, "closed")
	}

	// Same value: nothing to report.
	if rec.CheckSignificant() {
		t.Error("CheckSignificant() = true with unchanged value")
	}

	src.val = "open"
	if !rec.CheckSignificant() {
		t.Error("CheckSignificant() = false for closed -> open, want true")
	}

	// The check itself must not move the cache; Update does.
	if got := rec.Value(); got != "closed" {
		t.Errorf("Value() = %q after check, want cached %q", got, "closed")
	}
	rec.Update()
	if got := rec.Value(); got != "open" {
		t.Errorf("Value() = %q after update, want %q", got, "open")
	}
}

func TestRecord_AvailabilityTransitionDominates(t *testing.T) {
	// A passive record would never trigger on values, but an
	// availability flip must still be reported.
	src := &fakeSource[float64]{has: true, val: 12.5}
	log := &captureLogger{}
	rec := NewRecord[float64]("Sun Elevation", "sun.sun", NeverSignificant[float64]{})
	rec.SetLogger(log)
	if err := rec.Bind(src); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	// Wired but never updated: record believes unavailable, source is
	// available. That first check is itself a transition.
	if !rec.CheckSignificant() {
		t.Fatal("CheckSignificant() = false on unknown -> available transition")
	}
	if !log.contains("Availability changed (unavailable -> available)") {
		t.Errorf("missing availability log, got %v", log.msgs)
	}
	rec.Update()

	// Went offline.
	src.has = false
	if !rec.CheckSignificant() {
		t.Error("CheckSignificant() = false on available -> unavailable transition")
	}
	if !log.contains("Availability changed (available -> unavailable)") {
		t.Errorf("missing availability log, got %v", log.msgs)
	}
	rec.Update()

	// Still offline: the transition was consumed by Update, nothing new.
	if rec.CheckSignificant() {
		t.Error("CheckSignificant() = true while steadily unavailable")
	}
}

func TestRecord_PassiveValueChangesIgnored(t *testing.T) {
	src := &fakeSource[float64]{has: true, val: 1.0}
	rec := NewRecord[float64]("Solar Energy Today", "sensor.solar_production_last_24h", NeverSignificant[float64]{})
	if err := rec.Bind(src); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	rec.Update()

	for _, v := range []float64{2.0, 17.3, -4.0, 0} {
		src.val = v
		if rec.CheckSignificant() {
			t.Errorf("CheckSignificant() = true for passive record at value %v", v)
		}
		rec.Update()
	}
}

func TestRecord_UpdateSkipsValueWhenUnavailable(t *testing.T) {
	src := &fakeSource[string]{has: true, val: "cloudy"}
	rec := NewRecord[string]("Weather", "sensor.openweathermap_condition", AlwaysSignificant[string]{})
	if err := rec.Bind(src); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	rec.Update()

	// Source loses its value: the record retains its last known state.
	src.has = false
	src.val = ""
	rec.Update()
	if rec.HasValue() {
		t.Error("HasValue() = true after source went unavailable")
	}
	if got := rec.Value(); got != "cloudy" {
		t.Errorf("Value() = %q, want retained %q", got, "cloudy")
	}
}

func TestRecord_LogFormat(t *testing.T) {
	log := &captureLogger{}
	rec := NewRecord[bool]("Driveway", "binary_sensor.gate_2", AlwaysSignificant[bool]{})
	rec.SetLogger(log)

	rec.Log("change detected - triggering update")

	if len(log.msgs) != 1 || log.msgs[0] != "Driveway: change detected - triggering update" {
		t.Errorf("Log() emitted %v, want %q", log.msgs, "Driveway: change detected - triggering update")
	}
}

func TestRecord_Snapshot(t *testing.T) {
	src := &fakeSource[float64]{has: true, val: 21.5}
	rec := NewRecord[float64]("Temperature", "sensor.outdoor_temp", &ThresholdGated{Threshold: 1.0})
	if err := rec.Bind(src); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	rec.Update()

	snap := rec.Snapshot()
	if snap.Name != "Temperature" || snap.Identity != "sensor.outdoor_temp" {
		t.Errorf("Snapshot identity = %q/%q", snap.Name, snap.Identity)
	}
	if !snap.Available {
		t.Error("Snapshot.Available = false, want true")
	}
	if snap.Value != "21.5" {
		t.Errorf("Snapshot.Value = %q, want %q", snap.Value, "21.5")
	}
}
