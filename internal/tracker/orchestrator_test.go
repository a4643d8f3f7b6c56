package tracker

import "testing"

func TestOrchestrator_RefreshAllVisitsEveryRecord(t *testing.T) {
	reg := NewRegistry()
	records := make([]*countingRecord, 0, 4)
	for _, id := range []string{"sensor.a", "sensor.b", "sensor.c", "wifi_rssi"} {
		rec := &countingRecord{identity: id, significant: true}
		records = append(records, rec)
		if err := reg.Add(rec); err != nil {
			t.Fatalf("Add(%q) error = %v", id, err)
		}
	}

	orch := NewOrchestrator(reg)
	orch.RefreshAll()

	// Unconditional and complete, even though every record would have
	// signalled a change.
	for _, rec := range records {
		if rec.updates != 1 {
			t.Errorf("record %q updated %d times, want 1", rec.identity, rec.updates)
		}
		if rec.checks != 0 {
			t.Errorf("record %q checked %d times during refresh, want 0", rec.identity, rec.checks)
		}
	}
}

func TestOrchestrator_ScanShortCircuits(t *testing.T) {
	reg := NewRegistry()
	records := make([]*countingRecord, 0, 5)
	for i, id := range []string{"sensor.a", "sensor.b", "sensor.c", "sensor.d", "sensor.e"} {
		rec := &countingRecord{identity: id, significant: i == 2}
		records = append(records, rec)
		if err := reg.Add(rec); err != nil {
			t.Fatalf("Add(%q) error = %v", id, err)
		}
	}

	orch := NewOrchestrator(reg)
	if !orch.ScanForChange() {
		t.Fatal("ScanForChange() = false, want true")
	}

	wantChecks := []int{1, 1, 1, 0, 0}
	for i, rec := range records {
		if rec.checks != wantChecks[i] {
			t.Errorf("record %q checked %d times, want %d", rec.identity, rec.checks, wantChecks[i])
		}
	}
}

func TestOrchestrator_ScanReportsFalseWhenQuiet(t *testing.T) {
	reg := NewRegistry()
	for _, id := range []string{"sensor.a", "sensor.b"} {
		if err := reg.Add(&countingRecord{identity: id}); err != nil {
			t.Fatalf("Add(%q) error = %v", id, err)
		}
	}

	orch := NewOrchestrator(reg)
	if orch.ScanForChange() {
		t.Error("ScanForChange() = true for quiet registry")
	}
}

func TestOrchestrator_EndToEnd(t *testing.T) {
	// Full flow over real records: seed, flip one value, scan, refresh.
	reg := NewRegistry()

	gate := &fakeSource[bool]{has: true, val: false}
	gateRec := NewRecord[bool]("Sidewalk", "binary_sensor.gate_1", AlwaysSignificant[bool]{})
	if err := gateRec.Bind(gate); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	temp := &fakeSource[float64]{has: true, val: 20.0}
	tempRec := NewRecord[float64]("Temperature", "sensor.outdoor_temp", &ThresholdGated{Threshold: 1.0})
	if err := tempRec.Bind(temp); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	for _, rec := range []Trackable{gateRec, tempRec} {
		if err := reg.Add(rec); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	orch := NewOrchestrator(reg)

	// First scan: gate reports an availability transition (unknown ->
	// available) before any value is compared.
	if !orch.ScanForChange() {
		t.Fatal("initial scan should report the first availability transition")
	}
	orch.RefreshAll()

	// Threshold record has not seen a value comparison yet; its first
	// one triggers and seeds the baseline.
	if !orch.ScanForChange() {
		t.Fatal("scan should report threshold first observation")
	}
	orch.RefreshAll()

	// Quiet now.
	if orch.ScanForChange() {
		t.Fatal("scan should be quiet after refresh")
	}

	// Gate opens.
	gate.val = true
	if !orch.ScanForChange() {
		t.Fatal("scan should report gate opening")
	}
	orch.RefreshAll()

	// Temperature drifts within tolerance.
	temp.val = 20.6
	if orch.ScanForChange() {
		t.Fatal("scan should ignore in-tolerance drift")
	}
}
