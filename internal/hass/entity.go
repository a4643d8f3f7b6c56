package hass

import (
	"strconv"
	"strings"
	"sync"

	"github.com/birgenshire/homink-core/internal/tracker"
)

// Entity holds the last observed state of one Home Assistant entity.
//
// observe runs on MQTT handler goroutines; the typed source adapters
// read from the poll loop. All access goes through the mutex.
type Entity struct {
	id string

	mu       sync.RWMutex
	raw      string
	received bool
}

// NewEntity creates an entity handle with no observed state.
func NewEntity(id string) *Entity {
	return &Entity{id: id}
}

// ID returns the Home Assistant entity ID.
func (e *Entity) ID() string { return e.id }

// observe records a statestream payload.
func (e *Entity) observe(payload string) {
	e.mu.Lock()
	e.raw = strings.TrimSpace(payload)
	e.received = true
	e.mu.Unlock()
}

// state returns the last payload and whether anything has been received.
func (e *Entity) state() (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.raw, e.received && e.raw != ""
}

// Bool returns a tracker source reading the entity as an on/off state.
// Any other payload (including "unavailable") reads as no value.
func (e *Entity) Bool() tracker.Source[bool] {
	return boolSource{e}
}

// Text returns a tracker source reading the entity as a plain string.
//
// "unavailable" and "unknown" pass through as literal states: text
// records either treat them as ordinary values or suppress them with a
// FilteredEquality policy, exactly as the entity's integration reports
// them.
func (e *Entity) Text() tracker.Source[string] {
	return textSource{e}
}

// Float returns a tracker source reading the entity as a number.
// Unparsable payloads ("unavailable", "unknown", free text) read as no
// value rather than as zero.
func (e *Entity) Float() tracker.Source[float64] {
	return floatSource{e}
}

type boolSource struct{ e *Entity }

func (s boolSource) HasValue() bool {
	raw, ok := s.e.state()
	return ok && (raw == "on" || raw == "off")
}

func (s boolSource) Value() bool {
	raw, _ := s.e.state()
	return raw == "on"
}

type textSource struct{ e *Entity }

func (s textSource) HasValue() bool {
	_, ok := s.e.state()
	return ok
}

func (s textSource) Value() string {
	raw, _ := s.e.state()
	return raw
}

type floatSource struct{ e *Entity }

func (s floatSource) HasValue() bool {
	raw, ok := s.e.state()
	if !ok {
		return false
	}
	_, err := strconv.ParseFloat(raw, 64)
	return err == nil
}

func (s floatSource) Value() float64 {
	raw, _ := s.e.state()
	v, _ := strconv.ParseFloat(raw, 64)
	return v
}
