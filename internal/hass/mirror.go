package hass

import (
	"fmt"
	"sync"

	"github.com/birgenshire/homink-core/internal/infrastructure/mqtt"
)

// Subscriber is the slice of the MQTT client the mirror needs.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Logger is the minimal logging interface used by the mirror.
type Logger interface {
	Debug(msg string, args ...any)
}

// Mirror tracks a set of Home Assistant entities over the MQTT
// statestream and hands out their Entity handles.
//
// Track is idempotent per entity ID; the entity set is fixed during the
// wiring phase at startup and only read afterwards.
type Mirror struct {
	client Subscriber
	qos    byte
	logger Logger

	mu       sync.RWMutex
	entities map[string]*Entity
}

// NewMirror creates a mirror subscribing through the given client.
// Logger may be nil.
func NewMirror(client Subscriber, qos byte, logger Logger) *Mirror {
	return &Mirror{
		client:   client,
		qos:      qos,
		logger:   logger,
		entities: make(map[string]*Entity),
	}
}

// Track subscribes to the statestream state topic for the given entity
// and returns its handle. Calling Track again for a known entity returns
// the existing handle.
func (m *Mirror) Track(entityID string) (*Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entity, ok := m.entities[entityID]; ok {
		return entity, nil
	}

	topic, err := mqtt.Topics{}.EntityState(entityID)
	if err != nil {
		return nil, err
	}

	entity := NewEntity(entityID)
	handler := func(_ string, payload []byte) error {
		entity.observe(string(payload))
		if m.logger != nil {
			m.logger.Debug("entity state received", "entity", entityID, "state", string(payload))
		}
		return nil
	}

	if err := m.client.Subscribe(topic, m.qos, handler); err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", entityID, err)
	}

	m.entities[entityID] = entity
	return entity, nil
}

// EntityCount returns the number of tracked entities.
func (m *Mirror) EntityCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entities)
}
