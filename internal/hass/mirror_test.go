package hass

import (
	"errors"
	"testing"

	"github.com/birgenshire/homink-core/internal/infrastructure/mqtt"
)

// fakeSubscriber records subscriptions and lets tests inject messages.
type fakeSubscriber struct {
	handlers map[string]mqtt.MessageHandler
	err      error
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{handlers: make(map[string]mqtt.MessageHandler)}
}

func (f *fakeSubscriber) Subscribe(topic string, _ byte, handler mqtt.MessageHandler) error {
	if f.err != nil {
		return f.err
	}
	f.handlers[topic] = handler
	return nil
}

func (f *fakeSubscriber) deliver(t *testing.T, topic, payload string) {
	t.Helper()
	handler, ok := f.handlers[topic]
	if !ok {
		t.Fatalf("no subscription for topic %q", topic)
	}
	if err := handler(topic, []byte(payload)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestMirror_TrackSubscribesToStatestream(t *testing.T) {
	sub := newFakeSubscriber()
	mirror := NewMirror(sub, 1, nil)

	entity, err := mirror.Track("sensor.outdoor_temp")
	if err != nil {
		t.Fatalf("Track() error = %v", err)
	}

	const topic = "homeassistant/sensor/outdoor_temp/state"
	if _, ok := sub.handlers[topic]; !ok {
		t.Fatalf("Track() did not subscribe to %q (got %v)", topic, sub.handlers)
	}

	sub.deliver(t, topic, "19.8")
	src := entity.Float()
	if !src.HasValue() || src.Value() != 19.8 {
		t.Errorf("after delivery: HasValue() = %v, Value() = %v", src.HasValue(), src.Value())
	}
}

func TestMirror_TrackIsIdempotent(t *testing.T) {
	sub := newFakeSubscriber()
	mirror := NewMirror(sub, 1, nil)

	first, err := mirror.Track("lock.shed_lock")
	if err != nil {
		t.Fatalf("Track() error = %v", err)
	}
	second, err := mirror.Track("lock.shed_lock")
	if err != nil {
		t.Fatalf("second Track() error = %v", err)
	}

	if first != second {
		t.Error("Track() returned a new entity for a known ID")
	}
	if len(sub.handlers) != 1 {
		t.Errorf("expected 1 subscription, got %d", len(sub.handlers))
	}
	if mirror.EntityCount() != 1 {
		t.Errorf("EntityCount() = %d, want 1", mirror.EntityCount())
	}
}

func TestMirror_TrackRejectsMalformedEntityID(t *testing.T) {
	mirror := NewMirror(newFakeSubscriber(), 1, nil)

	if _, err := mirror.Track("wifi_rssi"); !errors.Is(err, mqtt.ErrInvalidTopic) {
		t.Errorf("Track(local identity) error = %v, want ErrInvalidTopic", err)
	}
}

func TestMirror_TrackPropagatesSubscribeError(t *testing.T) {
	sub := newFakeSubscriber()
	sub.err = mqtt.ErrNotConnected
	mirror := NewMirror(sub, 1, nil)

	if _, err := mirror.Track("sun.sun"); !errors.Is(err, mqtt.ErrNotConnected) {
		t.Errorf("Track() error = %v, want ErrNotConnected", err)
	}
	if mirror.EntityCount() != 0 {
		t.Error("failed Track() should not register the entity")
	}
}
