// Package mqtt provides MQTT connectivity for the homink daemon.
//
// The display mirrors Home Assistant entity states published on the MQTT
// statestream, and announces its own refresh decisions so the panel
// driver (and anything else on the bus) can react. This package wraps
// paho.mqtt.golang with:
//
//   - Connection management with auto-reconnect and backoff
//   - Last Will and Testament on homink/<device>/status for offline detection
//   - Tracked subscriptions, restored automatically after reconnect
//   - Panic-recovering message handler wrapper
//   - Topic builders for the statestream and homink topic trees
//
// All methods are safe for concurrent use from multiple goroutines.
// Message handlers run on paho's goroutines; anything they touch must
// synchronise internally (see internal/hass).
package mqtt
