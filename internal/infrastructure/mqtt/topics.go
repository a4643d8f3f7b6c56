package mqtt

import (
	"fmt"
	"strings"
)

// statestreamPrefix is the base topic of Home Assistant's MQTT
// Statestream integration, which republishes every entity state change.
const statestreamPrefix = "homeassistant"

// hominkPrefix is the base topic for messages published by this device.
const hominkPrefix = "homink"

// Topics provides builders for the topic trees the daemon uses. Using
// these helpers keeps topic naming consistent between the entity mirror,
// the poll loop and external subscribers.
type Topics struct {
	// Device is the device name inserted into homink topics.
	Device string
}

// EntityState returns the statestream state topic for a Home Assistant
// entity ID.
//
// Example: "sensor.outdoor_temp" -> "homeassistant/sensor/outdoor_temp/state"
func (Topics) EntityState(entityID string) (string, error) {
	domain, object, ok := strings.Cut(entityID, ".")
	if !ok || domain == "" || object == "" {
		return "", fmt.Errorf("%w: malformed entity ID %q", ErrInvalidTopic, entityID)
	}
	return fmt.Sprintf("%s/%s/%s/state", statestreamPrefix, domain, object), nil
}

// DeviceStatus returns the topic carrying this device's online/offline
// status (also used as the LWT topic).
//
// Example: homink/entrance/status
func (t Topics) DeviceStatus() string {
	return fmt.Sprintf("%s/%s/status", hominkPrefix, t.Device)
}

// DisplayRefresh returns the topic on which refresh decisions are
// announced to the panel driver.
//
// Example: homink/entrance/display/refresh
func (t Topics) DisplayRefresh() string {
	return fmt.Sprintf("%s/%s/display/refresh", hominkPrefix, t.Device)
}
