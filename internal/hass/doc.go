// Package hass mirrors Home Assistant entity states for the tracker.
//
// Home Assistant's MQTT Statestream integration republishes every entity
// state change on homeassistant/<domain>/<object_id>/state. The Mirror
// subscribes to those topics for each tracked entity and keeps the last
// payload together with a received flag.
//
// Each mirrored Entity exposes typed adapters (Bool, Text, Float) that
// satisfy tracker.Source, so records read entity state without knowing
// anything about MQTT. The binary and numeric adapters report "no value"
// for payloads they cannot parse, which covers "unavailable" and
// "unknown". The text adapter passes those through as literal states for
// the policies to judge. Entity state is mutex-guarded because
// statestream messages arrive on paho's goroutines while the poll loop
// reads from its own.
package hass
