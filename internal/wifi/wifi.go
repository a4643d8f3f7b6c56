// Package wifi samples the device's own WiFi signal strength.
//
// Unlike the mirrored Home Assistant entities, WiFi RSSI is a local
// signal: it is read from /proc/net/wireless on the poll loop, so the
// Signal needs no synchronisation. A failed or missing sample reads as
// unavailable, which the tracker surfaces as an availability transition
// exactly once.
package wifi

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// procWireless is where the kernel exposes per-interface signal stats.
const procWireless = "/proc/net/wireless"

// Signal is a tracker source for the RSSI of one wireless interface.
// Sample must be called (from the poll loop) before reads are useful.
type Signal struct {
	iface    string
	procPath string

	level float64
	ok    bool
}

// NewSignal creates a source for the given interface, e.g. "wlan0".
func NewSignal(iface string) *Signal {
	return newSignal(iface, procWireless)
}

func newSignal(iface, procPath string) *Signal {
	return &Signal{iface: iface, procPath: procPath}
}

// Sample reads the current signal level from the kernel. On any failure
// the source reads as unavailable until the next successful sample.
func (s *Signal) Sample() error {
	data, err := os.ReadFile(s.procPath)
	if err != nil {
		s.ok = false
		return fmt.Errorf("reading %s: %w", s.procPath, err)
	}

	level, err := parseWireless(string(data), s.iface)
	if err != nil {
		s.ok = false
		return err
	}

	s.level = level
	s.ok = true
	return nil
}

// HasValue reports whether the last sample succeeded.
func (s *Signal) HasValue() bool { return s.ok }

// Value returns the signal level in dBm from the last sample.
func (s *Signal) Value() float64 { return s.level }

// parseWireless extracts the signal level column for an interface from
// /proc/net/wireless content. The file has two header lines followed by
// one line per interface:
//
//	 wlan0: 0000   54.  -56.  -256        0      0      0      0      0        0
//
// Columns are status, link quality, level (dBm) and noise; quality and
// level carry a trailing dot.
func parseWireless(content, iface string) (float64, error) {
	prefix := iface + ":"
	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 || fields[0] != prefix {
			continue
		}
		level, err := strconv.ParseFloat(strings.TrimSuffix(fields[3], "."), 64)
		if err != nil {
			return 0, fmt.Errorf("wifi: malformed level %q for %s", fields[3], iface)
		}
		return level, nil
	}
	return 0, fmt.Errorf("wifi: interface %s not found", iface)
}
