package tracker

import (
	"fmt"
	"iter"
	"strings"
)

// Registry is the ordered collection of all tracked records. It is
// append-only: records are added during construction at process start
// and never removed.
//
// Registration order is significant: ScanForChange must report the first
// record (in registration order) whose change is significant, and
// RemoteIdentities preserves it.
type Registry struct {
	records    []Trackable
	identities map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		identities: make(map[string]struct{}),
	}
}

// Add appends a record to the registry. Identities are unique for the
// process lifetime; a duplicate or empty identity is a configuration
// error and fails fast.
func (g *Registry) Add(record Trackable) error {
	identity := record.Identity()
	if identity == "" {
		return fmt.Errorf("%w: %q", ErrEmptyIdentity, record.Name())
	}
	if _, exists := g.identities[identity]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateIdentity, identity)
	}
	g.identities[identity] = struct{}{}
	g.records = append(g.records, record)
	return nil
}

// Len returns the number of registered records.
func (g *Registry) Len() int {
	return len(g.records)
}

// All returns a restartable traversal over all records in registration
// order.
func (g *Registry) All() iter.Seq[Trackable] {
	return func(yield func(Trackable) bool) {
		for _, record := range g.records {
			if !yield(record) {
				return
			}
		}
	}
}

// RemoteIdentities returns the comma-joined identities of all
// remote-sourced records (identities containing the separator), in
// registration order. Local signals such as WiFi RSSI are excluded.
//
// The external polling collaborator uses this list to know which Home
// Assistant entities to fetch.
func (g *Registry) RemoteIdentities() string {
	var b strings.Builder
	for _, record := range g.records {
		identity := record.Identity()
		if !strings.Contains(identity, IdentitySeparator) {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(identity)
	}
	return b.String()
}

// Snapshots returns the current cached state of every record, in
// registration order. Used by the status API.
func (g *Registry) Snapshots() []Snapshot {
	snapshots := make([]Snapshot, 0, len(g.records))
	for _, record := range g.records {
		snapshots = append(snapshots, record.Snapshot())
	}
	return snapshots
}
