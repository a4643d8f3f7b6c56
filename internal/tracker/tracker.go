package tracker

import "errors"

// IdentitySeparator distinguishes remote entity identities from local
// ones. Home Assistant entity IDs always contain it ("sensor.outdoor_temp");
// device-local signals ("wifi_rssi") never do.
const IdentitySeparator = "."

// Domain-specific errors. Use errors.Is() to check for these in calling code.
var (
	// ErrDuplicateIdentity is returned when a record with the same
	// identity is already registered.
	ErrDuplicateIdentity = errors.New("tracker: duplicate identity")

	// ErrEmptyIdentity is returned when a record has no identity.
	ErrEmptyIdentity = errors.New("tracker: identity cannot be empty")

	// ErrAlreadyBound is returned when Bind is called on a record that
	// already has a source.
	ErrAlreadyBound = errors.New("tracker: record already bound to a source")

	// ErrNilSource is returned when Bind is called with a nil source.
	ErrNilSource = errors.New("tracker: source cannot be nil")
)

// Source supplies the live value behind a Record. Implementations are
// external collaborators (entity mirror, WiFi sampler); the tracker only
// reads from them, never writes back.
type Source[V any] interface {
	// HasValue reports whether the source currently has usable data.
	HasValue() bool

	// Value returns the current value. Only meaningful when HasValue
	// reports true.
	Value() V
}

// Trackable is the capability set shared by all records regardless of
// value type. It is what the Registry iterates over.
type Trackable interface {
	// Update copies the source's availability and current value into the
	// record's cache. No-op when the record is unbound.
	Update()

	// CheckSignificant reports whether the sensor's change warrants a
	// display refresh. Unbound records always report false.
	CheckSignificant() bool

	// Name returns the human-readable display name.
	Name() string

	// Identity returns the immutable lookup key (entity ID or local
	// signal name).
	Identity() string

	// Log emits a diagnostic message identified by the record's display
	// name. It never affects control flow.
	Log(reason string)

	// Snapshot returns the record's current cached state for the status API.
	Snapshot() Snapshot
}

// Snapshot is a read-only view of a record's cached state.
type Snapshot struct {
	Name      string `json:"name"`
	Identity  string `json:"identity"`
	Available bool   `json:"available"`
	Value     string `json:"value"`
}

// Logger is the minimal logging interface used by this package.
// It is satisfied by logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
