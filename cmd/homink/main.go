// Homink - e-ink status display daemon
//
// Homink mirrors a small set of Home Assistant entity states plus the
// device's own WiFi signal, and decides per sensor whether a change
// warrants repainting the attached display. State arrives over the MQTT
// statestream; refresh triggers are published back over MQTT and
// streamed to diagnostic WebSocket clients.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/birgenshire/homink-core/internal/api"
	"github.com/birgenshire/homink-core/internal/hass"
	"github.com/birgenshire/homink-core/internal/infrastructure/config"
	"github.com/birgenshire/homink-core/internal/infrastructure/logging"
	"github.com/birgenshire/homink-core/internal/infrastructure/mqtt"
	"github.com/birgenshire/homink-core/internal/tracker"
	"github.com/birgenshire/homink-core/internal/wifi"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for
// testability. Returning an error allows main to handle exit codes
// consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting homink",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT, cfg.Device.Name, log)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Build the sensor registry from the declaration set
	mirror := hass.NewMirror(mqttClient, byte(cfg.MQTT.QoS), log)
	registry, signals, err := buildRegistry(cfg, mirror, log)
	if err != nil {
		return fmt.Errorf("building sensor registry: %w", err)
	}
	log.Info("sensor registry initialised",
		"sensors", registry.Len(),
		"remote_entities", registry.RemoteIdentities(),
	)

	orchestrator := tracker.NewOrchestrator(registry)

	// Start the diagnostic API server
	server, err := api.New(api.Deps{
		Config:  cfg.API,
		WS:      cfg.WebSocket,
		Logger:  log,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, entering poll loop",
		"interval", cfg.PollInterval(),
	)

	pollLoop(ctx, cfg, log, mqttClient, orchestrator, registry, signals, server)

	log.Info("homink stopped")
	return nil
}

// entityTracker is the slice of the entity mirror the registry builder
// needs.
type entityTracker interface {
	Track(entityID string) (*hass.Entity, error)
}

// buildRegistry turns the configured sensor declarations into bound,
// registered records. The WiFi signals are returned separately so the
// poll loop can sample them each tick.
func buildRegistry(cfg *config.Config, mirror entityTracker, log tracker.Logger) (*tracker.Registry, []*wifi.Signal, error) {
	registry := tracker.NewRegistry()
	var signals []*wifi.Signal

	for _, s := range cfg.Sensors {
		record, signal, err := buildRecord(cfg, s, mirror, log)
		if err != nil {
			return nil, nil, fmt.Errorf("sensor %q: %w", s.Entity, err)
		}
		if err := registry.Add(record); err != nil {
			return nil, nil, err
		}
		if signal != nil {
			signals = append(signals, signal)
		}
	}

	return registry, signals, nil
}

// buildRecord constructs one record with its policy and source. The
// second return value is non-nil only for WiFi sensors.
func buildRecord(cfg *config.Config, s config.SensorConfig, mirror entityTracker, log tracker.Logger) (tracker.Trackable, *wifi.Signal, error) {
	if s.Kind == config.SensorWiFi {
		signal := wifi.NewSignal(cfg.Device.WiFiInterface)
		record := tracker.NewRecord[float64](s.Name, s.Entity, tracker.NeverSignificant[float64]{})
		record.SetLogger(log)
		if err := record.Bind(signal); err != nil {
			return nil, nil, err
		}
		return record, signal, nil
	}

	entity, err := mirror.Track(s.Entity)
	if err != nil {
		return nil, nil, err
	}

	switch s.Kind {
	case config.SensorBinary:
		record := tracker.NewRecord[bool](s.Name, s.Entity, tracker.AlwaysSignificant[bool]{})
		record.SetLogger(log)
		return record, nil, record.Bind(entity.Bool())

	case config.SensorText:
		record := tracker.NewRecord[string](s.Name, s.Entity, tracker.AlwaysSignificant[string]{})
		record.SetLogger(log)
		return record, nil, record.Bind(entity.Text())

	case config.SensorTextFiltered:
		record := tracker.NewRecord[string](s.Name, s.Entity, tracker.FilteredEquality{Ignored: s.Ignore})
		record.SetLogger(log)
		return record, nil, record.Bind(entity.Text())

	case config.SensorThreshold:
		record := tracker.NewRecord[float64](s.Name, s.Entity, &tracker.ThresholdGated{Threshold: s.Threshold})
		record.SetLogger(log)
		return record, nil, record.Bind(entity.Float())

	case config.SensorPassive:
		// Passive sensors are numeric; the float adapter reads
		// "unavailable" as lost availability, which still repaints the
		// display even though value changes never do.
		record := tracker.NewRecord[float64](s.Name, s.Entity, tracker.NeverSignificant[float64]{})
		record.SetLogger(log)
		return record, nil, record.Bind(entity.Float())

	default:
		// Validation rejects unknown kinds before this point.
		return nil, nil, fmt.Errorf("unknown sensor kind %q", s.Kind)
	}
}

// refreshEvent is the payload published when a display refresh triggers.
type refreshEvent struct {
	Device    string `json:"device"`
	Timestamp string `json:"timestamp"`
}

// pollLoop runs the change scan until the context is cancelled.
//
// Each tick: sample local WiFi signals, scan for a significant change,
// and on a hit refresh every cache, announce the refresh over MQTT and
// push the fresh snapshots to WebSocket clients. Snapshots for the REST
// endpoints are updated every tick regardless.
func pollLoop(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	mqttClient *mqtt.Client,
	orchestrator *tracker.Orchestrator,
	registry *tracker.Registry,
	signals []*wifi.Signal,
	server *api.Server,
) {
	ticker := time.NewTicker(cfg.PollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received")
			return
		case <-ticker.C:
		}

		for _, signal := range signals {
			if err := signal.Sample(); err != nil {
				log.Debug("wifi sample failed", "error", err)
			}
		}

		if orchestrator.ScanForChange() {
			orchestrator.RefreshAll()
			announceRefresh(cfg, log, mqttClient, server, registry)
		}

		server.SetSnapshots(registry.Snapshots())
	}
}

// announceRefresh publishes the retained refresh trigger and streams the
// fresh snapshots to WebSocket clients.
func announceRefresh(
	cfg *config.Config,
	log *logging.Logger,
	mqttClient *mqtt.Client,
	server *api.Server,
	registry *tracker.Registry,
) {
	event := refreshEvent{
		Device:    cfg.Device.Name,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error("marshalling refresh event", "error", err)
		return
	}

	if err := mqttClient.PublishRetained(mqttClient.Topics().DisplayRefresh(), payload); err != nil {
		log.Warn("publishing refresh trigger failed", "error", err)
	}

	server.Broadcast(api.EventDisplayRefresh, event)
	server.Broadcast(api.EventSensorState, registry.Snapshots())

	log.Info("display refresh triggered", "device", cfg.Device.Name)
}

// getConfigPath returns the configuration file path.
// Uses HOMINK_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HOMINK_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
