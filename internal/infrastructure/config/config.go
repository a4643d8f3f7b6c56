package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Sensor kinds accepted in the declaration set. Each maps to a
// significance policy in internal/tracker.
const (
	SensorBinary       = "binary"        // bool state, any change triggers
	SensorText         = "text"          // string state, any change triggers
	SensorTextFiltered = "text_filtered" // string state with one ignored value
	SensorThreshold    = "threshold"     // numeric with change tolerance
	SensorPassive      = "passive"       // tracked but never triggers
	SensorWiFi         = "wifi"          // device-local WiFi RSSI, passive
)

// identitySeparator mirrors tracker.IdentitySeparator: remote entities
// contain it, local signals do not.
const identitySeparator = "."

// Config is the root configuration structure for the homink daemon.
type Config struct {
	Device    DeviceConfig    `yaml:"device"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Logging   LoggingConfig   `yaml:"logging"`
	Sensors   []SensorConfig  `yaml:"sensors"`
}

// DeviceConfig contains device-wide settings.
type DeviceConfig struct {
	// Name identifies this display on the network and in MQTT topics.
	Name string `yaml:"name"`

	// PollInterval is how often the change scan runs, in seconds.
	PollInterval int `yaml:"poll_interval"`

	// WiFiInterface is the wireless interface sampled for RSSI.
	WiFiInterface string `yaml:"wifi_interface"`
}

// SensorConfig declares one tracked sensor. The set is fixed
// configuration supplied once at process start; there is no runtime
// add/remove API.
type SensorConfig struct {
	// Kind selects the significance policy (see Sensor* constants).
	Kind string `yaml:"kind"`

	// Name is the human-readable display name used in diagnostics.
	Name string `yaml:"name"`

	// Entity is the identity: a Home Assistant entity ID for remote
	// kinds, a bare signal name (e.g. "wifi_rssi") for the wifi kind.
	Entity string `yaml:"entity"`

	// Threshold is the change tolerance for threshold sensors.
	Threshold float64 `yaml:"threshold,omitempty"`

	// Ignore is the state value suppressed by text_filtered sensors.
	Ignore string `yaml:"ignore,omitempty"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings (seconds).
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// APIConfig contains the diagnostic HTTP server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings (seconds).
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// WebSocketConfig contains WebSocket stream settings.
type WebSocketConfig struct {
	PingInterval int `yaml:"ping_interval"`
	PongTimeout  int `yaml:"pong_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment
// variable overrides.
//
// The loading order is: defaults, then YAML file values, then HOMINK_*
// environment variables. The result is validated before being returned;
// a config that passes Load is safe to build the sensor registry from.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			Name:          "homink",
			PollInterval:  5,
			WiFiInterface: "wlan0",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "homink",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			PingInterval: 30,
			PongTimeout:  10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies HOMINK_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HOMINK_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("HOMINK_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("HOMINK_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
	if v := os.Getenv("HOMINK_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("HOMINK_WIFI_INTERFACE"); v != "" {
		cfg.Device.WiFiInterface = v
	}
}

// Validate checks the configuration for errors.
//
// The sensor declaration checks implement the construction-time
// validation the change-detection core relies on: duplicate identities,
// unknown kinds and incomplete policy parameters never reach the
// registry.
func (c *Config) Validate() error {
	var errs []string

	if c.Device.Name == "" {
		errs = append(errs, "device.name is required")
	}
	if c.Device.PollInterval < 1 {
		errs = append(errs, "device.poll_interval must be at least 1 second")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(c.Sensors) == 0 {
		errs = append(errs, "at least one sensor must be declared")
	}
	errs = append(errs, c.validateSensors()...)

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// validateSensors checks the sensor declaration set.
func (c *Config) validateSensors() []string {
	var errs []string
	seen := make(map[string]struct{}, len(c.Sensors))

	for i, s := range c.Sensors {
		where := fmt.Sprintf("sensors[%d]", i)
		if s.Name == "" {
			errs = append(errs, where+": name is required")
		}
		if s.Entity == "" {
			errs = append(errs, where+": entity is required")
			continue
		}

		if _, dup := seen[s.Entity]; dup {
			errs = append(errs, fmt.Sprintf("%s: duplicate entity %q", where, s.Entity))
		}
		seen[s.Entity] = struct{}{}

		remote := strings.Contains(s.Entity, identitySeparator)

		switch s.Kind {
		case SensorBinary, SensorText, SensorPassive:
			if !remote {
				errs = append(errs, fmt.Sprintf("%s: entity %q is not a Home Assistant entity ID", where, s.Entity))
			}
		case SensorTextFiltered:
			if !remote {
				errs = append(errs, fmt.Sprintf("%s: entity %q is not a Home Assistant entity ID", where, s.Entity))
			}
			if s.Ignore == "" {
				errs = append(errs, where+": text_filtered requires an ignore value")
			}
		case SensorThreshold:
			if !remote {
				errs = append(errs, fmt.Sprintf("%s: entity %q is not a Home Assistant entity ID", where, s.Entity))
			}
			if s.Threshold <= 0 {
				errs = append(errs, where+": threshold must be positive")
			}
		case SensorWiFi:
			if remote {
				errs = append(errs, fmt.Sprintf("%s: wifi entity %q must be a local signal name", where, s.Entity))
			}
		default:
			errs = append(errs, fmt.Sprintf("%s: unknown kind %q", where, s.Kind))
		}
	}

	return errs
}

// PollInterval returns the scan interval as a Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Device.PollInterval) * time.Second
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
