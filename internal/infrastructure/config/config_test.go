package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "structdxf.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
import:
  threshold_factor: 3
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
mqtt:
  enabled: true
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
logging:
  level: debug
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Import.ThresholdFactor != 3 {
		t.Errorf("Import.ThresholdFactor = %v, want 3", cfg.Import.ThresholdFactor)
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}
	if !cfg.MQTT.Enabled || cfg.MQTT.Broker.ClientID != "test-client" {
		t.Errorf("MQTT = %+v", cfg.MQTT)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	// Unset keys keep their defaults.
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Import.ThresholdFactor != 2 {
		t.Errorf("Import.ThresholdFactor = %v, want default 2", cfg.Import.ThresholdFactor)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, "invalid: [yaml: content")

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	configPath := writeConfig(t, `
import:
  threshold_factor: -1
`)

	_, err := Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "threshold_factor") {
		t.Errorf("Load() error = %v, want threshold_factor validation error", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config { return defaultConfig() }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero threshold", func(c *Config) { c.Import.ThresholdFactor = 0 }, "import.threshold_factor"},
		{"missing database path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"no persist without database", func(c *Config) { c.Database.Path = ""; c.Import.Persist = false }, ""},
		{"invalid QoS", func(c *Config) { c.MQTT.QoS = 3 }, "mqtt.qos"},
		{"mqtt without host", func(c *Config) { c.MQTT.Enabled = true; c.MQTT.Broker.Host = "" }, "mqtt.broker.host"},
		{"mqtt bad port", func(c *Config) { c.MQTT.Enabled = true; c.MQTT.Broker.Port = 70000 }, "mqtt.broker.port"},
		{"disabled mqtt not checked", func(c *Config) { c.MQTT.Broker.Host = "" }, ""},
		{"influx without org", func(c *Config) { c.InfluxDB.Enabled = true }, "influxdb.org"},
		{"influx complete", func(c *Config) { c.InfluxDB.Enabled = true; c.InfluxDB.Org = "eng" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_CollectsAll(t *testing.T) {
	cfg := defaultConfig()
	cfg.Import.ThresholdFactor = 0
	cfg.MQTT.QoS = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"import.threshold_factor", "mqtt.qos"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error %q missing %q", err, want)
		}
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	t.Setenv("STRUCTDXF_IMPORT_THRESHOLD_FACTOR", "2.5")
	t.Setenv("STRUCTDXF_IMPORT_PERSIST", "false")
	t.Setenv("STRUCTDXF_DATABASE_PATH", "/custom/path.db")
	t.Setenv("STRUCTDXF_MQTT_ENABLED", "true")
	t.Setenv("STRUCTDXF_MQTT_HOST", "mqtt.example.com")
	t.Setenv("STRUCTDXF_MQTT_USERNAME", "testuser")
	t.Setenv("STRUCTDXF_MQTT_PASSWORD", "testpass")
	t.Setenv("STRUCTDXF_INFLUXDB_TOKEN", "secret-token")
	t.Setenv("STRUCTDXF_LOG_LEVEL", "warn")

	if err := applyEnvOverrides(cfg); err != nil {
		t.Fatalf("applyEnvOverrides() error = %v", err)
	}

	if cfg.Import.ThresholdFactor != 2.5 {
		t.Errorf("Import.ThresholdFactor = %v, want 2.5", cfg.Import.ThresholdFactor)
	}
	if cfg.Import.Persist {
		t.Error("Import.Persist = true, want false")
	}
	if cfg.Database.Path != "/custom/path.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/custom/path.db")
	}
	if !cfg.MQTT.Enabled {
		t.Error("MQTT.Enabled = false, want true")
	}
	if cfg.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "mqtt.example.com")
	}
	if cfg.MQTT.Auth.Username != "testuser" || cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth = %+v", cfg.MQTT.Auth)
	}
	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q, want %q", cfg.InfluxDB.Token, "secret-token")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestApplyEnvOverrides_Invalid(t *testing.T) {
	t.Setenv("STRUCTDXF_IMPORT_THRESHOLD_FACTOR", "wide")
	t.Setenv("STRUCTDXF_MQTT_ENABLED", "sometimes")

	err := applyEnvOverrides(defaultConfig())
	if err == nil {
		t.Fatal("applyEnvOverrides() expected error")
	}
	for _, want := range []string{"STRUCTDXF_IMPORT_THRESHOLD_FACTOR", "STRUCTDXF_MQTT_ENABLED"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "STRUCTDXF_DATABASE_PATH=/from/dotenv.db\nSTRUCTDXF_LOG_LEVEL=debug\n"
	if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
		t.Fatalf("writing env file: %v", err)
	}

	// Registered with t.Setenv so the values are restored afterwards.
	t.Setenv("STRUCTDXF_DATABASE_PATH", "")
	t.Setenv("STRUCTDXF_LOG_LEVEL", "error")
	os.Unsetenv("STRUCTDXF_DATABASE_PATH") //nolint:errcheck // Test setup

	if err := LoadEnvFile(filepath.Join(dir, "missing.env"), envPath); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/from/dotenv.db" {
		t.Errorf("Database.Path = %q, want value from .env", cfg.Database.Path)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, existing environment should win", cfg.Logging.Level)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Import.ThresholdFactor != 2 {
		t.Errorf("defaultConfig Import.ThresholdFactor = %v, want 2", cfg.Import.ThresholdFactor)
	}
	if cfg.Database.Path == "" {
		t.Error("defaultConfig should have non-empty Database.Path")
	}
	if cfg.MQTT.Enabled || cfg.InfluxDB.Enabled {
		t.Error("defaultConfig should leave MQTT and InfluxDB disabled")
	}
	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("defaultConfig MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}
}
