// Package config handles loading and validating structdxf configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Loading .env files into the environment
//   - Overriding with STRUCTDXF_* environment variables
//   - Validation of required fields
//
// Credentials (MQTT password, InfluxDB token) should be supplied through the
// environment rather than the YAML file.
//
// Usage:
//
//	if err := config.LoadEnvFile(".env"); err != nil {
//	    log.Fatal(err)
//	}
//	cfg, err := config.Load("configs/structdxf.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
