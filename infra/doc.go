// Package infra contains technical adapters: the zerolog logger, the
// Prometheus and InfluxDB metrics sinks and the MQTT ride bridge. These
// packages depend only on interfaces defined in the core packages.
package infra
