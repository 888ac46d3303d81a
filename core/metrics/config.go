package metrics

import (
	"fmt"

	"github.com/kilianp07/cabs/core/factory"
)

// Config selects the metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddr is where /metrics is served. Empty disables the server.
	PrometheusAddr string `json:"prometheus_addr"`
}

// Validate rejects sink entries without a type. Unknown types are only
// detected by NewMetricsSink, once every sink package has registered.
func (c Config) Validate() error {
	for i, s := range c.Sinks {
		if s.Type == "" {
			return fmt.Errorf("metrics.sinks[%d]: type is required", i)
		}
	}
	return nil
}
