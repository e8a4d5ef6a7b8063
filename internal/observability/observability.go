// Package observability provides metrics collection for the audiofp dataset supply.
package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tphakala/audiofp-go/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry *prometheus.Registry
	Dataset  *metrics.DatasetMetrics
}

// NewMetrics creates a new instance of Metrics, initializing all metric collectors.
// It returns an error if any metric collector fails to initialize.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	datasetMetrics, err := metrics.NewDatasetMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset metrics: %w", err)
	}

	return &Metrics{
		registry: registry,
		Dataset:  datasetMetrics,
	}, nil
}

// Registry returns the underlying prometheus registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
