package metrics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DependencyMetrics tracks reachability of the database and other backing services.
type DependencyMetrics struct {
	up           metric.Int64ObservableGauge
	responseTime metric.Float64Histogram
	serviceInfo  metric.Int64ObservableGauge

	mu        sync.RWMutex
	available map[string]bool
}

func NewDependencyMetrics(meter metric.Meter) (*DependencyMetrics, error) {
	dm := &DependencyMetrics{available: make(map[string]bool)}

	var err error
	dm.up, err = meter.Int64ObservableGauge(
		"dependency.up",
		metric.WithDescription("Dependency availability status (1=up, 0=down)"),
		metric.WithUnit("{status}"),
	)
	if err != nil {
		return nil, err
	}

	dm.responseTime, err = meter.Float64Histogram(
		"dependency.response_time",
		metric.WithDescription("Dependency health check response time"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5),
	)
	if err != nil {
		return nil, err
	}

	dm.serviceInfo, err = meter.Int64ObservableGauge(
		"service.info",
		metric.WithDescription("Service metadata information"),
		metric.WithUnit("{info}"),
	)
	if err != nil {
		return nil, err
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		dm.mu.RLock()
		defer dm.mu.RUnlock()
		for name, ok := range dm.available {
			value := int64(0)
			if ok {
				value = 1
			}
			o.ObserveInt64(dm.up, value, metric.WithAttributes(attribute.String("dependency", name)))
		}
		return nil
	}, dm.up)
	if err != nil {
		return nil, err
	}

	return dm, nil
}

// RegisterServiceInfo publishes a constant gauge labelled with build metadata.
func (dm *DependencyMetrics) RegisterServiceInfo(meter metric.Meter, serviceName, version, env string) error {
	if dm == nil || meter == nil {
		return nil
	}
	attrs := metric.WithAttributes(
		attribute.String("service_name", serviceName),
		attribute.String("version", version),
		attribute.String("environment", env),
	)
	_, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(dm.serviceInfo, 1, attrs)
		return nil
	}, dm.serviceInfo)
	return err
}

// RecordCheck stores the outcome of one health check against a dependency.
func (dm *DependencyMetrics) RecordCheck(ctx context.Context, dependency string, duration time.Duration, err error) {
	if dm == nil || dm.available == nil {
		return
	}
	dm.mu.Lock()
	dm.available[dependency] = err == nil
	dm.mu.Unlock()

	if dm.responseTime != nil {
		dm.responseTime.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("dependency", dependency)))
	}
}

// Available reports the last recorded state; unknown dependencies are down.
func (dm *DependencyMetrics) Available(dependency string) bool {
	if dm == nil {
		return false
	}
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.available[dependency]
}
