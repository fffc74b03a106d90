package realip

import "fmt"

// WithSources replaces the trust priority table.
//
// Sources are evaluated in the given order; the first present source wins.
// Each header may appear at most once.
func WithSources(sources ...Source) Option {
	sources = cloneSources(sources)

	return func(c *config) error {
		c.sources = cloneSources(sources)
		return nil
	}
}

// MaxChainLength sets the chain length above which multi-valued sources
// raise the chain_too_long warning. Chains are never truncated.
func MaxChainLength(max int) Option {
	return func(c *config) error {
		c.maxChainLength = max
		return nil
	}
}

// WithLogger sets the logger implementation used for warning events.
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithMetrics sets a concrete metrics implementation.
//
// If previously configured, a metrics factory is disabled.
func WithMetrics(metrics Metrics) Option {
	return func(c *config) error {
		c.metrics = metrics
		c.metricsFactory = nil
		c.useMetricsFactory = false
		return nil
	}
}

// WithMetricsFactory configures a lazy metrics constructor.
//
// The factory is invoked only for the final winning metrics option after
// option validation succeeds.
func WithMetricsFactory(factory func() (Metrics, error)) Option {
	return func(c *config) error {
		if factory == nil {
			return fmt.Errorf("metrics factory cannot be nil")
		}

		c.metricsFactory = factory
		c.useMetricsFactory = true
		return nil
	}
}
