package realip

import (
	"fmt"
	"reflect"
)

func (c *config) validate() error {
	if c.maxChainLength <= 0 {
		return fmt.Errorf("maxChainLength must be > 0, got %d", c.maxChainLength)
	}
	if len(c.sources) == 0 {
		return fmt.Errorf("at least one source required in priority list")
	}
	if err := c.validateSources(); err != nil {
		return err
	}

	if isNilLogger(c.logger) {
		return fmt.Errorf("logger cannot be nil")
	}
	if isNilMetrics(c.metrics) {
		return fmt.Errorf("metrics cannot be nil")
	}
	return nil
}

func (c *config) validateSources() error {
	seenHeaders := make(map[Header]struct{}, len(c.sources))
	seenNames := make(map[string]struct{}, len(c.sources))

	for i, source := range c.sources {
		if !source.Header.valid() {
			return fmt.Errorf("source %d: invalid header %d", i, source.Header)
		}
		if !source.Cardinality.valid() {
			return fmt.Errorf("source %q: invalid cardinality %d (must be SingleValue=1 or MultiValue=2)", source.Header, source.Cardinality)
		}
		if source.Name == "" {
			return fmt.Errorf("source %q: name cannot be empty", source.Header)
		}
		if source.Name == SourceClientAddr {
			return fmt.Errorf("source %q: name %q is reserved for the peer address fallback", source.Header, SourceClientAddr)
		}

		if _, ok := seenHeaders[source.Header]; ok {
			return fmt.Errorf("duplicate header %q in priority list", source.Header)
		}
		seenHeaders[source.Header] = struct{}{}

		if _, ok := seenNames[source.Name]; ok {
			return fmt.Errorf("duplicate source name %q in priority list", source.Name)
		}
		seenNames[source.Name] = struct{}{}
	}

	return nil
}

func isNilLogger(logger Logger) bool {
	return isNilInterface(logger)
}

func isNilMetrics(metrics Metrics) bool {
	return isNilInterface(metrics)
}

func isNilInterface(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
