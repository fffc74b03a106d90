// Package prometheus provides a Prometheus adapter for
// github.com/abczzz13/realip.
//
// The package exposes realip options that install a Prometheus-backed
// Metrics implementation on a resolver, using either the default registerer
// or a caller-provided registerer.
package prometheus
