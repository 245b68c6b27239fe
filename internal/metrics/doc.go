// Package metrics declares the Prometheus collectors exported on the
// daemon's /metrics endpoint.
package metrics
