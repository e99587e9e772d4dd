// Package metrics exposes the service's Prometheus collectors.
package metrics
