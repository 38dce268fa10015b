// Package metrics collects per-run Prometheus counters for geocoding, cache
// use, and file relocation, and can write them to a node-exporter textfile.
package metrics
