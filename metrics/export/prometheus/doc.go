// Package prometheus renders leafclient metrics in Prometheus text
// exposition format, without a Prometheus client dependency.
package prometheus
