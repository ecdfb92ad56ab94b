// Package internaldefs holds the shared metric name and bucket definitions
// used by the prometheus and otel exporters. It exists so the two exporters
// publish identical names without importing each other.
package internaldefs
