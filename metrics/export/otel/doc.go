// Package otel exposes leafclient metrics through OpenTelemetry observable
// instruments, reading the client's counter snapshot on each collection.
package otel
