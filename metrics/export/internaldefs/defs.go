package internaldefs

import (
	leafclient "github.com/ydcloud-dy/leaf-client"
)

// CounterDef names one exported counter metric.
type CounterDef struct {
	ID   leafclient.MetricID
	Name string
	Help string
}

// HistogramDef names one exported histogram metric.
type HistogramDef struct {
	ID   leafclient.MetricID
	Name string
	Help string
}

// CounterDefs lists every counter the exporters publish, in a stable order.
var CounterDefs = []CounterDef{
	{ID: leafclient.MetricRequestSent, Name: "leafclient_requests_sent_total", Help: "Requests handed to the transport."},
	{ID: leafclient.MetricRequestOK, Name: "leafclient_requests_ok_total", Help: "Envelope code-zero responses."},
	{ID: leafclient.MetricAppError, Name: "leafclient_app_errors_total", Help: "Non-zero envelope codes other than 401."},
	{ID: leafclient.MetricUnauthorized, Name: "leafclient_unauthorized_total", Help: "401 responses from either layer."},
	{ID: leafclient.MetricTransportError, Name: "leafclient_transport_errors_total", Help: "Requests that failed without a usable envelope."},
	{ID: leafclient.MetricConfigError, Name: "leafclient_config_errors_total", Help: "Requests that could not be constructed."},
	{ID: leafclient.MetricForcedLogout, Name: "leafclient_forced_logouts_total", Help: "Sessions cleared by the 401 handler."},
}

// HistogramDefs lists every histogram the exporters publish.
var HistogramDefs = []HistogramDef{
	{ID: leafclient.MetricRequestLatency, Name: "leafclient_request_duration", Help: "End-to-end request duration."},
}

// HistogramBounds are the bucket upper bounds of the request-latency
// histogram in seconds, Prometheus le-label form.
var HistogramBounds = [8]string{
	"0.001",
	"0.005",
	"0.025",
	"0.1",
	"0.25",
	"1",
	"5",
	"+Inf",
}

// HistogramBoundSuffix are the same bounds in metric-name-safe form, for
// backends that cannot carry an le label.
var HistogramBoundSuffix = [8]string{
	"1ms",
	"5ms",
	"25ms",
	"100ms",
	"250ms",
	"1s",
	"5s",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form both
// exporters publish.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
