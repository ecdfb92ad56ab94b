package leafclient

import (
	"net/http"

	"github.com/ydcloud-dy/leaf-client/session"
)

// Builder assembles a Client. Construction is allocation-only; no I/O happens
// until the first request.
type Builder struct {
	config    Config
	http      *http.Client
	session   *session.Store
	notifier  Notifier
	navigator Navigator
	sink      EventSink

	metricsEnabled bool
	latencyEnabled bool

	built bool
}

// New returns a Builder primed with defaults (base path "/api", 10s timeout).
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithBaseURL sets the backend origin, e.g. "https://blog.example.com".
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.HTTP.BaseURL = baseURL
	return b
}

// WithHTTPClient replaces the underlying transport. A zero Timeout on the
// supplied client is overwritten with the configured request timeout.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.http = client
	return b
}

// WithSession attaches the session store the client reads its token from and
// clears on authentication expiry. Required.
func (b *Builder) WithSession(store *session.Store) *Builder {
	b.session = store
	return b
}

// WithNotifier sets the user-visible notification sink. Defaults to NoOpNotifier.
func (b *Builder) WithNotifier(n Notifier) *Builder {
	b.notifier = n
	return b
}

// WithNavigator sets the login-route navigation sink. Defaults to NoOpNavigator.
func (b *Builder) WithNavigator(n Navigator) *Builder {
	b.navigator = n
	return b
}

// WithEventSink enables request-event dispatch into sink.
func (b *Builder) WithEventSink(sink EventSink) *Builder {
	b.sink = sink
	b.config.Events.Enabled = sink != nil
	return b
}

// WithMetricsEnabled toggles counter collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.metricsEnabled = enabled
	return b
}

// WithLatencyHistograms toggles the request-latency histogram. Implies
// nothing unless metrics are enabled.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.latencyEnabled = enabled
	return b
}

// Build validates the configuration and returns the Client. A Builder can be
// used once.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	if b.session == nil {
		return nil, ErrSessionRequired
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	httpClient := b.http
	if httpClient == nil {
		httpClient = &http.Client{Timeout: b.config.HTTP.Timeout}
	} else if httpClient.Timeout == 0 {
		httpClient.Timeout = b.config.HTTP.Timeout
	}

	notifier := b.notifier
	if notifier == nil {
		notifier = NoOpNotifier{}
	}
	navigator := b.navigator
	if navigator == nil {
		navigator = NoOpNavigator{}
	}

	b.built = true

	return &Client{
		cfg:       b.config,
		http:      httpClient,
		session:   b.session,
		notifier:  notifier,
		navigator: navigator,
		metrics:   newMetrics(b.metricsEnabled, b.latencyEnabled),
		events:    newEventDispatcher(b.config.Events, b.sink),
	}, nil
}
