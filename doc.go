// Package leafclient is the Go client for the leaf blog backend. It centralizes
// outbound HTTP calls through a single [Client], injects the current session's
// bearer token into every request, and normalizes the backend's
// {code, message, data} envelope into typed results and user-facing
// notifications.
//
// The package is designed for concurrent callers: Client methods are safe to
// call from multiple goroutines after construction through [Builder.Build].
//
// # Architecture boundaries
//
// leafclient is the public request surface. It exposes [Client], [Builder],
// [Config], [Envelope], and the error types ([APIError], [TransportError]).
// Session ownership — who is logged in, and the durable token/user record —
// lives in the session sub-package and is consulted, never persisted, by this
// package. Endpoint wrappers live under api and are one-line calls into
// [Client].
//
// # What this package must NOT do
//
//   - Persist credentials. The session store is the sole owner of durable
//     state; Client only reads the current token per request.
//   - Retry, deduplicate, or queue requests. A failed call is reported once
//     and rejected once.
//   - Swallow errors. Every application or transport failure is surfaced to
//     the caller after its notification side effects have run.
//
// # Error contract
//
// Application errors (envelope code != 0) surface as *APIError carrying the
// backend's own message. Transport errors (no response, non-2xx status,
// timeout) surface as *TransportError wrapping the underlying cause. In both
// cases the configured [Notifier] has already been told what to show, so
// callers typically only branch on success or failure.
package leafclient
