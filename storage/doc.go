// Package storage provides durable key-value backends for the session store.
//
// Three implementations cover the usual deployments of the client: [Memory]
// for tests and throwaway sessions, [File] for CLI and desktop consumers that
// keep the session across process restarts, and [Redis] for server-side
// consumers that hold many sessions keyed per device or per user.
//
// All three satisfy the session.Storage interface.
package storage
