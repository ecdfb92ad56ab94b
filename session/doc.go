// Package session is the single source of truth for "who is logged in".
//
// A [Store] owns the authenticated session — an opaque bearer token and the
// user profile record — and its durable persistence through an injected
// [Storage]. Token and user are always set and cleared together: durable
// state that has one without the other, or a user record that no longer
// parses, is treated as corrupt and silently reset to the empty session.
//
// Every successful mutation (login, register, logout, profile update) writes
// through to storage before returning, so a crash immediately afterwards
// leaves durable state consistent with memory.
//
// Store methods are safe to call from multiple goroutines. There is
// deliberately no transaction spanning "read token, send request, react to
// 401": a logout forced by one request's 401 can race an unrelated in-flight
// request that already attached the old token. The stale request fails on the
// server side and is handled like any other 401.
package session
