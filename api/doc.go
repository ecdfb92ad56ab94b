// Package api contains the typed endpoint wrappers over the leafclient
// request layer. Each wrapper is a one-line call into [leafclient.Client]:
// credential attachment, envelope interpretation, and error notification all
// happen there, so these types only name paths and decode payloads.
package api
