// Package client provides a dual-transport client for the blog service.
//
// # Overview
//
// A Session exposes one operation surface (Register, Login, CreatePost,
// GetPost, UpdatePost, DeletePost, ListPosts) over either transport. The
// transport is chosen at session creation and never changes for the life
// of the session; each call branches once to the transport's dispatcher.
//
// # Token Lifecycle
//
// The session tracks at most one bearer token. Login always stores the
// returned token; Register stores one only when the server includes it
// (the HTTP server may, the RPC server never does; clients must tolerate
// both shapes). Post operations require a token and fail fast with an
// Unauthenticated error before any network activity when none is set.
// The token field is mutex-guarded; SetToken replaces, never merges.
//
// # Errors
//
// Both dispatchers normalize transport failures (HTTP status codes, gRPC
// status codes) into the apperror taxonomy, so callers switch on error
// kinds rather than transport detail.
package client
