// ABOUTME: Package documentation for the shared error taxonomy
// ABOUTME: Explains error kinds and the boundary mapping contract

// Package apperror defines the error taxonomy shared by the blog server,
// both transports, and the client session.
//
// Every failure that crosses a transport boundary is expressed as one of a
// small set of kinds (invalid credentials, invalid token, unauthenticated,
// already exists, not found, invalid argument, internal). Transport adapters
// translate kinds to their native representation (HTTP status codes, gRPC
// status codes) through the mapping tables in this package, never by ad hoc
// string matching.
//
// Authentication-class failures are deliberately indistinguishable to
// external callers: the middleware and interceptor collapse every cause to
// the same rejection, and internal detail never leaves the process.
package apperror
