// ABOUTME: Package documentation for the authentication boundary
// ABOUTME: Explains the token codec, auth service, and transport adapters

// Package auth implements the authentication boundary of the blog service.
//
// TokenCodec turns a user id into a signed, time-bounded JWT and back.
// Service is the single place credentials become tokens and tokens become
// principals. The HTTP middleware and the gRPC interceptors extract the
// bearer credential from their transport's native carrier, delegate to
// Service.Authenticate, and attach the resolved Principal to the request
// context; every failure collapses to the same rejection so callers cannot
// enumerate accounts or probe token validity.
//
// The codec holds the only secret material in the process. Neither tokens
// nor the secret are ever logged.
package auth
