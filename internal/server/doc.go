// Package server hosts the blog service over both transports.
//
// # Overview
//
// One Server owns the SQLite store, the auth service, and two listeners:
// a REST HTTP API and a gRPC BlogService. Both transports call the same
// Blog service for post operations and the same auth.Service for account
// operations, so behavior and authorization rules cannot drift between
// them.
//
// # Authentication
//
// Public endpoints (register, login, health) bypass authentication. All
// other endpoints require a bearer token; the HTTP mux wraps protected
// routes in auth.HTTPAuthMiddleware while the gRPC server installs
// auth.UnaryInterceptor and auth.StreamInterceptor with the public method
// list from blogrpc.PublicMethods. Handlers read the authenticated
// principal from the request context.
//
// # HTTP Surface
//
//	POST   /api/public/auth/register    create account (201)
//	POST   /api/public/auth/login       obtain bearer token
//	GET    /health                      liveness probe
//	POST   /api/protected/posts         create post
//	GET    /api/protected/posts         list posts (?limit=&offset=&author_id=)
//	GET    /api/protected/posts/{id}    fetch post
//	PUT    /api/protected/posts/{id}    update post (author only)
//	DELETE /api/protected/posts/{id}    delete post (author only)
//	GET    /api/protected/posts/{id}/html  post content rendered as HTML
//
// Errors are returned as {"error": "<message>"} with the status mapped
// from the error kind.
//
// # Lifecycle
//
// New builds the full server from a config. Run blocks until the context
// is canceled or a listener fails, then drains both servers gracefully.
package server
