// Package config handles configuration loading for blog-server.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${BLOG_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	auth:
//	  token_lifetime: "1h"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"   # REST API
//	  grpc_addr: "0.0.0.0:50051"  # RPC API
//
// Database:
//
//	database:
//	  path: "/var/lib/blog/blog.db"
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${BLOG_JWT_SECRET}"  # Required, at least 32 bytes
//	  token_lifetime: "1h"
//	  token_on_register: true           # HTTP register returns a token
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates:
//
//   - Server addresses present
//   - Database path present
//   - JWT secret minimum length (32 bytes)
//   - Duration format validity
package config
