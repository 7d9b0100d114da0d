// ABOUTME: Package documentation for the BlogService RPC wire definition
// ABOUTME: Explains the JSON-over-gRPC codec and hand-rolled service descriptor

// Package blogrpc defines the BlogService RPC API: message types, the
// service descriptor, the server interface, and the client stub.
//
// Messages travel as JSON frames over gRPC. The codec is registered with
// gRPC's encoding registry under the name "json"; clients select it with
// grpc.CallContentSubtype(CodecName). Keeping the wire format in JSON means
// no generated code is checked in and both transports share one set of
// field names.
//
// Bearer credentials travel as call metadata under the "authorization" key,
// formatted exactly like the HTTP header: "Bearer <token>".
package blogrpc
