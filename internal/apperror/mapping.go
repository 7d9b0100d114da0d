// ABOUTME: Mapping tables between error kinds and transport representations
// ABOUTME: HTTP status codes and gRPC status codes, both directions

package apperror

import (
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// httpStatusByKind is the single place kinds become HTTP status codes.
var httpStatusByKind = map[Kind]int{
	KindInvalidCredentials: http.StatusUnauthorized,
	KindInvalidToken:       http.StatusUnauthorized,
	KindUnauthenticated:    http.StatusUnauthorized,
	KindAlreadyExists:      http.StatusConflict,
	KindNotFound:           http.StatusNotFound,
	KindInvalidArgument:    http.StatusBadRequest,
	KindInternal:           http.StatusInternalServerError,
}

// grpcCodeByKind is the single place kinds become gRPC status codes.
var grpcCodeByKind = map[Kind]codes.Code{
	KindInvalidCredentials: codes.Unauthenticated,
	KindInvalidToken:       codes.Unauthenticated,
	KindUnauthenticated:    codes.Unauthenticated,
	KindAlreadyExists:      codes.AlreadyExists,
	KindNotFound:           codes.NotFound,
	KindInvalidArgument:    codes.InvalidArgument,
	KindInternal:           codes.Internal,
}

// HTTPStatus returns the HTTP status code for err.
func HTTPStatus(err error) int {
	if code, ok := httpStatusByKind[KindOf(err)]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// GRPCStatus converts err into a gRPC status error carrying the public
// message. Internal detail is replaced with a generic message.
func GRPCStatus(err error) error {
	code, ok := grpcCodeByKind[KindOf(err)]
	if !ok {
		code = codes.Internal
	}
	return status.Error(code, Public(err))
}

// FromHTTPStatus converts an HTTP response status into a taxonomy error.
// Used by the client to normalize HTTP transport failures.
func FromHTTPStatus(statusCode int, message string) *Error {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	switch statusCode {
	case http.StatusUnauthorized:
		return New(KindUnauthenticated, message)
	case http.StatusNotFound:
		return New(KindNotFound, message)
	case http.StatusConflict:
		return New(KindAlreadyExists, message)
	case http.StatusBadRequest:
		return New(KindInvalidArgument, message)
	default:
		return New(KindInternal, message)
	}
}

// FromGRPC converts a gRPC call error into a taxonomy error. Used by the
// client to normalize RPC transport failures, including connection-level
// failures that never reached the server.
func FromGRPC(err error) *Error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return Wrap(KindInternal, "rpc transport failure", err)
	}
	switch st.Code() {
	case codes.Unauthenticated:
		return New(KindUnauthenticated, st.Message())
	case codes.NotFound:
		return New(KindNotFound, st.Message())
	case codes.AlreadyExists:
		return New(KindAlreadyExists, st.Message())
	case codes.InvalidArgument:
		return New(KindInvalidArgument, st.Message())
	default:
		return Wrap(KindInternal, st.Message(), err)
	}
}
