// ABOUTME: gRPC interceptors for authenticating requests via bearer metadata
// ABOUTME: Extracts the token from metadata and populates context for handlers

package auth

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"

	"github.com/2389/blog-server/internal/apperror"
)

// metadataKey is the gRPC metadata entry carrying the bearer credential.
// The value format is identical to the HTTP header: "Bearer <token>".
const metadataKey = "authorization"

// logAuthFailure logs an authentication failure with structured context.
func logAuthFailure(logger *slog.Logger, ctx context.Context, reason string, attrs ...any) {
	if logger == nil {
		return
	}
	baseAttrs := []any{"transport", "grpc", "reason", reason}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		baseAttrs = append(baseAttrs, "peer_addr", p.Addr.String())
	}
	baseAttrs = append(baseAttrs, attrs...)
	logger.Warn("auth failure", baseAttrs...)
}

// UnaryInterceptor returns a gRPC unary interceptor that authenticates
// requests. Methods listed in publicMethods (full method names) skip
// authentication entirely; everything else requires a valid bearer token
// and gets the resolved Principal attached to its context.
func UnaryInterceptor(authn Authenticator, publicMethods map[string]bool, logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if publicMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		principal, err := extractAuth(ctx, authn, logger)
		if err != nil {
			return nil, err
		}

		return handler(WithPrincipal(ctx, principal), req)
	}
}

// StreamInterceptor returns a gRPC stream interceptor that authenticates
// requests with the same contract as UnaryInterceptor.
func StreamInterceptor(authn Authenticator, publicMethods map[string]bool, logger *slog.Logger) grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if publicMethods[info.FullMethod] {
			return handler(srv, ss)
		}

		principal, err := extractAuth(ss.Context(), authn, logger)
		if err != nil {
			return err
		}

		wrapped := &wrappedServerStream{
			ServerStream: ss,
			ctx:          WithPrincipal(ss.Context(), principal),
		}
		return handler(srv, wrapped)
	}
}

// wrappedServerStream wraps a grpc.ServerStream with a custom context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the wrapped context.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}

// extractAuth performs the authentication flow for one request: read the
// bearer credential from metadata, verify it, resolve the principal. Every
// failure is mapped to the transport's native representation; the caller
// cannot distinguish causes.
func extractAuth(ctx context.Context, authn Authenticator, logger *slog.Logger) (*Principal, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		logAuthFailure(logger, ctx, "missing_metadata")
		return nil, apperror.GRPCStatus(apperror.New(apperror.KindUnauthenticated, "missing metadata"))
	}

	values := md.Get(metadataKey)
	if len(values) == 0 {
		logAuthFailure(logger, ctx, "missing_credential")
		return nil, apperror.GRPCStatus(apperror.New(apperror.KindUnauthenticated, "missing authorization metadata"))
	}

	token, err := ExtractBearerToken(values[0])
	if err != nil {
		logAuthFailure(logger, ctx, "malformed_credential", "error", err.Error())
		return nil, apperror.GRPCStatus(err)
	}

	principal, err := authn.Authenticate(ctx, token)
	if err != nil {
		logAuthFailure(logger, ctx, "verification_failed", "error", err.Error())
		return nil, apperror.GRPCStatus(err)
	}

	return principal, nil
}
