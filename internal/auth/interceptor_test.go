// ABOUTME: Tests for gRPC authentication interceptors
// ABOUTME: Covers metadata extraction, public method bypass, and stream wrapping

package auth

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var interceptorTestSecret = []byte("grpc-interceptor-test-secret-32b")

func newInterceptorService(t *testing.T) (*Service, string, string) {
	t.Helper()
	codec, err := NewTokenCodec(interceptorTestSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec() error = %v", err)
	}
	svc := NewService(codec, newMockUserDirectory(), NewBcryptHasher(bcrypt.MinCost), nil)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	token, err := svc.Login(context.Background(), "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	return svc, token, user.ID
}

func incomingContext(header string) context.Context {
	md := metadata.Pairs("authorization", header)
	return metadata.NewIncomingContext(context.Background(), md)
}

func TestUnaryInterceptor_ValidToken(t *testing.T) {
	svc, token, userID := newInterceptorService(t)
	interceptor := UnaryInterceptor(svc, nil, nil)

	info := &grpc.UnaryServerInfo{FullMethod: "/blog.BlogService/CreatePost"}
	var gotPrincipal *Principal
	handler := func(ctx context.Context, req any) (any, error) {
		gotPrincipal = FromContext(ctx)
		return "ok", nil
	}

	resp, err := interceptor(incomingContext("Bearer "+token), nil, info, handler)
	if err != nil {
		t.Fatalf("interceptor error = %v", err)
	}
	if resp != "ok" {
		t.Errorf("response = %v, want ok", resp)
	}
	if gotPrincipal == nil {
		t.Fatal("expected principal in handler context")
	}
	if gotPrincipal.ID != userID {
		t.Errorf("principal.ID = %q, want %q", gotPrincipal.ID, userID)
	}
}

func TestUnaryInterceptor_PublicMethodSkipsAuth(t *testing.T) {
	svc, _, _ := newInterceptorService(t)
	public := map[string]bool{"/blog.BlogService/Login": true}
	interceptor := UnaryInterceptor(svc, public, nil)

	info := &grpc.UnaryServerInfo{FullMethod: "/blog.BlogService/Login"}
	called := false
	handler := func(ctx context.Context, req any) (any, error) {
		called = true
		if FromContext(ctx) != nil {
			t.Error("public method should not carry a principal")
		}
		return "ok", nil
	}

	// No metadata at all: public methods must still go through.
	if _, err := interceptor(context.Background(), nil, info, handler); err != nil {
		t.Fatalf("interceptor error = %v", err)
	}
	if !called {
		t.Error("handler was not called")
	}
}

func TestUnaryInterceptor_Rejections(t *testing.T) {
	svc, _, _ := newInterceptorService(t)
	interceptor := UnaryInterceptor(svc, nil, nil)
	info := &grpc.UnaryServerInfo{FullMethod: "/blog.BlogService/CreatePost"}
	handler := func(ctx context.Context, req any) (any, error) {
		t.Error("handler should not be called")
		return nil, nil
	}

	tests := []struct {
		name string
		ctx  context.Context
	}{
		{"no metadata", context.Background()},
		{"no authorization entry", metadata.NewIncomingContext(context.Background(), metadata.Pairs("other", "x"))},
		{"wrong scheme", incomingContext("Basic dXNlcjpwYXNz")},
		{"empty token", incomingContext("Bearer ")},
		{"garbage token", incomingContext("Bearer not-a-jwt")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := interceptor(tt.ctx, nil, info, handler)
			if err == nil {
				t.Fatal("interceptor should reject")
			}
			if got := status.Code(err); got != codes.Unauthenticated {
				t.Errorf("status code = %v, want Unauthenticated", got)
			}
		})
	}
}

// mockServerStream records the context handed to the handler.
type mockServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (m *mockServerStream) Context() context.Context { return m.ctx }

func TestStreamInterceptor_ValidToken(t *testing.T) {
	svc, token, userID := newInterceptorService(t)
	interceptor := StreamInterceptor(svc, nil, nil)

	info := &grpc.StreamServerInfo{FullMethod: "/blog.BlogService/WatchPosts"}
	stream := &mockServerStream{ctx: incomingContext("Bearer " + token)}

	var gotPrincipal *Principal
	handler := func(srv any, ss grpc.ServerStream) error {
		gotPrincipal = FromContext(ss.Context())
		return nil
	}

	if err := interceptor(nil, stream, info, handler); err != nil {
		t.Fatalf("interceptor error = %v", err)
	}
	if gotPrincipal == nil {
		t.Fatal("expected principal in stream context")
	}
	if gotPrincipal.ID != userID {
		t.Errorf("principal.ID = %q, want %q", gotPrincipal.ID, userID)
	}
}

func TestStreamInterceptor_InvalidToken(t *testing.T) {
	svc, _, _ := newInterceptorService(t)
	interceptor := StreamInterceptor(svc, nil, nil)

	info := &grpc.StreamServerInfo{FullMethod: "/blog.BlogService/WatchPosts"}
	stream := &mockServerStream{ctx: incomingContext("Bearer junk")}

	handler := func(srv any, ss grpc.ServerStream) error {
		t.Error("handler should not be called")
		return nil
	}

	err := interceptor(nil, stream, info, handler)
	if got := status.Code(err); got != codes.Unauthenticated {
		t.Errorf("status code = %v, want Unauthenticated", got)
	}
}
