// ABOUTME: Session: the transport-unifying client façade with token tracking
// ABOUTME: Fails protected calls fast when no token is held; captures tokens from login

package client

import (
	"context"
	"net/http"
	"sync"

	"github.com/2389/blog-server/internal/apperror"
)

// Session exposes the blog operations over one transport chosen at
// creation. It tracks the current bearer token behind a mutex: one writer
// at a time, and concurrent calls each read a consistent snapshot.
type Session struct {
	transport Transport
	dispatch  dispatcher

	mu    sync.Mutex
	token string
}

// NewSession creates a session for the given transport. For TransportHTTP
// the target is the server's base URL; for TransportGRPC it is the gRPC
// address (host:port).
func NewSession(transport Transport, target string) (*Session, error) {
	switch transport {
	case TransportHTTP:
		return &Session{
			transport: transport,
			dispatch:  newHTTPDispatcher(target, nil),
		}, nil
	case TransportGRPC:
		d, err := newGRPCDispatcher(target)
		if err != nil {
			return nil, err
		}
		return &Session{transport: transport, dispatch: d}, nil
	default:
		return nil, apperror.Newf(apperror.KindInvalidArgument, "unknown transport %d", transport)
	}
}

// NewHTTPSession creates an HTTP session with a custom http.Client.
func NewHTTPSession(baseURL string, httpClient *http.Client) *Session {
	return &Session{
		transport: TransportHTTP,
		dispatch:  newHTTPDispatcher(baseURL, httpClient),
	}
}

// Transport reports which transport this session was created with.
func (s *Session) Transport() Transport {
	return s.transport
}

// SetToken replaces the session's bearer token. An empty string clears it.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Token returns the current bearer token, or empty if none is held.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// requireToken returns the current token or fails without any network
// activity when none is held.
func (s *Session) requireToken() (string, error) {
	token := s.Token()
	if token == "" {
		return "", apperror.New(apperror.KindUnauthenticated, "no token set; login first")
	}
	return token, nil
}

// reKindCredentials converts an authentication rejection into an
// invalid-credentials error. Servers answer a failed login with their
// transport's generic authentication failure; on the login path that
// always means the credentials were wrong.
func reKindCredentials(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsKind(err, apperror.KindUnauthenticated) {
		return apperror.New(apperror.KindInvalidCredentials, apperror.Public(err))
	}
	return err
}

// Register creates an account. When the response carries a token (HTTP
// transport with token_on_register enabled) it is stored on the session;
// a token-less response is not an error.
func (s *Session) Register(ctx context.Context, username, email, password string) (*User, error) {
	result, err := s.dispatch.Register(ctx, username, email, password)
	if err != nil {
		return nil, err
	}
	if result.Token != "" {
		s.SetToken(result.Token)
	}
	return result.User, nil
}

// Login authenticates and stores the returned token on the session.
func (s *Session) Login(ctx context.Context, email, password string) error {
	token, err := s.dispatch.Login(ctx, email, password)
	if err != nil {
		return reKindCredentials(err)
	}
	s.SetToken(token)
	return nil
}

// CreatePost creates a post authored by the logged-in user.
func (s *Session) CreatePost(ctx context.Context, title, content string) (*Post, error) {
	token, err := s.requireToken()
	if err != nil {
		return nil, err
	}
	return s.dispatch.CreatePost(ctx, token, title, content)
}

// GetPost fetches a post by id.
func (s *Session) GetPost(ctx context.Context, id string) (*Post, error) {
	token, err := s.requireToken()
	if err != nil {
		return nil, err
	}
	return s.dispatch.GetPost(ctx, token, id)
}

// UpdatePost replaces a post's title and content.
func (s *Session) UpdatePost(ctx context.Context, id, title, content string) (*Post, error) {
	token, err := s.requireToken()
	if err != nil {
		return nil, err
	}
	return s.dispatch.UpdatePost(ctx, token, id, title, content)
}

// DeletePost removes a post.
func (s *Session) DeletePost(ctx context.Context, id string) error {
	token, err := s.requireToken()
	if err != nil {
		return err
	}
	return s.dispatch.DeletePost(ctx, token, id)
}

// ListPosts returns one page of posts.
func (s *Session) ListPosts(ctx context.Context, opts ListOptions) ([]*Post, error) {
	token, err := s.requireToken()
	if err != nil {
		return nil, err
	}
	return s.dispatch.ListPosts(ctx, token, opts)
}

// Close releases the underlying transport resources.
func (s *Session) Close() error {
	return s.dispatch.Close()
}
