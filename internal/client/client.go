// ABOUTME: Client-side models, transport selection, and the dispatcher contract
// ABOUTME: Dispatchers implement one wire protocol each behind a common interface

package client

import "context"

// Transport selects the wire protocol for a Session.
type Transport int

const (
	// TransportHTTP talks to the REST API.
	TransportHTTP Transport = iota
	// TransportGRPC talks to the gRPC BlogService.
	TransportGRPC
)

// String returns the transport name for logging.
func (t Transport) String() string {
	switch t {
	case TransportHTTP:
		return "http"
	case TransportGRPC:
		return "grpc"
	default:
		return "unknown"
	}
}

// User is a registered account as seen by clients.
type User struct {
	ID       string
	Username string
	Email    string
}

// Post is a blog post as seen by clients. Timestamps are RFC 3339 strings
// straight off the wire; UpdatedAt is empty until the post is updated.
type Post struct {
	ID        string
	Title     string
	Content   string
	AuthorID  string
	CreatedAt string
	UpdatedAt string
}

// ListOptions pages through posts. Zero values mean server defaults; an
// empty AuthorID lists posts by all authors.
type ListOptions struct {
	AuthorID string
	Limit    int
	Offset   int
}

// RegisterResult is what a register call yields: the created user and,
// depending on transport and server configuration, a token.
type RegisterResult struct {
	User  *User
	Token string
}

// dispatcher is the per-transport call surface. The token parameter is
// empty for unauthenticated calls; dispatchers attach it in their
// transport's carrier when present.
type dispatcher interface {
	Register(ctx context.Context, username, email, password string) (*RegisterResult, error)
	Login(ctx context.Context, email, password string) (string, error)
	CreatePost(ctx context.Context, token, title, content string) (*Post, error)
	GetPost(ctx context.Context, token, id string) (*Post, error)
	UpdatePost(ctx context.Context, token, id, title, content string) (*Post, error)
	DeletePost(ctx context.Context, token, id string) error
	ListPosts(ctx context.Context, token string, opts ListOptions) ([]*Post, error)
	Close() error
}
