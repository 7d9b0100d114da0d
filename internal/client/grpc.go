// ABOUTME: gRPC dispatcher: BlogService calls with bearer metadata attachment
// ABOUTME: Maps non-OK RPC statuses into the shared error taxonomy

package client

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/2389/blog-server/internal/apperror"
	"github.com/2389/blog-server/rpc/blogrpc"
)

// grpcDispatcher talks to the gRPC BlogService.
type grpcDispatcher struct {
	conn *grpc.ClientConn
	stub blogrpc.BlogServiceClient
}

func newGRPCDispatcher(addr string) (*grpcDispatcher, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(blogrpc.CodecName)),
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "connecting to gRPC server", err)
	}
	return &grpcDispatcher{
		conn: conn,
		stub: blogrpc.NewBlogServiceClient(conn),
	}, nil
}

// withToken attaches the bearer credential as call metadata, formatted
// identically to the HTTP header.
func withToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

func fromRPCUser(u *blogrpc.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:       u.Id,
		Username: u.Username,
		Email:    u.Email,
	}
}

func fromRPCPost(p *blogrpc.Post) *Post {
	if p == nil {
		return nil
	}
	return &Post{
		ID:        p.Id,
		Title:     p.Title,
		Content:   p.Content,
		AuthorID:  p.AuthorId,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (d *grpcDispatcher) Register(ctx context.Context, username, email, password string) (*RegisterResult, error) {
	resp, err := d.stub.Register(ctx, &blogrpc.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, apperror.FromGRPC(err)
	}
	// The RPC register never carries a token.
	return &RegisterResult{User: fromRPCUser(resp.User)}, nil
}

func (d *grpcDispatcher) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := d.stub.Login(ctx, &blogrpc.LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", apperror.FromGRPC(err)
	}
	return resp.Token, nil
}

func (d *grpcDispatcher) CreatePost(ctx context.Context, token, title, content string) (*Post, error) {
	resp, err := d.stub.CreatePost(withToken(ctx, token), &blogrpc.CreatePostRequest{
		Title:   title,
		Content: content,
	})
	if err != nil {
		return nil, apperror.FromGRPC(err)
	}
	return fromRPCPost(resp.Post), nil
}

func (d *grpcDispatcher) GetPost(ctx context.Context, token, id string) (*Post, error) {
	resp, err := d.stub.GetPost(withToken(ctx, token), &blogrpc.GetPostRequest{Id: id})
	if err != nil {
		return nil, apperror.FromGRPC(err)
	}
	return fromRPCPost(resp.Post), nil
}

func (d *grpcDispatcher) UpdatePost(ctx context.Context, token, id, title, content string) (*Post, error) {
	resp, err := d.stub.UpdatePost(withToken(ctx, token), &blogrpc.UpdatePostRequest{
		Id:      id,
		Title:   title,
		Content: content,
	})
	if err != nil {
		return nil, apperror.FromGRPC(err)
	}
	return fromRPCPost(resp.Post), nil
}

func (d *grpcDispatcher) DeletePost(ctx context.Context, token, id string) error {
	if _, err := d.stub.DeletePost(withToken(ctx, token), &blogrpc.DeletePostRequest{Id: id}); err != nil {
		return apperror.FromGRPC(err)
	}
	return nil
}

func (d *grpcDispatcher) ListPosts(ctx context.Context, token string, opts ListOptions) ([]*Post, error) {
	resp, err := d.stub.ListPosts(withToken(ctx, token), &blogrpc.ListPostsRequest{
		AuthorId: opts.AuthorID,
		Limit:    opts.Limit,
		Offset:   opts.Offset,
	})
	if err != nil {
		return nil, apperror.FromGRPC(err)
	}

	posts := make([]*Post, 0, len(resp.Posts))
	for _, p := range resp.Posts {
		posts = append(posts, fromRPCPost(p))
	}
	return posts, nil
}

func (d *grpcDispatcher) Close() error {
	return d.conn.Close()
}
