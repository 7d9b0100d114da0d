// ABOUTME: gRPC BlogService implementation delegating to the shared services
// ABOUTME: Protected methods read the principal that the interceptors attached

package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/2389/blog-server/internal/apperror"
	"github.com/2389/blog-server/internal/auth"
	"github.com/2389/blog-server/internal/store"
	"github.com/2389/blog-server/rpc/blogrpc"
)

// BlogService implements blogrpc.BlogServiceServer. Authentication happens
// in the interceptors; protected methods assume a principal is present.
type BlogService struct {
	blogrpc.UnimplementedBlogServiceServer

	authService *auth.Service
	blog        *Blog
	logger      *slog.Logger
}

// NewBlogService creates the gRPC service implementation.
func NewBlogService(authService *auth.Service, blog *Blog, logger *slog.Logger) *BlogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BlogService{
		authService: authService,
		blog:        blog,
		logger:      logger.With("component", "grpc-blog"),
	}
}

func rpcUser(user *store.User) *blogrpc.User {
	return &blogrpc.User{
		Id:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

func rpcPost(post *store.Post) *blogrpc.Post {
	p := &blogrpc.Post{
		Id:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		AuthorId:  post.AuthorID,
		CreatedAt: post.CreatedAt.Format(time.RFC3339),
	}
	if post.UpdatedAt != nil {
		p.UpdatedAt = post.UpdatedAt.Format(time.RFC3339)
	}
	return p
}

// Register creates an account. Unlike the HTTP endpoint it never returns a
// token; RPC callers log in separately.
func (s *BlogService) Register(ctx context.Context, req *blogrpc.RegisterRequest) (*blogrpc.RegisterResponse, error) {
	user, err := s.authService.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, apperror.GRPCStatus(err)
	}
	return &blogrpc.RegisterResponse{User: rpcUser(user)}, nil
}

// Login authenticates an account and returns a bearer token.
func (s *BlogService) Login(ctx context.Context, req *blogrpc.LoginRequest) (*blogrpc.LoginResponse, error) {
	token, err := s.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, apperror.GRPCStatus(err)
	}
	return &blogrpc.LoginResponse{Token: token}, nil
}

func (s *BlogService) CreatePost(ctx context.Context, req *blogrpc.CreatePostRequest) (*blogrpc.PostResponse, error) {
	principal := auth.MustFromContext(ctx)

	post, err := s.blog.CreatePost(ctx, principal.ID, req.Title, req.Content)
	if err != nil {
		return nil, apperror.GRPCStatus(err)
	}
	return &blogrpc.PostResponse{Post: rpcPost(post)}, nil
}

func (s *BlogService) GetPost(ctx context.Context, req *blogrpc.GetPostRequest) (*blogrpc.PostResponse, error) {
	post, err := s.blog.GetPost(ctx, req.Id)
	if err != nil {
		return nil, apperror.GRPCStatus(err)
	}
	return &blogrpc.PostResponse{Post: rpcPost(post)}, nil
}

func (s *BlogService) UpdatePost(ctx context.Context, req *blogrpc.UpdatePostRequest) (*blogrpc.PostResponse, error) {
	principal := auth.MustFromContext(ctx)

	post, err := s.blog.UpdatePost(ctx, principal.ID, req.Id, req.Title, req.Content)
	if err != nil {
		return nil, apperror.GRPCStatus(err)
	}
	return &blogrpc.PostResponse{Post: rpcPost(post)}, nil
}

func (s *BlogService) DeletePost(ctx context.Context, req *blogrpc.DeletePostRequest) (*blogrpc.Empty, error) {
	principal := auth.MustFromContext(ctx)

	if err := s.blog.DeletePost(ctx, principal.ID, req.Id); err != nil {
		return nil, apperror.GRPCStatus(err)
	}
	return &blogrpc.Empty{}, nil
}

func (s *BlogService) ListPosts(ctx context.Context, req *blogrpc.ListPostsRequest) (*blogrpc.ListPostsResponse, error) {
	posts, err := s.blog.ListPosts(ctx, req.AuthorId, req.Limit, req.Offset)
	if err != nil {
		return nil, apperror.GRPCStatus(err)
	}

	resp := &blogrpc.ListPostsResponse{Posts: make([]*blogrpc.Post, 0, len(posts))}
	for _, post := range posts {
		resp.Posts = append(resp.Posts, rpcPost(post))
	}
	return resp, nil
}
