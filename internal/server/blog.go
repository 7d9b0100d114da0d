// ABOUTME: Transport-independent post operations with ownership rules
// ABOUTME: Shared by the HTTP handlers and the gRPC BlogService

package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2389/blog-server/internal/apperror"
	"github.com/2389/blog-server/internal/store"
)

// Blog implements post operations on top of a PostStore. Authorization is
// enforced here, not in the transports: mutating a post requires the
// caller to be its author.
type Blog struct {
	posts  store.PostStore
	logger *slog.Logger
}

// NewBlog creates a Blog service backed by the given post store.
func NewBlog(posts store.PostStore, logger *slog.Logger) *Blog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Blog{
		posts:  posts,
		logger: logger.With("component", "blog"),
	}
}

// CreatePost creates a post owned by authorID.
func (b *Blog) CreatePost(ctx context.Context, authorID, title, content string) (*store.Post, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperror.New(apperror.KindInvalidArgument, "title is required")
	}
	if content == "" {
		return nil, apperror.New(apperror.KindInvalidArgument, "content is required")
	}

	post := &store.Post{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := b.posts.CreatePost(ctx, post); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "creating post", err)
	}

	b.logger.Info("post created", "post_id", post.ID, "author_id", authorID)
	return post, nil
}

// GetPost fetches a post by id. Any authenticated caller may read any post.
func (b *Blog) GetPost(ctx context.Context, id string) (*store.Post, error) {
	if id == "" {
		return nil, apperror.New(apperror.KindInvalidArgument, "post id is required")
	}

	post, err := b.posts.GetPost(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.New(apperror.KindNotFound, "post not found")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "fetching post", err)
	}
	return post, nil
}

// UpdatePost replaces a post's title and content. Only the author may
// update a post; anyone else gets the same answer as for a missing post.
func (b *Blog) UpdatePost(ctx context.Context, callerID, id, title, content string) (*store.Post, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperror.New(apperror.KindInvalidArgument, "title is required")
	}
	if content == "" {
		return nil, apperror.New(apperror.KindInvalidArgument, "content is required")
	}

	post, err := b.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != callerID {
		return nil, apperror.New(apperror.KindNotFound, "post not found")
	}

	post.Title = title
	post.Content = content
	if err := b.posts.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.New(apperror.KindNotFound, "post not found")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "updating post", err)
	}

	b.logger.Info("post updated", "post_id", post.ID, "author_id", callerID)
	return post, nil
}

// DeletePost removes a post. Only the author may delete a post.
func (b *Blog) DeletePost(ctx context.Context, callerID, id string) error {
	post, err := b.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != callerID {
		return apperror.New(apperror.KindNotFound, "post not found")
	}

	if err := b.posts.DeletePost(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperror.New(apperror.KindNotFound, "post not found")
		}
		return apperror.Wrap(apperror.KindInternal, "deleting post", err)
	}

	b.logger.Info("post deleted", "post_id", id, "author_id", callerID)
	return nil
}

// ListPosts returns one newest-first page of posts. An empty authorID
// lists posts by all authors.
func (b *Blog) ListPosts(ctx context.Context, authorID string, limit, offset int) ([]*store.Post, error) {
	if limit < 0 {
		return nil, apperror.New(apperror.KindInvalidArgument, "limit must not be negative")
	}
	if offset < 0 {
		return nil, apperror.New(apperror.KindInvalidArgument, "offset must not be negative")
	}

	posts, err := b.posts.ListPosts(ctx, authorID, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "listing posts", err)
	}
	return posts, nil
}
