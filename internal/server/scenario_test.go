// ABOUTME: End-to-end scenario: client Session against a live HTTP server
// ABOUTME: register -> login -> create -> list -> delete -> get gone

package server

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/blog-server/internal/apperror"
	"github.com/2389/blog-server/internal/client"
)

func TestScenario_FullLifecycleOverHTTP(t *testing.T) {
	mux := newTestMux(t, false)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	session := client.NewHTTPSession(ts.URL, ts.Client())
	defer session.Close()
	ctx := context.Background()

	// Register. token_on_register is off, so no token is captured yet.
	user, err := session.Register(ctx, "alice", "alice@example.com", "p1")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	assert.Empty(t, session.Token())

	// A protected call before login fails without reaching the server.
	_, err = session.ListPosts(ctx, client.ListOptions{})
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthenticated))

	// Login captures the token.
	require.NoError(t, session.Login(ctx, "alice@example.com", "p1"))
	require.NotEmpty(t, session.Token())

	// Create a post authored by alice.
	post, err := session.CreatePost(ctx, "t", "c")
	require.NoError(t, err)
	assert.Equal(t, user.ID, post.AuthorID)

	// Listing alice's posts returns exactly that one post.
	posts, err := session.ListPosts(ctx, client.ListOptions{AuthorID: user.ID})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)

	// Delete it; a subsequent get reports NotFound.
	require.NoError(t, session.DeletePost(ctx, post.ID))

	_, err = session.GetPost(ctx, post.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound), "got %v", err)
}

func TestScenario_LoginFailureIsInvalidCredentials(t *testing.T) {
	mux := newTestMux(t, false)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	session := client.NewHTTPSession(ts.URL, ts.Client())
	defer session.Close()
	ctx := context.Background()

	_, err := session.Register(ctx, "alice", "alice@example.com", "p1")
	require.NoError(t, err)

	unknownErr := session.Login(ctx, "nobody@example.com", "p1")
	wrongErr := session.Login(ctx, "alice@example.com", "wrong")

	assert.True(t, apperror.IsKind(unknownErr, apperror.KindInvalidCredentials))
	assert.True(t, apperror.IsKind(wrongErr, apperror.KindInvalidCredentials))
	assert.Equal(t, apperror.Public(unknownErr), apperror.Public(wrongErr),
		"login failures must be indistinguishable")
}

func TestScenario_TokenOnRegisterCaptured(t *testing.T) {
	mux := newTestMux(t, true)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	session := client.NewHTTPSession(ts.URL, ts.Client())
	defer session.Close()
	ctx := context.Background()

	user, err := session.Register(ctx, "alice", "alice@example.com", "p1")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token(), "register response token should be captured")

	// The captured token works for protected calls immediately.
	post, err := session.CreatePost(ctx, "t", "c")
	require.NoError(t, err)
	assert.Equal(t, user.ID, post.AuthorID)
}
