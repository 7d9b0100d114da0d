// ABOUTME: Unit tests for the Session façade against a spy dispatcher
// ABOUTME: Verifies token lifecycle, fail-fast behavior, and error re-kinding

package client

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/blog-server/internal/apperror"
)

// spyDispatcher counts calls and returns canned results.
type spyDispatcher struct {
	mu            sync.Mutex
	calls         int
	registerToken string
	loginToken    string
	loginErr      error
	lastToken     string
}

func (d *spyDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func (d *spyDispatcher) record(token string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	d.lastToken = token
}

func (d *spyDispatcher) Register(_ context.Context, username, email, _ string) (*RegisterResult, error) {
	d.record("")
	return &RegisterResult{
		User:  &User{ID: "user-1", Username: username, Email: email},
		Token: d.registerToken,
	}, nil
}

func (d *spyDispatcher) Login(_ context.Context, _, _ string) (string, error) {
	d.record("")
	if d.loginErr != nil {
		return "", d.loginErr
	}
	return d.loginToken, nil
}

func (d *spyDispatcher) CreatePost(_ context.Context, token, title, content string) (*Post, error) {
	d.record(token)
	return &Post{ID: "post-1", Title: title, Content: content, AuthorID: "user-1"}, nil
}

func (d *spyDispatcher) GetPost(_ context.Context, token, id string) (*Post, error) {
	d.record(token)
	return &Post{ID: id}, nil
}

func (d *spyDispatcher) UpdatePost(_ context.Context, token, id, title, content string) (*Post, error) {
	d.record(token)
	return &Post{ID: id, Title: title, Content: content}, nil
}

func (d *spyDispatcher) DeletePost(_ context.Context, token, _ string) error {
	d.record(token)
	return nil
}

func (d *spyDispatcher) ListPosts(_ context.Context, token string, _ ListOptions) ([]*Post, error) {
	d.record(token)
	return nil, nil
}

func (d *spyDispatcher) Close() error { return nil }

func newSpySession(spy *spyDispatcher) *Session {
	return &Session{transport: TransportHTTP, dispatch: spy}
}

// Protected operations without a token must fail before any network call.
func TestSession_NoToken_FailsFastWithoutNetwork(t *testing.T) {
	spy := &spyDispatcher{}
	session := newSpySession(spy)
	ctx := context.Background()

	ops := map[string]func() error{
		"CreatePost": func() error { _, err := session.CreatePost(ctx, "t", "c"); return err },
		"GetPost":    func() error { _, err := session.GetPost(ctx, "post-1"); return err },
		"UpdatePost": func() error { _, err := session.UpdatePost(ctx, "post-1", "t", "c"); return err },
		"DeletePost": func() error { return session.DeletePost(ctx, "post-1") },
		"ListPosts":  func() error { _, err := session.ListPosts(ctx, ListOptions{}); return err },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op()
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, apperror.KindUnauthenticated),
				"expected Unauthenticated, got %v", err)
		})
	}

	assert.Equal(t, 0, spy.count(), "no network calls may happen without a token")
}

func TestSession_Login_StoresToken(t *testing.T) {
	spy := &spyDispatcher{loginToken: "tok-abc"}
	session := newSpySession(spy)

	require.NoError(t, session.Login(context.Background(), "a@example.com", "pw"))
	assert.Equal(t, "tok-abc", session.Token())

	_, err := session.CreatePost(context.Background(), "t", "c")
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", spy.lastToken, "dispatcher must receive the stored token")
}

func TestSession_Login_ReKindsAuthRejection(t *testing.T) {
	spy := &spyDispatcher{
		loginErr: apperror.New(apperror.KindUnauthenticated, "invalid email or password"),
	}
	session := newSpySession(spy)

	err := session.Login(context.Background(), "a@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidCredentials),
		"login rejection should surface as InvalidCredentials, got %v", err)
	assert.Empty(t, session.Token())
}

func TestSession_Register_CapturesTokenWhenPresent(t *testing.T) {
	spy := &spyDispatcher{registerToken: "tok-reg"}
	session := newSpySession(spy)

	user, err := session.Register(context.Background(), "alice", "a@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "tok-reg", session.Token())
}

// A register response without a token is valid: the RPC server never
// returns one, and the HTTP server only does so when configured to.
func TestSession_Register_ToleratesMissingToken(t *testing.T) {
	spy := &spyDispatcher{}
	session := newSpySession(spy)

	user, err := session.Register(context.Background(), "alice", "a@example.com", "pw")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Empty(t, session.Token(), "no token should be stored")
}

func TestSession_SetToken_Replaces(t *testing.T) {
	session := newSpySession(&spyDispatcher{})

	session.SetToken("first")
	session.SetToken("second")
	assert.Equal(t, "second", session.Token())

	session.SetToken("")
	assert.Empty(t, session.Token())
}

func TestSession_ConcurrentTokenAccess(t *testing.T) {
	session := newSpySession(&spyDispatcher{})

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				session.SetToken("tok-a")
			} else {
				session.SetToken("tok-b")
			}
		}()
		go func() {
			defer wg.Done()
			_ = session.Token()
		}()
	}
	wg.Wait()

	got := session.Token()
	assert.Contains(t, []string{"tok-a", "tok-b"}, got)
}
