// ABOUTME: Tests for the REST surface: auth routes, post CRUD, and error shapes
// ABOUTME: Runs the full mux with a real store via httptest

package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/blog-server/internal/auth"
	"github.com/2389/blog-server/internal/store"
)

var httpTestSecret = "rest-surface-test-secret-32-bytes"

// newTestMux builds the full REST mux on a fresh SQLite store.
func newTestMux(t *testing.T, tokenOnRegister bool) *http.ServeMux {
	t.Helper()

	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "blog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	codec, err := auth.NewTokenCodec([]byte(httpTestSecret), time.Hour)
	require.NoError(t, err)

	api := &httpAPI{
		authService:     auth.NewService(codec, s, auth.NewBcryptHasher(4), nil),
		blog:            NewBlog(s, nil),
		tokenOnRegister: tokenOnRegister,
	}

	mux := http.NewServeMux()
	api.registerRoutes(mux)
	return mux
}

// doJSON performs one request against the mux and decodes the JSON response.
func doJSON(t *testing.T, mux *http.ServeMux, method, path, token string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(encoded)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

// registerAndLogin creates an account and returns its id and a token.
func registerAndLogin(t *testing.T, mux *http.ServeMux, email string) (string, string) {
	t.Helper()

	var regResp RegisterResponse
	rec := doJSON(t, mux, http.MethodPost, "/api/public/auth/register", "",
		RegisterRequest{Username: email, Email: email, Password: "p1"}, &regResp)
	require.Equal(t, http.StatusCreated, rec.Code)

	var loginResp LoginResponse
	rec = doJSON(t, mux, http.MethodPost, "/api/public/auth/login", "",
		LoginRequest{Email: email, Password: "p1"}, &loginResp)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, loginResp.Token)

	return regResp.User.ID, loginResp.Token
}

func TestHTTP_Health(t *testing.T) {
	mux := newTestMux(t, false)

	rec := doJSON(t, mux, http.MethodGet, "/health", "", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestHTTP_Register(t *testing.T) {
	mux := newTestMux(t, false)

	var resp RegisterResponse
	rec := doJSON(t, mux, http.MethodPost, "/api/public/auth/register", "",
		RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "p1"}, &resp)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, resp.User.ID)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Empty(t, resp.Token, "token_on_register disabled: no token in response")

	// Duplicate email conflicts.
	rec = doJSON(t, mux, http.MethodPost, "/api/public/auth/register", "",
		RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: "p2"}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHTTP_Register_TokenOnRegister(t *testing.T) {
	mux := newTestMux(t, true)

	var resp RegisterResponse
	rec := doJSON(t, mux, http.MethodPost, "/api/public/auth/register", "",
		RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "p1"}, &resp)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, resp.Token, "token_on_register enabled: token in response")
}

func TestHTTP_Login_BadCredentials(t *testing.T) {
	mux := newTestMux(t, false)
	registerAndLogin(t, mux, "alice@example.com")

	for name, req := range map[string]LoginRequest{
		"unknown email":  {Email: "nobody@example.com", Password: "p1"},
		"wrong password": {Email: "alice@example.com", Password: "wrong"},
	} {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(t, mux, http.MethodPost, "/api/public/auth/login", "", req, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "invalid email or password", body["error"])
		})
	}
}

func TestHTTP_PostCRUD(t *testing.T) {
	mux := newTestMux(t, false)
	userID, token := registerAndLogin(t, mux, "alice@example.com")

	// Create
	var created PostResponse
	rec := doJSON(t, mux, http.MethodPost, "/api/protected/posts", token,
		PostRequest{Title: "t", Content: "c"}, &created)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, userID, created.AuthorID)
	assert.Empty(t, created.UpdatedAt)

	// Get
	var fetched PostResponse
	rec = doJSON(t, mux, http.MethodGet, "/api/protected/posts/"+created.ID, token, nil, &fetched)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, fetched.ID)

	// Update
	var updated PostResponse
	rec = doJSON(t, mux, http.MethodPut, "/api/protected/posts/"+created.ID, token,
		PostRequest{Title: "t2", Content: "c2"}, &updated)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t2", updated.Title)
	assert.NotEmpty(t, updated.UpdatedAt)

	// List
	var list ListPostsResponse
	rec = doJSON(t, mux, http.MethodGet, "/api/protected/posts?author_id="+userID, token, nil, &list)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, list.Posts, 1)
	assert.Equal(t, "t2", list.Posts[0].Title)

	// Delete
	rec = doJSON(t, mux, http.MethodDelete, "/api/protected/posts/"+created.ID, token, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Gone
	rec = doJSON(t, mux, http.MethodGet, "/api/protected/posts/"+created.ID, token, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTP_ProtectedRoutesRequireToken(t *testing.T) {
	mux := newTestMux(t, false)

	paths := map[string]string{
		http.MethodPost:   "/api/protected/posts",
		http.MethodGet:    "/api/protected/posts",
		http.MethodPut:    "/api/protected/posts/some-id",
		http.MethodDelete: "/api/protected/posts/some-id",
	}
	for method, path := range paths {
		t.Run(fmt.Sprintf("%s %s", method, path), func(t *testing.T) {
			rec := doJSON(t, mux, method, path, "", nil, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHTTP_CrossAuthorMutationRejected(t *testing.T) {
	mux := newTestMux(t, false)
	_, aliceToken := registerAndLogin(t, mux, "alice@example.com")
	_, bobToken := registerAndLogin(t, mux, "bob@example.com")

	var created PostResponse
	rec := doJSON(t, mux, http.MethodPost, "/api/protected/posts", aliceToken,
		PostRequest{Title: "t", Content: "c"}, &created)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Bob can read but not mutate alice's post.
	rec = doJSON(t, mux, http.MethodGet, "/api/protected/posts/"+created.ID, bobToken, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodPut, "/api/protected/posts/"+created.ID, bobToken,
		PostRequest{Title: "x", Content: "y"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, mux, http.MethodDelete, "/api/protected/posts/"+created.ID, bobToken, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTP_RenderPost(t *testing.T) {
	mux := newTestMux(t, false)
	_, token := registerAndLogin(t, mux, "alice@example.com")

	var created PostResponse
	rec := doJSON(t, mux, http.MethodPost, "/api/protected/posts", token,
		PostRequest{Title: "t", Content: "# Heading\n\nbody"}, &created)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/api/protected/posts/"+created.ID+"/html", token, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<h1>Heading</h1>")
}

func TestHTTP_InvalidBody(t *testing.T) {
	mux := newTestMux(t, false)
	_, token := registerAndLogin(t, mux, "alice@example.com")

	req := httptest.NewRequest(http.MethodPost, "/api/protected/posts", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
