// ABOUTME: REST HTTP handlers for accounts and posts
// ABOUTME: Public auth routes plus bearer-protected post CRUD under /api/protected

package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/2389/blog-server/internal/apperror"
	"github.com/2389/blog-server/internal/auth"
	"github.com/2389/blog-server/internal/store"
)

// RegisterRequest is the JSON request body for POST /api/public/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the JSON shape of an account in responses.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RegisterResponse is the JSON response for a successful registration.
// Token is present only when the server is configured to mint one on
// registration; clients must tolerate its absence.
type RegisterResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token,omitempty"`
}

// LoginRequest is the JSON request body for POST /api/public/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the JSON response for a successful login.
type LoginResponse struct {
	Token string `json:"token"`
}

// PostRequest is the JSON request body for creating or updating a post.
type PostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PostResponse is the JSON shape of a post in responses.
type PostResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	AuthorID  string `json:"author_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// ListPostsResponse is the JSON response for GET /api/protected/posts.
type ListPostsResponse struct {
	Posts []PostResponse `json:"posts"`
}

func userResponse(user *store.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

func postResponse(post *store.Post) PostResponse {
	resp := PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		AuthorID:  post.AuthorID,
		CreatedAt: post.CreatedAt.Format(time.RFC3339),
	}
	if post.UpdatedAt != nil {
		resp.UpdatedAt = post.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

// httpAPI bundles the collaborators the REST handlers need. authn is the
// authenticator the middleware consults; it may wrap authService with a
// cache and defaults to authService when unset.
type httpAPI struct {
	authService     *auth.Service
	authn           auth.Authenticator
	blog            *Blog
	tokenOnRegister bool
	logger          *slog.Logger
}

// registerRoutes wires all REST routes into the mux. Protected routes are
// wrapped in the bearer-token middleware; public routes are not.
func (a *httpAPI) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("POST /api/public/auth/register", a.handleRegister)
	mux.HandleFunc("POST /api/public/auth/login", a.handleLogin)

	authn := a.authn
	if authn == nil {
		authn = a.authService
	}
	protect := auth.HTTPAuthMiddleware(authn, a.logger)
	mux.Handle("POST /api/protected/posts", protect(http.HandlerFunc(a.handleCreatePost)))
	mux.Handle("GET /api/protected/posts", protect(http.HandlerFunc(a.handleListPosts)))
	mux.Handle("GET /api/protected/posts/{id}", protect(http.HandlerFunc(a.handleGetPost)))
	mux.Handle("PUT /api/protected/posts/{id}", protect(http.HandlerFunc(a.handleUpdatePost)))
	mux.Handle("DELETE /api/protected/posts/{id}", protect(http.HandlerFunc(a.handleDeletePost)))
	mux.Handle("GET /api/protected/posts/{id}/html", protect(http.HandlerFunc(a.handleRenderPost)))
}

// handleHealth returns 200 OK if the server is alive.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (a *httpAPI) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := a.authService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := RegisterResponse{User: userResponse(user)}
	if a.tokenOnRegister {
		token, err := a.authService.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		resp.Token = token
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (a *httpAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	token, err := a.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

func (a *httpAPI) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustFromContext(r.Context())

	var req PostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	post, err := a.blog.CreatePost(r.Context(), principal.ID, req.Title, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, postResponse(post))
}

func (a *httpAPI) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := a.blog.GetPost(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, postResponse(post))
}

func (a *httpAPI) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustFromContext(r.Context())

	var req PostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	post, err := a.blog.UpdatePost(r.Context(), principal.ID, r.PathValue("id"), req.Title, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, postResponse(post))
}

func (a *httpAPI) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustFromContext(r.Context())

	if err := a.blog.DeletePost(r.Context(), principal.ID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *httpAPI) handleListPosts(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, err)
		return
	}

	posts, err := a.blog.ListPosts(r.Context(), r.URL.Query().Get("author_id"), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := ListPostsResponse{Posts: make([]PostResponse, 0, len(posts))}
	for _, post := range posts {
		resp.Posts = append(resp.Posts, postResponse(post))
	}

	writeJSON(w, http.StatusOK, resp)
}

// queryInt parses an optional non-negative integer query parameter,
// returning 0 when absent.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, apperror.Newf(apperror.KindInvalidArgument, "invalid %s parameter", name)
	}
	return value, nil
}

// decodeJSON decodes a JSON request body, mapping failures to the shared
// taxonomy.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.New(apperror.KindInvalidArgument, "request body is required")
		}
		return apperror.Wrap(apperror.KindInvalidArgument, "invalid request body", err)
	}
	return nil
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError writes an error as the REST failure shape: the status mapped
// from the error kind and an {"error": message} body.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperror.HTTPStatus(err), map[string]string{"error": apperror.Public(err)})
}
