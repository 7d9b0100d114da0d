// ABOUTME: HTTP dispatcher: REST calls with bearer header attachment
// ABOUTME: Maps non-2xx responses into the shared error taxonomy

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/2389/blog-server/internal/apperror"
)

// httpDispatcher talks to the REST API.
type httpDispatcher struct {
	baseURL string
	client  *http.Client
}

func newHTTPDispatcher(baseURL string, httpClient *http.Client) *httpDispatcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &httpDispatcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

// wire shapes shared with the server's REST surface
type wireUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type wirePost struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	AuthorID  string `json:"author_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type wireRegisterResponse struct {
	User  wireUser `json:"user"`
	Token string   `json:"token"`
}

type wireLoginResponse struct {
	Token string `json:"token"`
}

type wireListPostsResponse struct {
	Posts []wirePost `json:"posts"`
}

func (p wirePost) toPost() *Post {
	return &Post{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// do performs one JSON request. A non-2xx response is decoded into the
// taxonomy via its status code and {"error": ...} body. When out is nil
// the response body is discarded.
func (d *httpDispatcher) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperror.Wrap(apperror.KindInternal, "encoding request", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, reqBody)
	if err != nil {
		return apperror.Wrap(apperror.KindInternal, "building request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return apperror.Wrap(apperror.KindInternal, "performing request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeHTTPError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.Wrap(apperror.KindInternal, "decoding response", err)
	}
	return nil
}

// decodeHTTPError turns a non-2xx response into an apperror, using the
// {"error": ...} body as detail when present.
func decodeHTTPError(resp *http.Response) error {
	message := ""
	var body struct {
		Error string `json:"error"`
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil && json.Unmarshal(raw, &body) == nil && body.Error != "" {
		message = body.Error
	}
	if message == "" {
		message = fmt.Sprintf("server returned %s", resp.Status)
	}
	return apperror.FromHTTPStatus(resp.StatusCode, message)
}

func (d *httpDispatcher) Register(ctx context.Context, username, email, password string) (*RegisterResult, error) {
	req := map[string]string{"username": username, "email": email, "password": password}
	var resp wireRegisterResponse
	if err := d.do(ctx, http.MethodPost, "/api/public/auth/register", "", req, &resp); err != nil {
		return nil, err
	}
	return &RegisterResult{
		User: &User{
			ID:       resp.User.ID,
			Username: resp.User.Username,
			Email:    resp.User.Email,
		},
		Token: resp.Token,
	}, nil
}

func (d *httpDispatcher) Login(ctx context.Context, email, password string) (string, error) {
	req := map[string]string{"email": email, "password": password}
	var resp wireLoginResponse
	if err := d.do(ctx, http.MethodPost, "/api/public/auth/login", "", req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (d *httpDispatcher) CreatePost(ctx context.Context, token, title, content string) (*Post, error) {
	req := map[string]string{"title": title, "content": content}
	var resp wirePost
	if err := d.do(ctx, http.MethodPost, "/api/protected/posts", token, req, &resp); err != nil {
		return nil, err
	}
	return resp.toPost(), nil
}

func (d *httpDispatcher) GetPost(ctx context.Context, token, id string) (*Post, error) {
	var resp wirePost
	if err := d.do(ctx, http.MethodGet, "/api/protected/posts/"+url.PathEscape(id), token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.toPost(), nil
}

func (d *httpDispatcher) UpdatePost(ctx context.Context, token, id, title, content string) (*Post, error) {
	req := map[string]string{"title": title, "content": content}
	var resp wirePost
	if err := d.do(ctx, http.MethodPut, "/api/protected/posts/"+url.PathEscape(id), token, req, &resp); err != nil {
		return nil, err
	}
	return resp.toPost(), nil
}

func (d *httpDispatcher) DeletePost(ctx context.Context, token, id string) error {
	return d.do(ctx, http.MethodDelete, "/api/protected/posts/"+url.PathEscape(id), token, nil, nil)
}

func (d *httpDispatcher) ListPosts(ctx context.Context, token string, opts ListOptions) ([]*Post, error) {
	query := url.Values{}
	if opts.AuthorID != "" {
		query.Set("author_id", opts.AuthorID)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}
	path := "/api/protected/posts"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp wireListPostsResponse
	if err := d.do(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, err
	}

	posts := make([]*Post, 0, len(resp.Posts))
	for _, p := range resp.Posts {
		posts = append(posts, p.toPost())
	}
	return posts, nil
}

func (d *httpDispatcher) Close() error {
	return nil
}
