// ABOUTME: Request and response message types for the BlogService RPC API
// ABOUTME: Field names are shared with the HTTP transport's JSON payloads

package blogrpc

// User is the wire shape of a registered account.
type User struct {
	Id       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Post is the wire shape of a blog post. Timestamps are RFC 3339 strings;
// UpdatedAt is empty until the post is first updated.
type Post struct {
	Id        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	AuthorId  string `json:"author_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse carries the created account. It never carries a token:
// RPC callers log in separately.
type RegisterResponse struct {
	User *User `json:"user"`
}

// LoginRequest authenticates an account.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token for the authenticated account.
type LoginResponse struct {
	Token string `json:"token"`
}

// CreatePostRequest creates a post owned by the authenticated principal.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// GetPostRequest fetches a post by id.
type GetPostRequest struct {
	Id string `json:"id"`
}

// UpdatePostRequest replaces a post's title and content.
type UpdatePostRequest struct {
	Id      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// DeletePostRequest removes a post by id.
type DeletePostRequest struct {
	Id string `json:"id"`
}

// ListPostsRequest pages through posts, newest first. An empty AuthorId
// lists posts by all authors.
type ListPostsRequest struct {
	AuthorId string `json:"author_id,omitempty"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
}

// ListPostsResponse carries one page of posts.
type ListPostsResponse struct {
	Posts []*Post `json:"posts"`
}

// PostResponse carries a single post.
type PostResponse struct {
	Post *Post `json:"post"`
}

// Empty is the response for operations with no payload.
type Empty struct{}
