// ABOUTME: Markdown-to-HTML rendering for post content
// ABOUTME: Serves GET /api/protected/posts/{id}/html via goldmark

package server

import (
	"bytes"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/2389/blog-server/internal/apperror"
)

// markdown renders post content. Raw HTML in post bodies is escaped; posts
// come from authenticated users but are still untrusted input.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// handleRenderPost serves a post's content rendered from Markdown to HTML.
func (a *httpAPI) handleRenderPost(w http.ResponseWriter, r *http.Request) {
	post, err := a.blog.GetPost(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(post.Content), &buf); err != nil {
		writeError(w, apperror.Wrap(apperror.KindInternal, "rendering post", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
