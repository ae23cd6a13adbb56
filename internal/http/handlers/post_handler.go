// Post HTTP handlers.
//
// This file exposes the authenticated post endpoints:
//   - POST   /addpost/          (create)
//   - GET    /getposts/         (list, cache-backed)
//   - DELETE /deletepost/{id}   (owner-scoped delete)
//
// All three require a bearer token; the subject set by the auth middleware
// is the only identity the service layer ever sees. The addpost handler
// measures the raw body so the orchestrator can enforce its exact byte
// limit, independent of the transport-level cap.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/postboard/go-post-backend/internal/domain"
	"github.com/postboard/go-post-backend/internal/http/middleware"
	"github.com/postboard/go-post-backend/internal/services"
)

// PostService defines the post operations consumed by HTTP handlers.
// Implementations must be safe for concurrent use and honor the provided
// context.
type PostService interface {
	// AddPost persists a post for ownerID after checking bodySize against
	// the payload limit.
	AddPost(ctx context.Context, ownerID, text string, bodySize int64) (*domain.Post, error)
	// ListPosts returns all posts for ownerID, cache first.
	ListPosts(ctx context.Context, ownerID string) ([]domain.Post, error)
	// DeletePost removes a post owned by ownerID.
	DeletePost(ctx context.Context, ownerID, postID string) error
}

// Handlers groups the HTTP endpoints for accounts and posts. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	accountSvc AccountService
	postSvc    PostService
}

// New constructs a Handlers instance bound to the given services.
func New(accountSvc AccountService, postSvc PostService) *Handlers {
	return &Handlers{accountSvc: accountSvc, postSvc: postSvc}
}

//
// DTOs
//

// AddPostRequest is the JSON payload for creating a post.
type AddPostRequest struct {
	Text string `json:"text" example:"hello"`
}

// AddPostResponse returns the id assigned to a newly created post.
type AddPostResponse struct {
	PostID string `json:"postID"`
}

// PostView is the wire shape of a single post.
type PostView struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	OwnerID string `json:"owner_id"`
}

// PostsResponse wraps the owner's posts in insertion order.
type PostsResponse struct {
	Posts []PostView `json:"posts"`
}

// DeletePostResponse confirms a deletion.
type DeletePostResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

//
// Handlers
//

// AddPost creates a post for the authenticated user. The raw body is read
// first so its exact size reaches the service; the 413 boundary therefore
// sits at the service's configured limit, not at the transport cap above it.
func (h *Handlers) AddPost(c *gin.Context) {
	uid := middleware.UserID(c)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		// The transport-level MaxBytesReader tripped.
		fail(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "payload too large")
		return
	}

	var req AddPostRequest
	if err := json.Unmarshal(body, &req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	post, err := h.postSvc.AddPost(c.Request.Context(), uid, req.Text, int64(len(body)))
	switch {
	case errors.Is(err, services.ErrPayloadTooLarge):
		fail(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "payload too large")
		return
	case errors.Is(err, services.ErrEmptyPost):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "text must not be empty")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	ok(c, http.StatusCreated, AddPostResponse{PostID: post.ID})
}

// GetPosts lists the authenticated user's posts, served from the cache
// when warm. A user with zero posts gets 404 (an empty collection is a
// not-found condition on this API).
func (h *Handlers) GetPosts(c *gin.Context) {
	uid := middleware.UserID(c)

	posts, err := h.postSvc.ListPosts(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, services.ErrNoPosts) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "no posts found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, PostView{ID: p.ID, Text: p.Text, OwnerID: p.OwnerID})
	}
	ok(c, http.StatusOK, PostsResponse{Posts: views})
}

// DeletePost removes one of the authenticated user's posts. A missing post
// and someone else's post are indistinguishable: both 404.
func (h *Handlers) DeletePost(c *gin.Context) {
	uid := middleware.UserID(c)
	postID := c.Param("id")

	if err := h.postSvc.DeletePost(c.Request.Context(), uid, postID); err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "post not found or not owned")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	ok(c, http.StatusOK, DeletePostResponse{Success: true, Message: "Post deleted successfully"})
}
