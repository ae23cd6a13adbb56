// Package services – PostService
//
// This file implements PostService, the application-level component that
// orchestrates authenticated post access: it composes the post repository
// with the per-owner read-through cache, enforces the payload size limit,
// and scopes every mutation to the authenticated owner.
//
// Cache discipline (see internal/cache for the full rationale):
//   - reads populate the cache; writes only patch an already-warm entry
//   - cache patches are best-effort and never affect the response
//   - an empty store result is a not-found condition and is never cached
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// the owner id and, where useful, the cache outcome.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/postboard/go-post-backend/internal/cache"
	"github.com/postboard/go-post-backend/internal/domain"
)

// MaxPostBytesDefault is the request body ceiling applied when the service
// is constructed without an explicit limit.
const MaxPostBytesDefault int64 = 1_000_000

// PostRepo defines the repository contract required by PostService.
// Implementations are responsible for persistence of post rows.
type PostRepo interface {
	// CreatePost inserts a new post row owned by ownerID.
	CreatePost(ctx context.Context, db *gorm.DB, ownerID, text string) (*domain.Post, error)

	// ListPostsByOwner returns all posts for the owner in insertion order.
	ListPostsByOwner(ctx context.Context, db *gorm.DB, ownerID string) ([]domain.Post, error)

	// DeletePost conditionally deletes a post owned by ownerID, reporting
	// whether a row was removed.
	DeletePost(ctx context.Context, db *gorm.DB, postID, ownerID string) (bool, error)
}

// PostService coordinates post persistence, the owner cache, and the size
// limit. The subject (owner id) handed to its methods must come from a
// verified token; the service itself performs no token checks.
type PostService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the post repository used by this service.
	Repo PostRepo
	// Cache is the per-owner post cache. Nil disables caching entirely.
	Cache *cache.PostCache

	// MaxPostBytes caps the request body size for AddPost; <= 0 applies
	// MaxPostBytesDefault.
	MaxPostBytes int64
}

// AddPost validates and persists a new post for ownerID, then patches the
// owner's cache entry when one is warm. bodySize is the size in bytes of
// the raw request body; a body over the limit is rejected before any
// storage work. Returns the created post.
func (s *PostService) AddPost(ctx context.Context, ownerID, text string, bodySize int64) (*domain.Post, error) {
	tr := otel.Tracer("services/PostService")
	ctx, span := tr.Start(ctx, "AddPost",
		trace.WithAttributes(
			attribute.String("owner.id", ownerID),
			attribute.Int64("body.size", bodySize),
		),
	)
	defer span.End()

	if bodySize > s.limit() {
		return nil, ErrPayloadTooLarge
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyPost
	}

	p, err := s.Repo.CreatePost(ctx, s.DB, ownerID, text)
	if err != nil {
		return nil, err
	}

	// Best-effort patch: a cold cache stays cold and is warmed on the
	// next read.
	if s.Cache != nil {
		s.Cache.Append(ownerID, *p)
	}
	return p, nil
}

// ListPosts returns all posts for ownerID, serving from the cache when the
// entry is warm and falling back to the store on a miss. A non-empty store
// result populates the cache; an empty result returns ErrNoPosts and is
// never cached, so an owner with zero posts re-queries the store on every
// call.
func (s *PostService) ListPosts(ctx context.Context, ownerID string) ([]domain.Post, error) {
	tr := otel.Tracer("services/PostService")
	ctx, span := tr.Start(ctx, "ListPosts",
		trace.WithAttributes(attribute.String("owner.id", ownerID)),
	)
	defer span.End()

	if s.Cache != nil {
		if posts, ok := s.Cache.Get(ownerID); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return posts, nil
		}
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	posts, err := s.Repo.ListPostsByOwner(ctx, s.DB, ownerID)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrNoPosts
	}
	if s.Cache != nil {
		s.Cache.Put(ownerID, posts)
	}
	return posts, nil
}

// DeletePost removes a post owned by ownerID. A missing post and a post
// owned by someone else produce the same ErrPostNotFound. On success the
// owner's cache entry is patched best-effort.
func (s *PostService) DeletePost(ctx context.Context, ownerID, postID string) error {
	tr := otel.Tracer("services/PostService")
	ctx, span := tr.Start(ctx, "DeletePost",
		trace.WithAttributes(
			attribute.String("owner.id", ownerID),
			attribute.String("post.id", postID),
		),
	)
	defer span.End()

	deleted, err := s.Repo.DeletePost(ctx, s.DB, postID, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPostNotFound
	}
	if s.Cache != nil {
		s.Cache.Remove(ownerID, postID)
	}
	return nil
}

func (s *PostService) limit() int64 {
	if s.MaxPostBytes > 0 {
		return s.MaxPostBytes
	}
	return MaxPostBytesDefault
}
