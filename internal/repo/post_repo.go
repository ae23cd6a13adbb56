// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Post model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postboard/go-post-backend/internal/domain"
)

// CreatePost inserts a new post row owned by ownerID. The id is a randomly
// generated UUID and CreatedAt is set to UTC. The insert is a single
// statement: either the post exists with its id or the call fails whole.
func CreatePost(ctx context.Context, db *gorm.DB, ownerID, text string) (*domain.Post, error) {
	p := &domain.Post{
		ID:        uuid.NewString(),
		Text:      text,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// ListPostsByOwner returns all posts for ownerID ordered deterministically
// (CreatedAt ASC, ID ASC: insertion order, which is also the order the
// cache preserves). Returns an empty slice when the owner has no posts.
func ListPostsByOwner(ctx context.Context, db *gorm.DB, ownerID string) ([]domain.Post, error) {
	var out []domain.Post
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// DeletePost deletes the post only when it exists AND is owned by ownerID,
// reporting whether a row was removed. The ownership check and the delete
// are one conditional statement, so there is no read-then-delete window in
// which ownership could change.
func DeletePost(ctx context.Context, db *gorm.DB, postID, ownerID string) (bool, error) {
	res := db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", postID, ownerID).
		Delete(&domain.Post{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountPosts returns the total number of posts owned by ownerID.
func CountPosts(ctx context.Context, db *gorm.DB, ownerID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("owner_id = ?", ownerID).
		Count(&total).Error
	return total, err
}
