package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/postboard/go-post-backend/internal/domain"
)

func newRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Release the file handle before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestCreatePost_Error_NoTable(t *testing.T) {
	db := newRepoDB(t /* no migrations */)
	p, err := CreatePost(context.Background(), db, "u1", "hello")
	if err == nil || p != nil {
		t.Fatalf("expected error creating without table, got post=%v err=%v", p, err)
	}
}

func TestCreatePost_Success_PersistsAndSetsFields(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.Post{})

	start := time.Now().UTC().Add(-time.Minute)
	p, err := CreatePost(context.Background(), db, "u1", "hello")
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if p.ID == "" || p.OwnerID != "u1" || p.Text != "hello" {
		t.Fatalf("unexpected Post fields: %+v", p)
	}
	if p.CreatedAt.Before(start) {
		t.Fatalf("CreatedAt seems unset: %v", p.CreatedAt)
	}
	// round-trip
	var got domain.Post
	if err := db.First(&got, "id = ?", p.ID).Error; err != nil {
		t.Fatalf("load created post: %v", err)
	}
	if got.OwnerID != "u1" || got.Text != "hello" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestListPostsByOwner_OrderAscendingAndFilter(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.Post{})

	t1 := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC) // oldest
	t2 := t1.Add(1 * time.Hour)
	t3 := t2.Add(1 * time.Hour)
	seed := []domain.Post{
		{ID: "p2", Text: "b", OwnerID: "u1", CreatedAt: t2},
		{ID: "p1", Text: "a", OwnerID: "u1", CreatedAt: t1},
		{ID: "p3", Text: "c", OwnerID: "u1", CreatedAt: t3},
		{ID: "px", Text: "other", OwnerID: "u2", CreatedAt: t2},
	}
	for _, p := range seed {
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("seed %s: %v", p.ID, err)
		}
	}

	list, err := ListPostsByOwner(context.Background(), db, "u1")
	if err != nil {
		t.Fatalf("ListPostsByOwner: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 posts for u1, got %d", len(list))
	}
	// Must be ascending: p1, p2, p3 (insertion order)
	if list[0].ID != "p1" || list[1].ID != "p2" || list[2].ID != "p3" {
		t.Fatalf("unexpected order: %#v", list)
	}
}

func TestListPostsByOwner_EmptyIsNotAnError(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.Post{})
	list, err := ListPostsByOwner(context.Background(), db, "nobody")
	if err != nil {
		t.Fatalf("ListPostsByOwner: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty slice, got %d", len(list))
	}
}

func TestDeletePost_OwnerScoped(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.Post{})

	if err := db.Create(&domain.Post{ID: "p1", Text: "mine", OwnerID: "u1"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Wrong owner: no deletion, post intact.
	deleted, err := DeletePost(context.Background(), db, "p1", "u2")
	if err != nil {
		t.Fatalf("DeletePost(wrong owner): %v", err)
	}
	if deleted {
		t.Fatal("foreign-owned post must not be deleted")
	}
	var count int64
	db.Model(&domain.Post{}).Where("id = ?", "p1").Count(&count)
	if count != 1 {
		t.Fatal("post should still exist after foreign delete attempt")
	}

	// Right owner: deletion happens.
	deleted, err = DeletePost(context.Background(), db, "p1", "u1")
	if err != nil {
		t.Fatalf("DeletePost(owner): %v", err)
	}
	if !deleted {
		t.Fatal("owner delete should report a removed row")
	}

	// Second attempt: nothing left to delete.
	deleted, err = DeletePost(context.Background(), db, "p1", "u1")
	if err != nil || deleted {
		t.Fatalf("repeat delete: deleted=%v err=%v", deleted, err)
	}
}

func TestCountPosts(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.Post{})
	for i := 0; i < 3; i++ {
		p := domain.Post{ID: fmt.Sprintf("p%d", i), Text: "t", OwnerID: "u1"}
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
	if err := db.Create(&domain.Post{ID: "px", Text: "t", OwnerID: "u2"}).Error; err != nil {
		t.Fatalf("seed px: %v", err)
	}

	total, err := CountPosts(context.Background(), db, "u1")
	if err != nil {
		t.Fatalf("CountPosts: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3, got %d", total)
	}
}
