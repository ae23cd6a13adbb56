package repo

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/postboard/go-post-backend/internal/domain"
)

func TestCreateUser_NormalizesEmail(t *testing.T) {
	db := newRepoDB(t, &domain.User{})

	u, err := CreateUser(context.Background(), db, "  A@X.Com ", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == "" || u.Email != "a@x.com" || u.PasswordHash != "hash" {
		t.Fatalf("unexpected User fields: %+v", u)
	}
}

func TestCreateUser_DuplicateEmailFails(t *testing.T) {
	db := newRepoDB(t, &domain.User{})

	if _, err := CreateUser(context.Background(), db, "a@x.com", "h1"); err != nil {
		t.Fatalf("first CreateUser: %v", err)
	}
	if _, err := CreateUser(context.Background(), db, "A@X.COM", "h2"); err == nil {
		t.Fatal("expected unique constraint violation for duplicate email")
	}
}

func TestGetUserByEmail(t *testing.T) {
	db := newRepoDB(t, &domain.User{})

	created, err := CreateUser(context.Background(), db, "a@x.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := GetUserByEmail(context.Background(), db, "A@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("wrong user: %+v", got)
	}

	if _, err := GetUserByEmail(context.Background(), db, "missing@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUser_CascadesToPosts(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.Post{})
	ctx := context.Background()

	u, err := CreateUser(ctx, db, "a@x.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	other, err := CreateUser(ctx, db, "b@x.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := CreatePost(ctx, db, u.ID, "mine"); err != nil {
			t.Fatalf("CreatePost: %v", err)
		}
	}
	keep, err := CreatePost(ctx, db, other.ID, "theirs")
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if err := DeleteUser(ctx, db, u.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	// Every owned post must be gone; nothing references a missing owner.
	var orphaned int64
	db.Model(&domain.Post{}).Where("owner_id = ?", u.ID).Count(&orphaned)
	if orphaned != 0 {
		t.Fatalf("expected cascade delete of owned posts, %d remain", orphaned)
	}

	// The other user's posts survive.
	var got domain.Post
	if err := db.First(&got, "id = ?", keep.ID).Error; err != nil {
		t.Fatalf("other user's post should survive: %v", err)
	}
}

func TestDeleteUser_MissingUser(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.Post{})
	if err := DeleteUser(context.Background(), db, "ghost"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
