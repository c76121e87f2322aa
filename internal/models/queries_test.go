package models

import (
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"chirp/internal/db"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func mustCreateUser(t *testing.T, database *sql.DB, email, username string) int64 {
	t.Helper()
	id, err := CreateUser(database, email, username, "Test User", 30, "hash")
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return id
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	database := newTestDB(t)
	mustCreateUser(t, database, "a@x.com", "alice")
	if _, err := CreateUser(database, "a@x.com", "other", "Other", 20, "hash"); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
	var n int
	if err := database.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, "a@x.com").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("user rows = %d, want 1", n)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	database := newTestDB(t)
	mustCreateUser(t, database, "a@x.com", "alice")
	if _, err := CreateUser(database, "b@x.com", "alice", "Other", 20, "hash"); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("err = %v, want ErrDuplicateUsername", err)
	}
}

func TestGetUserByEmailNotFound(t *testing.T) {
	database := newTestDB(t)
	if _, err := GetUserByEmail(database, "nobody@x.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestCreatePostUnknownOwner(t *testing.T) {
	database := newTestDB(t)
	if _, err := CreatePost(database, 99, "hello"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestListPostsByUserOrder(t *testing.T) {
	database := newTestDB(t)
	uid := mustCreateUser(t, database, "a@x.com", "alice")
	for _, content := range []string{"first", "second", "third"} {
		if _, err := CreatePost(database, uid, content); err != nil {
			t.Fatalf("create post: %v", err)
		}
	}
	posts, err := ListPostsByUser(database, uid)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("posts = %d, want 3", len(posts))
	}
	for i, want := range []string{"first", "second", "third"} {
		if posts[i].Content != want {
			t.Fatalf("posts[%d] = %q, want %q", i, posts[i].Content, want)
		}
	}
}

func TestUpdatePostContent(t *testing.T) {
	database := newTestDB(t)
	uid := mustCreateUser(t, database, "a@x.com", "alice")
	pid, err := CreatePost(database, uid, "before")
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if err := UpdatePostContent(database, pid, "after"); err != nil {
		t.Fatalf("update: %v", err)
	}
	post, err := GetPost(database, pid)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if post.Content != "after" {
		t.Fatalf("content = %q", post.Content)
	}
	if err := UpdatePostContent(database, 9999, "x"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("err = %v, want ErrPostNotFound", err)
	}
}

func TestToggleLikeInvolution(t *testing.T) {
	database := newTestDB(t)
	uid := mustCreateUser(t, database, "a@x.com", "alice")
	pid, err := CreatePost(database, uid, "hello")
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	liked, err := ToggleLike(database, pid, uid)
	if err != nil || !liked {
		t.Fatalf("first toggle: liked=%v err=%v", liked, err)
	}
	post, _ := GetPost(database, pid)
	if len(post.Likes) != 1 || post.Likes[0] != uid {
		t.Fatalf("likes = %v, want [%d]", post.Likes, uid)
	}

	liked, err = ToggleLike(database, pid, uid)
	if err != nil || liked {
		t.Fatalf("second toggle: liked=%v err=%v", liked, err)
	}
	post, _ = GetPost(database, pid)
	if len(post.Likes) != 0 {
		t.Fatalf("likes = %v, want empty", post.Likes)
	}
}

func TestToggleLikeUnknownPost(t *testing.T) {
	database := newTestDB(t)
	uid := mustCreateUser(t, database, "a@x.com", "alice")
	if _, err := ToggleLike(database, 9999, uid); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("err = %v, want ErrPostNotFound", err)
	}
}

// Two users toggling the same post at the same time must both land: the
// toggle is a single storage transaction, not an application-level
// read-modify-write.
func TestToggleLikeConcurrentUsers(t *testing.T) {
	database := newTestDB(t)
	alice := mustCreateUser(t, database, "a@x.com", "alice")
	bob := mustCreateUser(t, database, "b@x.com", "bob")
	pid, err := CreatePost(database, alice, "hello")
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, uid := range []int64{alice, bob} {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			if _, err := ToggleLike(database, pid, uid); err != nil {
				errs <- err
			}
		}(uid)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("toggle: %v", err)
	}

	post, err := GetPost(database, pid)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(post.Likes) != 2 {
		t.Fatalf("likes = %v, want both users", post.Likes)
	}
}
