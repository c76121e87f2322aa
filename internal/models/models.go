package models

import "time"

type User struct {
	ID           int64
	Email        string
	Username     string
	Name         string
	Age          int
	PasswordHash string
	ProfileImage string
	CreatedAt    time.Time
	Posts        []Post
}

type Post struct {
	ID        int64
	UserID    int64
	Content   string
	CreatedAt time.Time
	// Likes holds the ids of users who currently like the post.
	Likes []int64
}

// LikedBy reports whether userID is in the post's liker set. Value
// receiver so templates can call it while ranging over []Post.
func (p Post) LikedBy(userID int64) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// LikeCount is exposed for templates.
func (p Post) LikeCount() int {
	return len(p.Likes)
}
