package models

import (
	"database/sql"
	"errors"
	"strings"
)

var (
	ErrDuplicateEmail    = errors.New("user already registered")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrUserNotFound      = errors.New("user not found")
	ErrPostNotFound      = errors.New("post not found")
)

func CreateUser(db *sql.DB, email, username, name string, age int, passwordHash string) (int64, error) {
	res, err := db.Exec(`INSERT INTO users (email, username, name, age, password_hash) VALUES (?, ?, ?, ?, ?)`,
		email, username, name, age, passwordHash)
	if err != nil {
		str := err.Error()
		if strings.Contains(str, "UNIQUE constraint failed: users.email") {
			return 0, ErrDuplicateEmail
		}
		if strings.Contains(str, "UNIQUE constraint failed: users.username") {
			return 0, ErrDuplicateUsername
		}
		return 0, err
	}
	return res.LastInsertId()
}

func GetUserByEmail(db *sql.DB, email string) (*User, error) {
	row := db.QueryRow(`SELECT id, email, username, name, age, password_hash, profile_image, created_at FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func GetUserByID(db *sql.DB, id int64) (*User, error) {
	row := db.QueryRow(`SELECT id, email, username, name, age, password_hash, profile_image, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.Name, &u.Age, &u.PasswordHash, &u.ProfileImage, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func SetProfileImage(db *sql.DB, userID int64, filename string) error {
	res, err := db.Exec(`UPDATE users SET profile_image = ? WHERE id = ?`, filename, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CreatePost inserts a post owned by userID. The foreign key on user_id
// guarantees the owner exists at creation time.
func CreatePost(db *sql.DB, userID int64, content string) (int64, error) {
	res, err := db.Exec(`INSERT INTO posts (user_id, content) VALUES (?, ?)`, userID, content)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return res.LastInsertId()
}

func GetPost(db *sql.DB, id int64) (*Post, error) {
	row := db.QueryRow(`SELECT id, user_id, content, created_at FROM posts WHERE id = ?`, id)
	var p Post
	err := row.Scan(&p.ID, &p.UserID, &p.Content, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Likes, err = postLikes(db, p.ID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPostsByUser returns the user's posts oldest-first with liker sets
// populated.
func ListPostsByUser(db *sql.DB, userID int64) ([]Post, error) {
	rows, err := db.Query(`SELECT id, user_id, content, created_at FROM posts WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Content, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range posts {
		likes, err := postLikes(db, posts[i].ID)
		if err != nil {
			return nil, err
		}
		posts[i].Likes = likes
	}
	return posts, nil
}

func UpdatePostContent(db *sql.DB, id int64, content string) error {
	res, err := db.Exec(`UPDATE posts SET content = ? WHERE id = ?`, content, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPostNotFound
	}
	return nil
}

// ToggleLike flips userID's membership in the post's liker set inside a
// single transaction: remove if present, add if absent. Returns the new
// membership state. The composite primary key on post_likes keeps the set
// free of duplicates even if the insert races.
func ToggleLike(db *sql.DB, postID, userID int64) (liked bool, err error) {
	tx, err := db.Begin()
	if err != nil {
		return false, err
	}
	res, err := tx.Exec(`DELETE FROM post_likes WHERE post_id = ? AND user_id = ?`, postID, userID)
	if err != nil {
		tx.Rollback()
		return false, err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return false, err
	}
	if deleted == 0 {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO post_likes (post_id, user_id) VALUES (?, ?)`, postID, userID); err != nil {
			tx.Rollback()
			if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
				return false, ErrPostNotFound
			}
			return false, err
		}
		liked = true
	}
	return liked, tx.Commit()
}

func postLikes(db *sql.DB, postID int64) ([]int64, error) {
	rows, err := db.Query(`SELECT user_id FROM post_likes WHERE post_id = ? ORDER BY created_at`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var likes []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		likes = append(likes, id)
	}
	return likes, rows.Err()
}
