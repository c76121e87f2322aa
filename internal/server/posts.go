package server

import (
	"errors"
	"net/http"
	"strconv"

	"chirp/internal/auth"
	"chirp/internal/models"
)

// ownerHandler runs only after the requester has been proven to own the
// post named in the path.
type ownerHandler func(http.ResponseWriter, *http.Request, *auth.Claims, *models.Post)

// requirePostOwner composes with requireAuth: it resolves the {id} path
// segment to a post and refuses the request unless the authenticated
// identity is the post's owner.
func (s *Server) requirePostOwner(next ownerHandler) authedHandler {
	return func(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		post, err := models.GetPost(s.DB, id)
		if err != nil {
			if errors.Is(err, models.ErrPostNotFound) {
				http.NotFound(w, r)
				return
			}
			s.log.Error().Err(err).Int64("post", id).Msg("post load failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if post.UserID != claims.UserID {
			http.Error(w, "not your post", http.StatusForbidden)
			return
		}
		next(w, r, claims, post)
	}
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	user, err := models.GetUserByEmail(s.DB, claims.Email)
	if err != nil {
		s.log.Error().Err(err).Str("email", claims.Email).Msg("create post: user load failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	content := r.FormValue("content")
	if _, err := models.CreatePost(s.DB, user.ID, content); err != nil {
		s.log.Error().Err(err).Msg("create post failed")
		http.Error(w, "could not create post", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request, claims *auth.Claims, post *models.Post) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.render(w, "edit", map[string]any{"Claims": claims, "Post": post})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request, claims *auth.Claims, post *models.Post) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := models.UpdatePostContent(s.DB, post.ID, r.FormValue("content")); err != nil {
		s.log.Error().Err(err).Int64("post", post.ID).Msg("update failed")
		http.Error(w, "could not update post", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if _, err := models.ToggleLike(s.DB, id, claims.UserID); err != nil {
		if errors.Is(err, models.ErrPostNotFound) {
			http.NotFound(w, r)
			return
		}
		s.log.Error().Err(err).Int64("post", id).Msg("like toggle failed")
		http.Error(w, "could not toggle like", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}
