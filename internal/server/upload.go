package server

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"chirp/internal/auth"
	"chirp/internal/models"
)

func (s *Server) handleUploadForm(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.render(w, "upload", map[string]any{"Claims": claims})
}

// handleUpload stores the submitted image under a random name and records
// it as the uploader's profile image.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "missing image", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		s.log.Error().Err(err).Msg("upload: mkdir failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	name := uuid.NewString() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(s.uploadDir, name))
	if err != nil {
		s.log.Error().Err(err).Msg("upload: create failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		s.log.Error().Err(err).Msg("upload: write failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := models.SetProfileImage(s.DB, claims.UserID, name); err != nil {
		s.log.Error().Err(err).Int64("user", claims.UserID).Msg("upload: associate failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}
