package server

import (
	"errors"
	"net/http"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"chirp/internal/auth"
	"chirp/internal/models"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.render(w, "index", map[string]any{"Claims": s.currentClaims(r)})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, "register", map[string]any{"Claims": s.currentClaims(r)})

	case http.MethodPost:
		name := r.FormValue("name")
		password := r.FormValue("password")
		username := r.FormValue("username")
		email := r.FormValue("email")
		age := atoi(r.FormValue("age"))
		if name == "" || password == "" || username == "" || email == "" {
			http.Error(w, "missing fields", http.StatusBadRequest)
			return
		}

		if _, err := models.GetUserByEmail(s.DB, email); err == nil {
			http.Error(w, "user already registered", http.StatusBadRequest)
			return
		} else if !errors.Is(err, models.ErrUserNotFound) {
			s.log.Error().Err(err).Msg("register: user lookup failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			s.log.Error().Err(err).Msg("register: hashing failed")
			http.Error(w, "hashing error", http.StatusInternalServerError)
			return
		}
		userID, err := models.CreateUser(s.DB, email, username, name, age, string(hash))
		if err != nil {
			if errors.Is(err, models.ErrDuplicateEmail) || errors.Is(err, models.ErrDuplicateUsername) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			s.log.Error().Err(err).Msg("register: create user failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if err := s.setSessionCookie(w, email, userID); err != nil {
			return
		}
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, "login", map[string]any{"Claims": s.currentClaims(r)})

	case http.MethodPost:
		email := r.FormValue("email")
		password := r.FormValue("password")
		user, err := models.GetUserByEmail(s.DB, email)
		if err != nil {
			if errors.Is(err, models.ErrUserNotFound) {
				http.Error(w, "user not found", http.StatusBadRequest)
				return
			}
			s.log.Error().Err(err).Msg("login: user lookup failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			http.Error(w, "incorrect password", http.StatusUnauthorized)
			return
		}
		if err := s.setSessionCookie(w, user.Email, user.ID); err != nil {
			return
		}
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// No server-side invalidation exists; only the client copy is dropped.
	http.SetCookie(w, &http.Cookie{Name: s.CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	user, err := models.GetUserByEmail(s.DB, claims.Email)
	if err != nil {
		s.log.Error().Err(err).Str("email", claims.Email).Msg("profile: user load failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	user.Posts, err = models.ListPostsByUser(s.DB, user.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("profile: posts load failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, "profile", map[string]any{"Claims": claims, "User": user})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, email string, userID int64) error {
	token, err := auth.Sign(s.secret, email, userID)
	if err != nil {
		s.log.Error().Err(err).Msg("token signing failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return err
	}
	http.SetCookie(w, &http.Cookie{Name: s.CookieName, Value: token, Path: "/", HttpOnly: true})
	return nil
}

// helpers
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
