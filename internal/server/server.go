package server

import (
	"database/sql"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"chirp/internal/config"
)

type Server struct {
	DB *sql.DB

	tmpl map[string]*template.Template

	CookieName string

	secret    []byte
	uploadDir string
	log       zerolog.Logger
	metrics   *serverMetrics
}

func New(db *sql.DB, cfg config.Config, log zerolog.Logger) (*Server, error) {
	templates := map[string]*template.Template{}
	layout := filepath.Join(cfg.TemplateDir, "layout.html")
	pages, err := filepath.Glob(filepath.Join(cfg.TemplateDir, "*.html"))
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		if filepath.Base(page) == "layout.html" {
			continue
		}
		t, err := template.ParseFiles(layout, page)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(page), ".html")
		templates[name] = t
	}
	return &Server{
		DB:         db,
		tmpl:       templates,
		CookieName: "token",
		secret:     cfg.Secret,
		uploadDir:  cfg.UploadDir,
		log:        log,
		metrics:    newServerMetrics(),
	}, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/register", s.handleRegister)
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)
	mux.HandleFunc("/profile", s.requireAuth(s.handleProfile))
	mux.HandleFunc("/post", s.requireAuth(s.handleCreatePost))
	mux.HandleFunc("/like/{id}", s.requireAuth(s.handleLike))
	mux.HandleFunc("/edit/{id}", s.requireAuth(s.requirePostOwner(s.handleEdit)))
	mux.HandleFunc("/update/{id}", s.requireAuth(s.requirePostOwner(s.handleUpdate)))
	mux.HandleFunc("/profile/upload", s.requireAuth(s.handleUploadForm))
	mux.HandleFunc("/upload", s.requireAuth(s.handleUpload))
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadDir))))
	return s.instrument(mux)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.routes().ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	t, ok := s.tmpl[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		s.log.Error().Err(err).Str("template", name).Msg("render failed")
	}
}
