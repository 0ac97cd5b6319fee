package http

import (
	"net/http"

	"notable/internal/auth"
	"notable/internal/config"
	"notable/internal/http/handler"
	mw "notable/internal/http/middleware"
	"notable/internal/note"
	"notable/internal/upload"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

func NewRouter(cfg config.Config, db *gorm.DB, jwtSvc *auth.JWT, files *upload.Store) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ah := &handler.AuthHandler{DB: db, JWT: jwtSvc}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	me := &handler.MeHandler{}
	r.With(auth.RequireAuth(jwtSvc)).Get("/me", me.Me)

	noteSvc := &note.Service{DB: db}
	catalog := &note.Labels{DB: db}
	noteH := &handler.NoteHandler{Svc: noteSvc, Files: files}
	labelH := &handler.LabelHandler{Catalog: catalog, Svc: noteSvc}

	r.Route("/notes", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Get("/", noteH.List)
		r.Post("/", noteH.Create)

		r.Get("/{id}", noteH.Get)
		r.Put("/{id}", noteH.Update)
		r.Delete("/{id}", noteH.Delete)

		r.Put("/{id}/labels", noteH.SetLabels)
		r.Get("/{id}/export", noteH.Export)
	})

	r.Route("/labels", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Get("/", labelH.List)
		r.Get("/used", labelH.ListUsed)
		r.Post("/", labelH.Create)

		r.Put("/{id}", labelH.Update)
		r.Delete("/{id}", labelH.Delete)
		r.Get("/{id}/notes", labelH.Notes)
	})

	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(files.Dir))))

	return r
}
