package api

import (
	"net/http"
	"time"

	"portfolio-backend/internal/content"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/ratelimit"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

type resource interface {
	Slug() string
	PublicGet(http.ResponseWriter, *http.Request)
	Routes(func(http.Handler) http.Handler) func(chi.Router)
}

func (s *Server) resources() []resource {
	c := s.Catalog
	return []resource{
		NewResource(s, portfolio.SlugProjects, c.Projects,
			func() content.Payload { return &portfolio.ProjectInput{} },
			func() content.Payload { return &portfolio.ProjectPatch{} }),
		NewResource(s, portfolio.SlugAbout, c.About,
			func() content.Payload { return &portfolio.AboutInput{} },
			func() content.Payload { return &portfolio.AboutPatch{} }),
		NewResource(s, portfolio.SlugTestimonials, c.Testimonials,
			func() content.Payload { return &portfolio.TestimonialInput{} },
			func() content.Payload { return &portfolio.TestimonialPatch{} }),
		NewResource(s, portfolio.SlugContact, c.Contact,
			func() content.Payload { return &portfolio.ContactInput{} },
			func() content.Payload { return &portfolio.ContactPatch{} }),
	}
}

func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(s.Log))
	r.Use(middleware.CORS(s.Cfg.FrontendOrigins))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.Health)

	window := time.Duration(s.Cfg.RateLimitWindowSec) * time.Second
	submissions := middleware.NewRateLimiter(ratelimit.OpSubmit, s.Cfg.RateLimitSubmissions, window)
	resources := s.resources()

	r.Route("/api/v1", func(api chi.Router) {
		for _, res := range resources {
			api.Get("/"+res.Slug(), res.PublicGet)
		}
		api.With(submissions.Middleware).Post("/testimonials", s.SubmitTestimonial)

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.Authenticate(s.Cfg.AdminAPIKey, s.Tokens))

			admin.Post("/register", s.AdminRegister)
			admin.Post("/login", s.AdminLogin)
			admin.Post("/refresh", s.AdminRefresh)
			admin.Post("/logout", s.AdminLogout)

			admin.With(middleware.RequireAdmin).Get("/status", s.AdminStatus)
			admin.With(middleware.RequireAdmin).Delete("/status/{entity}/error", s.AdminDismissError)
			admin.Post("/media/uploads", s.AdminPresignUpload)

			for _, res := range resources {
				admin.Route("/"+res.Slug(), res.Routes(middleware.RequireAdmin))
			}
		})
	})

	return r
}
