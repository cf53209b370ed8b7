// Package api exposes the content engine over HTTP: public reads, gated admin
// writes, the dashboard status and the admin session endpoints.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/content"
	"portfolio-backend/internal/errs"
	"portfolio-backend/internal/httpx"
	"portfolio-backend/internal/media"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/transport"
	"portfolio-backend/internal/users"
	"portfolio-backend/internal/validation"
)

type TestimonialMailer interface {
	SendTestimonialPending(ctx context.Context, ownerEmail string, t portfolio.Testimonial) (string, error)
}

type Uploads interface {
	PresignUpload(ctx context.Context, req media.Request) (media.Upload, error)
}

type Server struct {
	Cfg     *config.Config
	Catalog *portfolio.Catalog
	Users   users.Repository
	// Tokens is nil when no JWT secret is configured.
	Tokens  *auth.Manager
	Gate    *content.Gate
	Conn    content.Connectivity
	Uploads Uploads
	Mailer  TestimonialMailer
	Val     *validation.Validator
	Log     *slog.Logger
}

func (s *Server) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return s.Log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return s.Log.With(slog.String("request_id", id))
	}
	return s.Log
}

func (s *Server) now() time.Time {
	if s.Cfg != nil && s.Cfg.Timezone != nil {
		return time.Now().In(s.Cfg.Timezone)
	}
	return time.Now().UTC()
}

func (s *Server) online() bool {
	return s.Conn == nil || s.Conn.Online()
}

// decode reads a JSON body into v, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, httpx.MaxBodyBytes)
	if err := httpx.DecodeJSON(body, v); err != nil {
		transport.WriteAppError(w, errs.Validation("Invalid JSON body.", nil))
		return false
	}
	return true
}

// validate runs struct validation on a request that is not a content payload.
func (s *Server) validate(w http.ResponseWriter, v any) bool {
	if err := s.Val.Struct(v); err != nil {
		if ve := s.Val.ValidationErrors(err); ve != nil {
			transport.WriteAppError(w, errs.Validation(validation.Describe(ve), validation.Details(ve)))
			return false
		}
		transport.WriteAppError(w, errs.Validation("Invalid input.", nil))
		return false
	}
	return true
}
