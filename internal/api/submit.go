package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/transport"

	"go.mongodb.org/mongo-driver/bson"
)

const submittedBy = "public"

// SubmitTestimonial takes a testimonial from a site visitor. It is stored
// unapproved and the owner is told by email.
func (s *Server) SubmitTestimonial(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	var req portfolio.TestimonialInput
	if !decode(w, r, &req) {
		log.Warn("testimonials submit: invalid json")
		return
	}

	id, err := s.Catalog.Testimonials.Submit(r.Context(), &req, bson.M{
		"approved":  false,
		"createdBy": submittedBy,
	})
	if err != nil {
		log.Warn("testimonials submit: rejected", slog.String("error", err.Error()))
		transport.WriteAppError(w, err)
		return
	}

	log.Info("testimonials submit: ok", slog.String("id", id))
	s.notifyOwner(r.Context(), log, id, req)
	transport.WriteJSON(w, http.StatusCreated, map[string]string{"id": id, "status": "pending"})
}

func (s *Server) notifyOwner(ctx context.Context, log *slog.Logger, id string, req portfolio.TestimonialInput) {
	if s.Mailer == nil || s.Cfg.OwnerEmail == "" {
		return
	}
	t := portfolio.Testimonial{
		ID:         id,
		ClientName: req.ClientName,
		Company:    req.Company,
		Role:       req.Role,
		Project:    req.Project,
		Message:    req.Message,
		Rating:     req.Rating,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		msgID, err := s.Mailer.SendTestimonialPending(ctx, s.Cfg.OwnerEmail, t)
		if err != nil {
			log.Error("testimonials notify: failed", slog.String("id", id), slog.String("error", err.Error()))
			return
		}
		log.Info("testimonials notify: ok", slog.String("id", id), slog.String("message_id", msgID))
	}()
}
