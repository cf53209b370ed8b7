package api

import (
	"log/slog"
	"net/http"

	"portfolio-backend/internal/content"
	"portfolio-backend/internal/errs"
	"portfolio-backend/internal/transport"

	"github.com/go-chi/chi/v5"
)

type StatusResponse struct {
	Online   bool                     `json:"online"`
	User     string                   `json:"user,omitempty"`
	Entities map[string]content.State `json:"entities"`
}

// AdminStatus is what the dashboard banners render: connectivity plus the
// loading, error and success state of every entity type.
func (s *Server) AdminStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Online:   s.online(),
		Entities: s.Catalog.Status(),
	}
	if who, err := s.Gate.Check(r.Context()); err == nil {
		resp.User = who.DisplayName()
	}
	transport.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) AdminDismissError(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	slug := chi.URLParam(r, "entity")
	unit, ok := s.Catalog.Unit(slug)
	if !ok {
		log.Warn("admin status dismiss: unknown entity", slog.String("entity", slug))
		transport.WriteAppError(w, errs.New(errs.KindNotFound, "Unknown content type."))
		return
	}
	unit.DismissError()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if !s.online() {
		transport.WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{"status": "degraded", "online": false})
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "online": true})
}
