package api

import (
	"log/slog"
	"net/http"

	"portfolio-backend/internal/errs"
	"portfolio-backend/internal/media"
	"portfolio-backend/internal/transport"
)

// AdminPresignUpload hands out a presigned PUT URL. It passes the same gate as
// content writes.
func (s *Server) AdminPresignUpload(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	if s.Uploads == nil {
		transport.WriteAppError(w, errs.New(errs.KindUnavailable, "Media uploads are not configured."))
		return
	}
	if _, err := s.Gate.Check(r.Context()); err != nil {
		transport.WriteAppError(w, err)
		return
	}

	var req media.Request
	if !decode(w, r, &req) {
		log.Warn("admin media presign: invalid json")
		return
	}
	if !s.validate(w, req) {
		log.Warn("admin media presign: validation error")
		return
	}

	up, err := s.Uploads.PresignUpload(r.Context(), req)
	if err != nil {
		if errs.Is(err, errs.KindValidation) {
			transport.WriteAppError(w, err)
			return
		}
		log.Error("admin media presign: failed", slog.String("error", err.Error()))
		transport.WriteAppError(w, errs.Wrap(errs.KindUnavailable, "Uploads are unavailable right now.", err))
		return
	}

	log.Info("admin media presign: ok", slog.String("key", up.Key))
	transport.WriteJSON(w, http.StatusOK, up)
}
