package api

import (
	"log/slog"
	"net/http"
	"strings"

	"portfolio-backend/internal/content"
	"portfolio-backend/internal/errs"
	"portfolio-backend/internal/httpx"
	"portfolio-backend/internal/transport"

	"github.com/go-chi/chi/v5"
)

const maxPageSize = 100

// Resource serves one entity type. Reads come from the Syncer's mirrors,
// writes go through its gated mutation functions.
type Resource[T any] struct {
	slug      string
	syncer    *content.Syncer[T]
	newCreate func() content.Payload
	newPatch  func() content.Payload
	srv       *Server
}

func NewResource[T any](srv *Server, slug string, syncer *content.Syncer[T], newCreate, newPatch func() content.Payload) *Resource[T] {
	return &Resource[T]{
		slug:      slug,
		syncer:    syncer,
		newCreate: newCreate,
		newPatch:  newPatch,
		srv:       srv,
	}
}

func (h *Resource[T]) Slug() string {
	return h.slug
}

// PublicGet lists the public mirror, or returns its single document for
// singleton entities.
func (h *Resource[T]) PublicGet(w http.ResponseWriter, r *http.Request) {
	mirror := h.syncer.Public()
	if h.syncer.Schema().Singleton {
		item, ok := mirror.First()
		if !ok {
			transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"item": nil})
			return
		}
		transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"item": item})
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": mirror.Items()})
}

func (h *Resource[T]) AdminList(w http.ResponseWriter, r *http.Request) {
	log := h.srv.logWithRequest(r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), maxPageSize)
	if err != nil {
		log.Warn("admin "+h.slug+" list: invalid query", slog.String("error", err.Error()))
		transport.WriteAppError(w, errs.Validation(err.Error(), nil))
		return
	}

	items := h.syncer.Admin().Items()
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  httpx.Page(items, limit, offset),
		"total":  len(items),
		"limit":  limit,
		"offset": offset,
		"state":  h.syncer.State(),
	})
}

func (h *Resource[T]) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := h.srv.logWithRequest(r)
	p := h.newCreate()
	if !decode(w, r, p) {
		log.Warn("admin " + h.slug + " create: invalid json")
		return
	}

	id, err := h.syncer.Create(r.Context(), p)
	if err != nil {
		transport.WriteAppError(w, err)
		return
	}

	log.Info("admin "+h.slug+" create: ok", slog.String("id", id))
	transport.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Resource[T]) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.srv.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	p := h.newPatch()
	if !decode(w, r, p) {
		log.Warn("admin "+h.slug+" update: invalid json", slog.String("id", id))
		return
	}

	if err := h.syncer.Update(r.Context(), id, p); err != nil {
		transport.WriteAppError(w, err)
		return
	}

	log.Info("admin "+h.slug+" update: ok", slog.String("id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Resource[T]) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.srv.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	if err := h.syncer.Delete(r.Context(), id); err != nil {
		transport.WriteAppError(w, err)
		return
	}

	log.Info("admin "+h.slug+" delete: ok", slog.String("id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AdminRefresh drops the cache entries and re-reads the store.
func (h *Resource[T]) AdminRefresh(w http.ResponseWriter, r *http.Request) {
	log := h.srv.logWithRequest(r)
	if err := h.syncer.Refresh(r.Context()); err != nil {
		log.Warn("admin "+h.slug+" refresh: failed", slog.String("error", err.Error()))
		transport.WriteAppError(w, err)
		return
	}
	log.Info("admin "+h.slug+" refresh: ok", slog.Int("count", len(h.syncer.Admin().Items())))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"state": h.syncer.State()})
}

// Routes mounts the admin routes. Listing needs an identity up front; writes
// rely on the content gate so callers get its precise reason.
func (h *Resource[T]) Routes(requireAdmin func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.With(requireAdmin).Get("/", h.AdminList)
		r.With(requireAdmin).Post("/refresh", h.AdminRefresh)
		r.Post("/", h.AdminCreate)
		r.Patch("/{id}", h.AdminUpdate)
		r.Delete("/{id}", h.AdminDelete)
	}
}
