package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"portfolio-backend/internal/errs"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Kind    errs.Kind         `json:"kind,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, message string, details map[string]string) {
	WriteJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// StatusFor maps an error kind onto an HTTP status code.
func StatusFor(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindOffline, errs.KindAuthChecking, errs.KindUnavailable:
		return http.StatusServiceUnavailable
	case errs.KindUnauthenticated:
		return http.StatusUnauthorized
	case errs.KindPermissionDenied:
		return http.StatusForbidden
	case errs.KindRateLimited:
		return http.StatusTooManyRequests
	case errs.KindAlreadyExists:
		return http.StatusConflict
	case errs.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteAppError renders any error through the taxonomy.
func WriteAppError(w http.ResponseWriter, err error) {
	var appErr *errs.Error
	if !errors.As(err, &appErr) {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: errs.MsgUnknown, Kind: errs.KindUnknown})
		return
	}
	if appErr.Kind == errs.KindRateLimited && appErr.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(appErr.RetryAfter))
	}
	WriteJSON(w, StatusFor(appErr.Kind), ErrorResponse{
		Error:   appErr.Message,
		Kind:    appErr.Kind,
		Details: appErr.Details,
	})
}
