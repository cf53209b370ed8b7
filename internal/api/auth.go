package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/errs"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/transport"
	"portfolio-backend/internal/users"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const refreshCookiePath = "/api/v1/admin"

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AdminRegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8"`
	SetupKey string `json:"setupKey" validate:"required"`
}

type AdminRefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type AdminSessionResponse struct {
	Status       string         `json:"status"`
	AccessToken  string         `json:"accessToken,omitempty"`
	RefreshToken string         `json:"refreshToken,omitempty"`
	User         *auth.Identity `json:"user,omitempty"`
}

var (
	errAuthNotConfigured = errs.New(errs.KindUnavailable, "Admin sign-in is not configured.")
	errBadCredentials    = errs.New(errs.KindUnauthenticated, "Invalid username or password.")
	errBadRefresh        = errs.New(errs.KindUnauthenticated, "Your session has expired. Please sign in again.")
)

func (s *Server) AdminLogin(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	var req AdminLoginRequest
	if !decode(w, r, &req) {
		log.Warn("admin login: invalid json")
		return
	}
	req.Username, _ = users.NormalizeIdentity(req.Username, "")
	if !s.validate(w, req) {
		log.Warn("admin login: validation error")
		return
	}
	if s.Tokens == nil || s.Users == nil {
		log.Warn("admin login: not configured")
		transport.WriteAppError(w, errAuthNotConfigured)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := s.Users.FindByLogin(ctx, req.Username)
	if err != nil && !errors.Is(err, users.ErrNotFound) {
		log.Error("admin login: database error", slog.String("error", err.Error()))
		transport.WriteAppError(w, errs.Wrap(errs.KindUnavailable, errs.MsgUnavailable, err))
		return
	}
	if err != nil || user.Role != auth.RoleAdmin || auth.ComparePassword(user.PasswordHash, req.Password) != nil {
		log.Warn("admin login: invalid credentials", slog.String("username", req.Username))
		transport.WriteAppError(w, errBadCredentials)
		return
	}

	s.issueSession(w, r, user.Identity(), http.StatusOK, "admin login")
}

// AdminRefresh accepts the refresh cookie or a refreshToken body field and
// re-reads the user so removed accounts cannot renew.
func (s *Server) AdminRefresh(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	if s.Tokens == nil || s.Users == nil {
		log.Warn("admin refresh: not configured")
		transport.WriteAppError(w, errAuthNotConfigured)
		return
	}

	token := ""
	if cookie, err := r.Cookie(middleware.RefreshCookie); err == nil {
		token = cookie.Value
	}
	if token == "" && r.ContentLength != 0 {
		var req AdminRefreshRequest
		if !decode(w, r, &req) {
			log.Warn("admin refresh: invalid json")
			return
		}
		token = req.RefreshToken
	}
	if token == "" {
		log.Warn("admin refresh: missing refresh token")
		transport.WriteAppError(w, errBadRefresh)
		return
	}

	claims, err := s.Tokens.Parse(token, auth.TokenRefresh)
	if err != nil {
		log.Warn("admin refresh: invalid refresh token")
		transport.WriteAppError(w, errBadRefresh)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := s.Users.FindByID(ctx, claims.Subject)
	if err != nil || user.Role != auth.RoleAdmin {
		log.Warn("admin refresh: unknown user", slog.String("user_id", claims.Subject))
		transport.WriteAppError(w, errBadRefresh)
		return
	}

	s.issueSession(w, r, user.Identity(), http.StatusOK, "admin refresh")
}

func (s *Server) AdminLogout(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	clearAuthCookies(w, s.Cfg.CookieSecure)
	log.Info("admin logout: ok")
	transport.WriteJSON(w, http.StatusOK, AdminSessionResponse{Status: "ok"})
}

// AdminRegister is the sign-up path, guarded by the setup key.
func (s *Server) AdminRegister(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	var req AdminRegisterRequest
	if !decode(w, r, &req) {
		log.Warn("admin register: invalid json")
		return
	}
	req.Username, req.Email = users.NormalizeIdentity(req.Username, req.Email)
	if !s.validate(w, req) {
		log.Warn("admin register: validation error")
		return
	}
	if s.Tokens == nil || s.Users == nil || s.Cfg.AdminSetupKey == "" {
		log.Warn("admin register: not configured")
		transport.WriteAppError(w, errs.New(errs.KindUnavailable, "Admin registration is not configured."))
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.SetupKey), []byte(s.Cfg.AdminSetupKey)) != 1 {
		log.Warn("admin register: invalid setup key", slog.String("username", req.Username))
		transport.WriteAppError(w, errs.New(errs.KindPermissionDenied, "Invalid setup key."))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Error("admin register: hash error", slog.String("error", err.Error()))
		transport.WriteAppError(w, errs.Wrap(errs.KindUnknown, errs.MsgUnknown, err))
		return
	}

	now := s.now()
	user := users.User{
		ID:           primitive.NewObjectID().Hex(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, users.ErrDuplicate) {
			log.Warn("admin register: duplicate", slog.String("username", req.Username))
			transport.WriteAppError(w, errs.New(errs.KindAlreadyExists, "That username or email is already registered."))
			return
		}
		log.Error("admin register: database error", slog.String("error", err.Error()))
		transport.WriteAppError(w, errs.Wrap(errs.KindUnavailable, errs.MsgUnavailable, err))
		return
	}

	s.issueSession(w, r, user.Identity(), http.StatusCreated, "admin register")
}

func (s *Server) issueSession(w http.ResponseWriter, r *http.Request, id auth.Identity, status int, op string) {
	log := s.logWithRequest(r)
	access, err := s.Tokens.NewAccessToken(id)
	if err != nil {
		log.Error(op+": token error", slog.String("error", err.Error()))
		transport.WriteAppError(w, errs.Wrap(errs.KindUnknown, errs.MsgUnknown, err))
		return
	}
	refresh, err := s.Tokens.NewRefreshToken(id)
	if err != nil {
		log.Error(op+": token error", slog.String("error", err.Error()))
		transport.WriteAppError(w, errs.Wrap(errs.KindUnknown, errs.MsgUnknown, err))
		return
	}

	setAuthCookies(w, access, refresh, s.Tokens.AccessTTL, s.Tokens.RefreshTTL, s.Cfg.CookieSecure)
	log.Info(op+": ok", slog.String("user_id", id.ID), slog.String("username", id.Username))
	transport.WriteJSON(w, status, AdminSessionResponse{
		Status:       "ok",
		AccessToken:  access,
		RefreshToken: refresh,
		User:         &id,
	})
}

func setAuthCookies(w http.ResponseWriter, access, refresh string, accessTTL, refreshTTL time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessCookie,
		Value:    access,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(accessTTL.Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.RefreshCookie,
		Value:    refresh,
		Path:     refreshCookiePath,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(refreshTTL.Seconds()),
	})
}

func clearAuthCookies(w http.ResponseWriter, secure bool) {
	expire := time.Now().Add(-1 * time.Hour)
	for _, c := range []struct{ name, path string }{
		{middleware.AccessCookie, "/"},
		{middleware.RefreshCookie, refreshCookiePath},
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     c.name,
			Value:    "",
			Path:     c.path,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
			Expires:  expire,
			MaxAge:   -1,
		})
	}
}
