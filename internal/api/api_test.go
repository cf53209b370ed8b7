package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/content"
	"portfolio-backend/internal/content/contenttest"
	"portfolio-backend/internal/media"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/users"
	"portfolio-backend/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

const adminKey = "test-admin-key"

type switchable struct{ offline atomic.Bool }

func (s *switchable) Online() bool { return !s.offline.Load() }

type recordingMailer struct {
	mu   sync.Mutex
	sent []portfolio.Testimonial
	to   []string
}

func (m *recordingMailer) SendTestimonialPending(ctx context.Context, ownerEmail string, t portfolio.Testimonial) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, t)
	m.to = append(m.to, ownerEmail)
	return "m1", nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakeUploads struct{}

func (fakeUploads) PresignUpload(ctx context.Context, req media.Request) (media.Upload, error) {
	return media.Upload{Key: string(req.Kind) + "/k1", Method: http.MethodPut, UploadURL: "https://signed.example.com/k1"}, nil
}

type env struct {
	srv      *Server
	h        http.Handler
	conn     *switchable
	mailer   *recordingMailer
	projects *contenttest.MemStore[portfolio.Project]
	contact  *contenttest.MemStore[portfolio.Contact]
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	conn := &switchable{}
	gate := content.NewGate(conn)

	e := &env{
		conn:     conn,
		mailer:   &recordingMailer{},
		projects: contenttest.NewMemStore[portfolio.Project](),
		contact:  contenttest.NewMemStore[portfolio.Contact](),
	}
	catalog := portfolio.NewCatalog(portfolio.Stores{
		Projects:     e.projects,
		About:        contenttest.NewMemStore[portfolio.AboutMe](),
		Testimonials: contenttest.NewMemStore[portfolio.Testimonial](),
		Contact:      e.contact,
	}, portfolio.DefaultQuotas(), content.Deps{Gate: gate, Log: log})
	require.NoError(t, catalog.Start(context.Background()))
	t.Cleanup(catalog.Close)

	repo := users.NewMemoryRepository()
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), users.User{
		ID: "u1", Username: "ada", Email: "ada@example.com", PasswordHash: hash, Role: auth.RoleAdmin,
	}))

	e.srv = &Server{
		Cfg: &config.Config{
			FrontendOrigins:      []string{"https://site.example.com"},
			RateLimitWindowSec:   60,
			RateLimitSubmissions: 2,
			AdminAPIKey:          adminKey,
			AdminSetupKey:        "setup",
			OwnerEmail:           "owner@example.com",
		},
		Catalog: catalog,
		Users:   repo,
		Tokens:  &auth.Manager{Secret: []byte("s3cret"), AccessTTL: time.Minute, RefreshTTL: time.Hour, Issuer: "portfolio-backend"},
		Gate:    gate,
		Conn:    conn,
		Mailer:  e.mailer,
		Val:     validation.New(),
		Log:     log,
	}
	e.h = NewRouter(e.srv)
	return e
}

func (e *env) do(method, path, body string, headers map[string]string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.RemoteAddr = "198.51.100.4:5555"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}

var asAdmin = map[string]string{middleware.AdminKeyHeader: adminKey}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestCreateProjectThenListPublicly(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPost, "/api/v1/admin/projects", `{"name":"Demo","description":"x","category":"Web"}`, asAdmin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decodeBody(t, rec)["id"].(string)

	rec = e.do(http.MethodGet, "/api/v1/projects", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeBody(t, rec)["items"].([]any)
	require.Len(t, items, 1)
	first := items[0].(map[string]any)
	assert.Equal(t, id, first["id"])
	assert.Equal(t, "api-key", first["createdBy"])
}

func TestMutationGateOrder(t *testing.T) {
	e := newEnv(t)
	body := `{"name":"Demo","description":"x","category":"Web"}`

	rec := e.do(http.MethodPost, "/api/v1/admin/projects", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthenticated", decodeBody(t, rec)["kind"])

	e.conn.offline.Store(true)
	rec = e.do(http.MethodPost, "/api/v1/admin/projects", body, asAdmin)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "offline", decodeBody(t, rec)["kind"])
	assert.Equal(t, 0, e.projects.WriteCalls)
}

func TestAdminListNeedsIdentity(t *testing.T) {
	e := newEnv(t)
	e.projects.Seed("p1", bson.M{"name": "One"})
	e.projects.Seed("p2", bson.M{"name": "Two"})
	require.NoError(t, e.srv.Catalog.Projects.Refresh(context.Background()))

	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, "/api/v1/admin/projects", "", nil).Code)

	rec := e.do(http.MethodGet, "/api/v1/admin/projects?limit=1", "", asAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decodeBody(t, rec)
	assert.Equal(t, float64(2), out["total"])
	assert.Len(t, out["items"], 1)
	assert.Equal(t, "Two", out["items"].([]any)[0].(map[string]any)["name"])

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodGet, "/api/v1/admin/projects?offset=-2", "", asAdmin).Code)
}

func TestSingletonConflictAndValidation(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPost, "/api/v1/admin/about", `{"name":"Ada","title":"Engineer"}`, asAdmin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	out := decodeBody(t, rec)
	assert.Equal(t, "bio is required.", out["error"])
	assert.Equal(t, map[string]any{"bio": "required"}, out["details"])

	rec = e.do(http.MethodPost, "/api/v1/admin/about", `{"name":"Ada","title":"Engineer","bio":"Hi."}`, asAdmin)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(http.MethodPost, "/api/v1/admin/about", `{"name":"Ada","title":"Engineer","bio":"Hi."}`, asAdmin)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "About me already exists. Update it instead.", decodeBody(t, rec)["error"])

	rec = e.do(http.MethodGet, "/api/v1/about", "", nil)
	item := decodeBody(t, rec)["item"].(map[string]any)
	assert.Equal(t, "Ada", item["name"])

	rec = e.do(http.MethodPost, "/api/v1/admin/about", `{"unknown":true}`, asAdmin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteQuota(t *testing.T) {
	e := newEnv(t)
	for _, id := range []string{"a", "b", "c", "d"} {
		e.projects.Seed(id, bson.M{"name": id})
	}
	for _, id := range []string{"a", "b", "c"} {
		require.Equal(t, http.StatusOK, e.do(http.MethodDelete, "/api/v1/admin/projects/"+id, "", asAdmin).Code)
	}
	rec := e.do(http.MethodDelete, "/api/v1/admin/projects/d", "", asAdmin)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "Too many delete requests. Please wait 60 seconds.", decodeBody(t, rec)["error"])

	rec = e.do(http.MethodDelete, "/api/v1/admin/testimonials/missing", "", asAdmin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContactLeafPatch(t *testing.T) {
	e := newEnv(t)
	rec := e.do(http.MethodPost, "/api/v1/admin/contact", `{
		"availableHours": {"weekdays": "9-18", "weekends": "closed"},
		"hotline": {"phone": "+1 555 123 4567", "location": "Lisbon"},
		"socialLinks": {"github": ""}
	}`, asAdmin)
	require.Equal(t, http.StatusBadRequest, rec.Code, "unknown nested fields are rejected")

	rec = e.do(http.MethodPost, "/api/v1/admin/contact", `{
		"availableHours": {"weekdays": "9-18", "weekends": "closed"},
		"hotline": {"phone": "+1 555 123 4567", "location": "Lisbon"},
		"socialLinks": {}
	}`, asAdmin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decodeBody(t, rec)["id"].(string)

	rec = e.do(http.MethodPatch, "/api/v1/admin/contact/"+id, `{"hotline":{"location":"Porto"}}`, asAdmin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.do(http.MethodGet, "/api/v1/contact", "", nil)
	hotline := decodeBody(t, rec)["item"].(map[string]any)["hotline"].(map[string]any)
	assert.Equal(t, "Porto", hotline["location"])
	assert.Equal(t, "+1 555 123 4567", hotline["phone"])
}

func TestSubmitTestimonial(t *testing.T) {
	e := newEnv(t)
	body := `{"clientName":"Bo","company":"Acme","role":"CTO","message":"Great work overall.","rating":5,"approved":true}`

	rec := e.do(http.MethodPost, "/api/v1/testimonials", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "pending", decodeBody(t, rec)["status"])

	rec = e.do(http.MethodGet, "/api/v1/testimonials", "", nil)
	assert.Empty(t, decodeBody(t, rec)["items"])

	rec = e.do(http.MethodGet, "/api/v1/admin/testimonials", "", asAdmin)
	items := decodeBody(t, rec)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, false, items[0].(map[string]any)["approved"])
	assert.Equal(t, "public", items[0].(map[string]any)["createdBy"])

	assert.Eventually(t, func() bool { return e.mailer.count() == 1 }, time.Second, 10*time.Millisecond)

	rec = e.do(http.MethodPost, "/api/v1/testimonials", `{"clientName":"Bo","company":"Acme","role":"CTO","message":"short","rating":5}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "message must be at least 10 characters.", decodeBody(t, rec)["error"])

	rec = e.do(http.MethodPost, "/api/v1/testimonials", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestLoginRefreshLogout(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPost, "/api/v1/admin/login", `{"username":"ada","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(http.MethodPost, "/api/v1/admin/login", `{"username":"ADA@example.com","password":"correct horse"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, middleware.AccessCookie)
	require.Contains(t, cookies, middleware.RefreshCookie)

	rec = e.do(http.MethodGet, "/api/v1/admin/status", "", nil, cookies[middleware.AccessCookie])
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada@example.com", decodeBody(t, rec)["user"])

	rec = e.do(http.MethodPost, "/api/v1/admin/refresh", "", nil, cookies[middleware.RefreshCookie])
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(http.MethodPost, "/api/v1/admin/refresh", "", nil, &http.Cookie{Name: middleware.RefreshCookie, Value: cookies[middleware.AccessCookie].Value})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(http.MethodPost, "/api/v1/admin/logout", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		assert.Empty(t, c.Value)
	}
}

func TestRegister(t *testing.T) {
	e := newEnv(t)
	body := func(key string) string {
		return `{"username":"bob","email":"bob@example.com","password":"long enough","setupKey":"` + key + `"}`
	}

	assert.Equal(t, http.StatusForbidden, e.do(http.MethodPost, "/api/v1/admin/register", body("nope"), nil).Code)

	rec := e.do(http.MethodPost, "/api/v1/admin/register", body("setup"), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, decodeBody(t, rec)["accessToken"])

	assert.Equal(t, http.StatusConflict, e.do(http.MethodPost, "/api/v1/admin/register", body("setup"), nil).Code)
}

func TestStatusAndDismiss(t *testing.T) {
	e := newEnv(t)
	rec := e.do(http.MethodPatch, "/api/v1/admin/projects/missing", `{"name":"x"}`, asAdmin)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.do(http.MethodGet, "/api/v1/admin/status", "", asAdmin)
	var status StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Online)
	assert.Equal(t, "The requested item no longer exists.", status.Entities["projects"].Error)

	assert.Equal(t, http.StatusNoContent, e.do(http.MethodDelete, "/api/v1/admin/status/projects/error", "", asAdmin).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodDelete, "/api/v1/admin/status/nope/error", "", asAdmin).Code)
	assert.Empty(t, e.srv.Catalog.Status()["projects"].Error)
}

func TestRefreshEndpoint(t *testing.T) {
	e := newEnv(t)
	e.projects.Seed("p1", bson.M{"name": "Direct write"})

	rec := e.do(http.MethodGet, "/api/v1/projects", "", nil)
	assert.Empty(t, decodeBody(t, rec)["items"])

	rec = e.do(http.MethodPost, "/api/v1/admin/projects/refresh", "", asAdmin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(http.MethodGet, "/api/v1/projects", "", nil)
	assert.Len(t, decodeBody(t, rec)["items"], 1)
}

func TestMediaUploads(t *testing.T) {
	e := newEnv(t)
	body := `{"kind":"profile","contentType":"image/png","filename":"me.png"}`

	assert.Equal(t, http.StatusServiceUnavailable, e.do(http.MethodPost, "/api/v1/admin/media/uploads", body, asAdmin).Code)

	e.srv.Uploads = fakeUploads{}
	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodPost, "/api/v1/admin/media/uploads", body, nil).Code)

	rec := e.do(http.MethodPost, "/api/v1/admin/media/uploads", body, asAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "profile/k1", decodeBody(t, rec)["key"])

	rec = e.do(http.MethodPost, "/api/v1/admin/media/uploads", `{"kind":"song","contentType":"audio/mpeg"}`, asAdmin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/healthz", "", nil).Code)
	e.conn.offline.Store(true)
	assert.Equal(t, http.StatusServiceUnavailable, e.do(http.MethodGet, "/healthz", "", nil).Code)
}
