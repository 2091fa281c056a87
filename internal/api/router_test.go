package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/deepmetric/institute-portal/internal/core/domain"
	"github.com/deepmetric/institute-portal/internal/core/service"
	"github.com/deepmetric/institute-portal/internal/infrastructure/certificate"
	"github.com/deepmetric/institute-portal/internal/infrastructure/http/handlers"
	"github.com/deepmetric/institute-portal/internal/infrastructure/notify"
	"github.com/deepmetric/institute-portal/internal/infrastructure/storage"
)

type offlineAdvisor struct{}

func (offlineAdvisor) Reply(context.Context, string, []domain.ChatMessage, []domain.Course, func(string)) (string, error) {
	return "", io.ErrUnexpectedEOF
}

func (offlineAdvisor) SuggestTags(context.Context, string, string) ([]string, error) {
	return []string{"sql", "data"}, nil
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	log := zerolog.Nop()

	store := storage.NewStore(storage.NewMemoryKV(), log)
	feed := notify.NewFeed(time.Minute)

	catalog := service.NewCatalogService(store, store, storage.NewMemoryIdempotency(time.Hour), feed, log)
	enrollment := service.NewEnrollmentService(store, catalog, feed, log)
	advisor := service.NewAdvisorService(offlineAdvisor{}, offlineAdvisor{}, catalog, log)
	certs := service.NewCertificateService(enrollment, catalog, certificate.HTMLRenderer{}, certificate.HTMLRenderer{}, "Deepmetric Analytics Institute", feed, log)

	return NewRouter(Deps{
		Enrollment:   enrollment,
		Catalog:      catalog,
		Advisor:      advisor,
		Certificates: certs,
		Feed:         feed,
		Tokens:       service.NewTokenIssuer("test-secret", time.Hour),
		JWTSecret:    "test-secret",
		AdminEmails:  []string{"admin@deepmetric.com"},
		Readiness:    map[string]handlers.Pinger{"storage": store},
		Registry:     prometheus.NewRegistry(),
		Log:          log,
	})
}

func call(t *testing.T, e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, name, email string) string {
	t.Helper()
	rec := call(t, e, http.MethodPost, "/v1/session", "", `{"name":"`+name+`","email":"`+email+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("login %s: missing token: %v", email, err)
	}
	return resp.Token
}

// ----------------------------------------------------------------------------

func TestRouter_CompletionApprovalFlow(t *testing.T) {
	e := newTestServer(t)

	student := login(t, e, "Ama", "ama@x.com")

	if rec := call(t, e, http.MethodGet, "/v1/courses", student, ""); rec.Code != http.StatusOK ||
		!strings.Contains(rec.Body.String(), `"count":4`) {
		t.Fatalf("expected seeded catalog, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := call(t, e, http.MethodPost, "/v1/enrollments/1", student, ""); rec.Code != http.StatusOK {
		t.Fatalf("register: expected 200, got %d", rec.Code)
	}
	if rec := call(t, e, http.MethodPost, "/v1/enrollments/1/completion", student, `{"evidence":"capstone"}`); rec.Code != http.StatusOK {
		t.Fatalf("request completion: expected 200, got %d", rec.Code)
	}
	if rec := call(t, e, http.MethodPost, "/v1/courses", student, `{"title":"X","instructor":"Y","level":"Beginner"}`); rec.Code != http.StatusForbidden {
		t.Fatalf("student create course: expected 403, got %d", rec.Code)
	}

	admin := login(t, e, "Root", "admin@deepmetric.com")

	// The admin login replaced the student's session.
	rec := call(t, e, http.MethodGet, "/v1/session", student, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("superseded token: expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"redirect":"POST /v1/session"`) {
		t.Fatalf("expected login redirect hint, got %s", rec.Body.String())
	}

	rec = call(t, e, http.MethodGet, "/v1/admin/completions", admin, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"count":1`) ||
		!strings.Contains(rec.Body.String(), `"evidence":"capstone"`) {
		t.Fatalf("pending queue: got %d: %s", rec.Code, rec.Body.String())
	}
	var queue struct {
		Requests []domain.PendingRequest `json:"requests"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &queue); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	path := "/v1/admin/completions/" + queue.Requests[0].UserID + "/1/approve"
	if rec := call(t, e, http.MethodPost, path, admin, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("approve: expected 204, got %d", rec.Code)
	}

	rec = call(t, e, http.MethodGet, "/v1/notifications", admin, "")
	if !strings.Contains(rec.Body.String(), "Approved completion for Ama") {
		t.Fatalf("expected approval toast for admins, got %s", rec.Body.String())
	}

	// Back as the student: the course is completed and a certificate is available.
	student = login(t, e, "Ama", "ama@x.com")
	rec = call(t, e, http.MethodGet, "/v1/session", student, "")
	if !strings.Contains(rec.Body.String(), `"completedCourseIds":["1"]`) {
		t.Fatalf("expected completed course, got %s", rec.Body.String())
	}
	rec = call(t, e, http.MethodGet, "/v1/certificates/1", student, "")
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get(echo.HeaderContentDisposition), "attachment") {
		t.Fatalf("certificate: got %d %q", rec.Code, rec.Header().Get(echo.HeaderContentDisposition))
	}
}

func TestRouter_ReviewsAndStats(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, "Ama", "ama@x.com")

	rec := call(t, e, http.MethodGet, "/v1/courses/2", token, "")
	if !strings.Contains(rec.Body.String(), `"average":null`) {
		t.Fatalf("expected null average before any review, got %s", rec.Body.String())
	}

	if rec := call(t, e, http.MethodPost, "/v1/courses/2/reviews", token, `{"rating":4,"comment":"<b>solid</b>"}`); rec.Code != http.StatusCreated {
		t.Fatalf("review: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := call(t, e, http.MethodPost, "/v1/courses/2/reviews", token, `{"rating":9}`); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad rating: expected 422, got %d", rec.Code)
	}
	if rec := call(t, e, http.MethodPost, "/v1/courses/404/reviews", token, `{"rating":3}`); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown course: expected 404, got %d", rec.Code)
	}

	rec = call(t, e, http.MethodGet, "/v1/courses/2", token, "")
	body := rec.Body.String()
	if !strings.Contains(body, `"average":4`) || !strings.Contains(body, `"count":1`) || !strings.Contains(body, `"hasRated":true`) {
		t.Fatalf("unexpected stats: %s", body)
	}
}

func TestRouter_AuthRequired(t *testing.T) {
	e := newTestServer(t)

	rec := call(t, e, http.MethodGet, "/v1/courses", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	token := login(t, e, "Ama", "ama@x.com")
	if rec := call(t, e, http.MethodDelete, "/v1/session", token, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", rec.Code)
	}
	if rec := call(t, e, http.MethodGet, "/v1/courses", token, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("after logout: expected 401, got %d", rec.Code)
	}
}

func TestRouter_AdvisorUnavailable(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, "Ama", "ama@x.com")

	rec := call(t, e, http.MethodPost, "/v1/advisor/chat", token, `{"message":"hello"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	rec = call(t, e, http.MethodGet, "/v1/advisor/chat", token, "")
	if !strings.Contains(rec.Body.String(), `"history":[]`) {
		t.Fatalf("failed turn must not be recorded, got %s", rec.Body.String())
	}
}

func TestRouter_Health(t *testing.T) {
	e := newTestServer(t)

	if rec := call(t, e, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", rec.Code)
	}
	if rec := call(t, e, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("readiness: expected 200, got %d", rec.Code)
	}
}
