package contact

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/foliosite/folio/internal/testutil"
	"github.com/foliosite/folio/pkg/fl/config"
	"github.com/foliosite/folio/pkg/fl/logger"
	"github.com/foliosite/folio/pkg/fl/middleware"
)

func setupTestHandler(t *testing.T, sender *fakeSender) (*Handler, chi.Router) {
	cfg := &config.Config{
		Contact: config.ContactConfig{StatusTTL: "50ms", RateLimit: 100},
		Mail:    config.MailConfig{ServiceID: "svc", TemplateID: "tpl"},
		Admin:   config.AdminConfig{Token: "secret"},
	}
	return setupTestHandlerCfg(t, sender, cfg)
}

func setupTestHandlerCfg(t *testing.T, sender *fakeSender, cfg *config.Config) (*Handler, chi.Router) {
	t.Helper()

	db, err := testutil.NewTestDB()
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := NewService(&testutil.TestDBProvider{DB: db}, sender, cfg, logger.NewNoopLogger())
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start service: %v", err)
	}
	t.Cleanup(func() { svc.Stop(context.Background()) })

	h := NewHandler(svc, cfg, logger.NewNoopLogger())
	router := chi.NewRouter()
	h.RegisterRoutes(router)
	return h, router
}

func submitForm(router chi.Router, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact/submit", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validForm() url.Values {
	return url.Values{
		"name":    {"Jo"},
		"email":   {"jo@x.com"},
		"subject": {"Hi there"},
		"message": {"This is a sufficiently long message."},
	}
}

func TestHandleSubmitOK(t *testing.T) {
	sender := &fakeSender{}
	_, router := setupTestHandler(t, sender)

	rec := submitForm(router, validForm())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Status string `json:"status"`
		ID     int64  `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}
	if body.Status != "ok" || body.ID == 0 {
		t.Errorf("response = %+v", body)
	}
	if len(sender.Calls) != 1 {
		t.Errorf("sender called %d times, want 1", len(sender.Calls))
	}
}

func TestHandleSubmitValidationErrors(t *testing.T) {
	_, router := setupTestHandler(t, &fakeSender{})

	form := validForm()
	form.Set("email", "not-an-email")
	form.Set("message", "short")

	rec := submitForm(router, form)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var body struct {
		Focus  string              `json:"focus"`
		Fields map[string][]string `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}
	if body.Focus != FieldEmail {
		t.Errorf("focus = %q, want email", body.Focus)
	}
	// All failing fields surface together, not just the first.
	if len(body.Fields) != 2 {
		t.Errorf("fields = %v, want email and message", body.Fields)
	}
}

func TestHandleSubmitHoneypot(t *testing.T) {
	sender := &fakeSender{}
	h, router := setupTestHandler(t, sender)

	form := validForm()
	form.Set("_honeypot", "gotcha")

	rec := submitForm(router, form)
	// Bots get a silent OK and nothing is processed.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(sender.Calls) != 0 {
		t.Error("sender should not be called for honeypot submissions")
	}
	messages, _ := h.service.ListMessages(context.Background())
	if len(messages) != 0 {
		t.Error("store should remain empty for honeypot submissions")
	}
}

func TestHandleSubmitRedirectsBrowsers(t *testing.T) {
	_, router := setupTestHandler(t, &fakeSender{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact/submit", strings.NewReader(validForm().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", "/#contact")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/#contact" {
		t.Errorf("Location = %q, want /#contact", loc)
	}
}

func TestHandleSubmitRateLimited(t *testing.T) {
	cfg := &config.Config{
		Contact: config.ContactConfig{StatusTTL: "50ms", RateLimit: 2},
		Mail:    config.MailConfig{ServiceID: "svc", TemplateID: "tpl"},
		Admin:   config.AdminConfig{Token: "secret"},
	}
	_, router := setupTestHandlerCfg(t, &fakeSender{}, cfg)

	// The limiter counts every attempt, valid or not. Empty forms keep
	// the submission state machine out of the picture.
	for i := 0; i < 2; i++ {
		rec := submitForm(router, url.Values{})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("request %d: status = %d, want 422", i+1, rec.Code)
		}
	}

	rec := submitForm(router, url.Values{})
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("over limit: status = %d, want 429", rec.Code)
	}

	// The limit is per-IP, so a different client is unaffected.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact/submit", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	other := httptest.NewRecorder()
	router.ServeHTTP(other, req)
	if other.Code != http.StatusUnprocessableEntity {
		t.Errorf("other client: status = %d, want 422", other.Code)
	}
}

func TestSubmitCORSOrigins(t *testing.T) {
	cfg := &config.Config{
		Contact: config.ContactConfig{
			StatusTTL:      "50ms",
			RateLimit:      100,
			AllowedOrigins: "https://folio.example, https://www.folio.example",
		},
		Mail:  config.MailConfig{ServiceID: "svc", TemplateID: "tpl"},
		Admin: config.AdminConfig{Token: "secret"},
	}
	_, router := setupTestHandlerCfg(t, &fakeSender{}, cfg)

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/contact/submit", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := preflight("https://folio.example")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://folio.example" {
		t.Errorf("Access-Control-Allow-Origin = %q, want the request origin", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Errorf("Access-Control-Allow-Methods = %q, want POST", got)
	}

	// Origins outside the allow list get no CORS grant.
	rec = preflight("https://evil.example")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin granted Access-Control-Allow-Origin = %q", got)
	}

	// Actual submissions from an allowed origin carry the grant too.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact/submit", strings.NewReader(validForm().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Origin", "https://www.folio.example")
	post := httptest.NewRecorder()
	router.ServeHTTP(post, req)
	if post.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", post.Code, post.Body.String())
	}
	if got := post.Header().Get("Access-Control-Allow-Origin"); got != "https://www.folio.example" {
		t.Errorf("Access-Control-Allow-Origin = %q, want the request origin", got)
	}
}

func TestHandleState(t *testing.T) {
	_, router := setupTestHandler(t, &fakeSender{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contact/state", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		State string `json:"state"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.State != string(StateIdle) {
		t.Errorf("state = %q, want idle", body.State)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	_, router := setupTestHandler(t, &fakeSender{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("without token: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/messages", nil)
	req.Header.Set(middleware.AdminTokenHeader, "secret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("with token: status = %d, want 200", rec.Code)
	}
}

func TestHandleClearMessagesRequiresConfirmation(t *testing.T) {
	h, router := setupTestHandler(t, &fakeSender{})

	if _, err := h.service.Submit(context.Background(), SubmitInput{
		Name: "Jo", Email: "jo@x.com", Subject: "Hi there",
		Body: "This is a sufficiently long message.",
	}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	post := func(values url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/messages/clear", strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set(middleware.AdminTokenHeader, "secret")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := post(url.Values{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("without confirm: status = %d, want 400", rec.Code)
	}
	messages, _ := h.service.ListMessages(context.Background())
	if len(messages) != 1 {
		t.Fatal("collection should be untouched without confirmation")
	}

	rec = post(url.Values{"confirm": {"yes"}})
	if rec.Code != http.StatusOK {
		t.Errorf("with confirm: status = %d, want 200", rec.Code)
	}
	messages, _ = h.service.ListMessages(context.Background())
	if len(messages) != 0 {
		t.Error("collection should be empty after confirmed clear")
	}
}

func TestHandleDeleteMessage(t *testing.T) {
	h, router := setupTestHandler(t, &fakeSender{})

	msg, err := h.service.Submit(context.Background(), SubmitInput{
		Name: "Jo", Email: "jo@x.com", Subject: "Hi there",
		Body: "This is a sufficiently long message.",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/messages/delete",
		strings.NewReader(url.Values{"id": {strconv.FormatInt(msg.ID, 10)}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(middleware.AdminTokenHeader, "secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	messages, _ := h.service.ListMessages(context.Background())
	if len(messages) != 0 {
		t.Errorf("store has %d messages after delete, want 0", len(messages))
	}
}
