package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/foliosite/folio/pkg/fl/config"
	"github.com/foliosite/folio/pkg/fl/logger"
	"github.com/foliosite/folio/pkg/fl/middleware"
	"github.com/foliosite/folio/pkg/fl/validation"
)

// Handler implements the public submission endpoint, the submission state
// probe, and the token-guarded message dashboard API.
type Handler struct {
	service        Service
	cfg            *config.Config
	log            logger.Logger
	limiter        *rateLimiter
	allowedOrigins []string
}

// NewHandler creates a new contact handler.
func NewHandler(service Service, cfg *config.Config, log logger.Logger) *Handler {
	limit := cfg.Contact.RateLimit
	if limit <= 0 {
		limit = 5
	}
	h := &Handler{
		service: service,
		cfg:     cfg,
		log:     log,
		limiter: newRateLimiter(limit),
	}
	for _, o := range strings.Split(cfg.Contact.AllowedOrigins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			h.allowedOrigins = append(h.allowedOrigins, o)
		}
	}
	return h
}

// Start initializes the contact handler.
func (h *Handler) Start(ctx context.Context) error {
	h.log.Info("Contact handler started")
	return nil
}

// RegisterRoutes registers the contact routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	h.log.Info("Registering contact routes")

	r.Group(func(r chi.Router) {
		r.Use(h.corsMiddleware)
		r.Use(h.rateLimitMiddleware)
		r.Post("/api/v1/contact/submit", h.HandleSubmit)
		// Preflights are answered inside corsMiddleware; the route only
		// exists so the middleware chain runs for OPTIONS at all.
		r.Options("/api/v1/contact/submit", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	r.Get("/api/v1/contact/state", h.HandleState)
	r.Post("/api/v1/contact/dismiss", h.HandleDismiss)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireToken(h.cfg.Admin.Token))
		r.Get("/api/v1/admin/messages", h.HandleListMessages)
		r.Post("/api/v1/admin/messages/delete", h.HandleDeleteMessage)
		r.Post("/api/v1/admin/messages/clear", h.HandleClearMessages)
	})
}

// HandleSubmit processes a contact form submission from the public internet.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(2 << 20); err != nil {
		// Fallback: also handles url-encoded forms
		if err2 := r.ParseForm(); err2 != nil {
			h.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid form data"})
			return
		}
	}

	// Honeypot check
	if r.FormValue("_honeypot") != "" {
		// Silently accept to fool bots
		h.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	in := SubmitInput{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Subject: r.FormValue("subject"),
		Body:    r.FormValue("message"),
	}

	msg, err := h.service.Submit(r.Context(), in)
	if err != nil {
		var verrs validation.ValidationErrors
		if errors.As(err, &verrs) {
			h.jsonResponse(w, http.StatusUnprocessableEntity, map[string]any{
				"error":  "validation failed",
				"focus":  verrs.First().Field,
				"fields": verrs.AsMap(),
			})
			return
		}
		if errors.Is(err, ErrSubmissionInFlight) {
			h.jsonResponse(w, http.StatusConflict, map[string]string{"error": "a submission is already in flight"})
			return
		}
		h.log.Errorf("Cannot process submission: %v", err)
		h.jsonResponse(w, http.StatusBadGateway, map[string]string{"error": "message could not be sent, please try again"})
		return
	}

	if accept := r.Header.Get("Accept"); strings.Contains(accept, "application/json") {
		h.jsonResponse(w, http.StatusOK, map[string]any{"status": "ok", "id": msg.ID})
		return
	}

	redirectURL := r.Header.Get("Referer")
	if redirectURL == "" {
		redirectURL = "/"
	}
	http.Redirect(w, r, redirectURL, http.StatusSeeOther)
}

// HandleState reports the current submission flow state.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]string{"state": string(h.service.State())})
}

// HandleDismiss returns a terminal status to idle.
func (h *Handler) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	h.service.Dismiss()
	h.jsonResponse(w, http.StatusOK, map[string]string{"state": string(h.service.State())})
}

// --- Dashboard handlers ---

func (h *Handler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.ListMessages(r.Context())
	if err != nil {
		h.log.Errorf("Cannot list messages: %v", err)
		h.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "cannot list messages"})
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]any{"messages": messages})
}

func (h *Handler) HandleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid form data"})
		return
	}

	id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
	if err != nil {
		h.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.service.DeleteMessage(r.Context(), id); err != nil {
		h.log.Errorf("Cannot delete message %d: %v", id, err)
		h.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "cannot delete message"})
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleClearMessages erases the whole collection. The explicit confirm
// parameter is the user-facing confirmation step.
func (h *Handler) HandleClearMessages(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid form data"})
		return
	}

	if r.FormValue("confirm") != "yes" {
		h.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "confirmation required"})
		return
	}

	if err := h.service.ClearMessages(r.Context()); err != nil {
		h.log.Errorf("Cannot clear messages: %v", err)
		h.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "cannot clear messages"})
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
