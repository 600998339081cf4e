package theme

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foliosite/folio/pkg/fl/logger"
)

// Handler exposes the theme preference API.
type Handler struct {
	service Service
	log     logger.Logger
}

// NewHandler creates a new theme handler.
func NewHandler(service Service, log logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterRoutes registers the theme routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/theme", h.HandleGet)
	r.Put("/api/v1/theme", h.HandleSet)
	r.Delete("/api/v1/theme", h.HandleClear)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	value, err := h.service.Get(r.Context())
	if err != nil {
		h.log.Errorf("Cannot read theme: %v", err)
		h.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "cannot read theme"})
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]string{"theme": value})
}

func (h *Handler) HandleSet(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	if err := h.service.Set(r.Context(), body.Theme); err != nil {
		if errors.Is(err, ErrInvalidTheme) {
			h.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		h.log.Errorf("Cannot store theme: %v", err)
		h.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "cannot store theme"})
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]string{"theme": body.Theme})
}

func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		h.log.Errorf("Cannot clear theme: %v", err)
		h.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "cannot clear theme"})
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]string{"theme": ""})
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
