package site

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foliosite/folio/internal/feat/theme"
	"github.com/foliosite/folio/pkg/fl/config"
	"github.com/foliosite/folio/pkg/fl/logger"
	"github.com/foliosite/folio/pkg/fl/render"
)

// Handler renders the portfolio page.
type Handler struct {
	service      Service
	themeService theme.Service
	templatesFS  embed.FS
	cfg          *config.Config
	log          logger.Logger
}

// NewHandler creates a new site handler.
func NewHandler(service Service, themeService theme.Service, templatesFS embed.FS, cfg *config.Config, log logger.Logger) *Handler {
	return &Handler{
		service:      service,
		themeService: themeService,
		templatesFS:  templatesFS,
		cfg:          cfg,
		log:          log,
	}
}

// RegisterRoutes registers the page route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleIndex)
}

type indexPageData struct {
	Title   string
	Theme   string
	Profile *Profile
}

// HandleIndex renders the single portfolio page. The stored theme
// preference, when set, is baked into the initial markup.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	themeValue, err := h.themeService.Get(r.Context())
	if err != nil {
		h.log.Errorf("Cannot read theme, rendering without: %v", err)
		themeValue = ""
	}

	tmpl, err := template.New("").Funcs(render.FuncMap()).ParseFS(h.templatesFS,
		"assets/templates/index.html",
	)
	if err != nil {
		h.log.Errorf("Template parse error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data := indexPageData{
		Title:   h.cfg.Site.Title,
		Theme:   themeValue,
		Profile: h.service.Profile(),
	}

	if err := tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		h.log.Errorf("Template execute error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
