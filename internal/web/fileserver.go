package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foliosite/folio/pkg/fl/logger"
)

const (
	staticAssetsPath = "assets/static"
	staticURLPrefix  = "/static"
)

// FileServer serves the embedded static assets under /static.
type FileServer struct {
	assetsFS embed.FS
	log      logger.Logger
}

func NewFileServer(assetsFS embed.FS, log logger.Logger) *FileServer {
	return &FileServer{
		assetsFS: assetsFS,
		log:      log,
	}
}

func (s *FileServer) RegisterRoutes(r chi.Router) {
	s.log.Infof("Registering file server: %s -> %s", staticURLPrefix, staticAssetsPath)

	staticFS, err := fs.Sub(s.assetsFS, staticAssetsPath)
	if err != nil {
		s.log.Errorf("Error creating static files sub-filesystem: %v", err)
		return
	}

	handler := http.StripPrefix(staticURLPrefix+"/", http.FileServer(http.FS(staticFS)))
	r.Handle(staticURLPrefix+"/*", handler)
}
