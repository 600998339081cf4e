package main

import (
	"context"
	"embed"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/foliosite/folio/internal/feat/contact"
	"github.com/foliosite/folio/internal/feat/site"
	"github.com/foliosite/folio/internal/feat/theme"
	"github.com/foliosite/folio/internal/web"
	"github.com/foliosite/folio/pkg/fl/app"
	"github.com/foliosite/folio/pkg/fl/config"
	"github.com/foliosite/folio/pkg/fl/database"
	"github.com/foliosite/folio/pkg/fl/logger"
	"github.com/foliosite/folio/pkg/fl/mail"
	"github.com/foliosite/folio/pkg/fl/middleware"
)

//go:embed assets/migrations/sqlite/*.sql
var migrationsFS embed.FS

//go:embed assets/templates/*.html
var templatesFS embed.FS

//go:embed assets/static
var staticFS embed.FS

func main() {
	ctx := context.Background()

	cfg := config.Load()
	log := logger.New(cfg.Log.Level)

	log.Infof("Starting folio [%s mode]", cfg.Env)
	log.Infof("Database: %s", cfg.Database.Path)
	log.Infof("Profile: %s", cfg.Site.ProfilePath)

	db := database.New(migrationsFS, cfg, log)
	db.SetMigrationPath("assets/migrations/sqlite")

	var sender mail.Sender
	mailClient := mail.NewClient(cfg.Mail.Endpoint, cfg.Mail.PublicKey)
	if mailClient.Configured() && cfg.Mail.ServiceID != "" {
		sender = mailClient
		log.Info("Mail relay configured")
	} else {
		log.Info("Mail relay not configured, messages are stored locally only")
	}

	contactService := contact.NewService(db, sender, cfg, log)
	themeService := theme.NewService(db, cfg, log)
	siteService := site.NewService(cfg, log)

	contactHandler := contact.NewHandler(contactService, cfg, log)
	themeHandler := theme.NewHandler(themeService, log)
	siteHandler := site.NewHandler(siteService, themeService, templatesFS, cfg, log)

	router := chi.NewRouter()
	middleware.DefaultStack(router)

	fileServer := web.NewFileServer(staticFS, log)

	deps := []any{db, contactService, themeService, siteService, contactHandler, themeHandler, siteHandler, fileServer}

	starts, stops, registrars := app.Setup(ctx, router, deps...)
	if err := app.Start(ctx, log, starts, stops, registrars, router); err != nil {
		log.Errorf("Startup failed: %v", err)
		os.Exit(1)
	}

	go app.Serve(router, cfg.Server.Addr)
	log.Infof("Server listening on %s", cfg.Server.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Stop(ctx, log, stops)
	log.Info("Server stopped")
}
