// Package theme persists the visitor's light/dark preference. An unset
// preference means the page follows the OS.
package theme

import (
	"context"
	"database/sql"
	"errors"

	"github.com/foliosite/folio/pkg/fl/config"
	"github.com/foliosite/folio/pkg/fl/kv"
	"github.com/foliosite/folio/pkg/fl/logger"
)

// ThemeKey is the kv slot holding the preference.
const ThemeKey = "theme"

const (
	Dark  = "dark"
	Light = "light"
)

// ErrInvalidTheme is returned for values other than "dark" or "light".
var ErrInvalidTheme = errors.New("theme must be \"dark\" or \"light\"")

// Service defines the theme preference interface.
type Service interface {
	Start(ctx context.Context) error
	// Get returns "dark", "light", or "" when unset.
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, value string) error
	// Clear removes the preference, returning to follow-OS behavior.
	Clear(ctx context.Context) error
}

// DBProvider provides access to the database.
type DBProvider interface {
	GetDB() *sql.DB
}

type service struct {
	dbProvider DBProvider
	slots      *kv.Store
	cfg        *config.Config
	log        logger.Logger
}

// NewService creates a new theme service.
func NewService(dbProvider DBProvider, cfg *config.Config, log logger.Logger) Service {
	return &service{
		dbProvider: dbProvider,
		cfg:        cfg,
		log:        log,
	}
}

func (s *service) ensureSlots() {
	if s.slots == nil && s.dbProvider != nil {
		s.slots = kv.New(s.dbProvider.GetDB())
	}
}

func (s *service) Start(ctx context.Context) error {
	s.ensureSlots()
	s.log.Info("Theme service started")
	return nil
}

func (s *service) Get(ctx context.Context) (string, error) {
	s.ensureSlots()

	value, ok, err := s.slots.Get(ctx, ThemeKey)
	if err != nil {
		return "", err
	}
	if !ok || (value != Dark && value != Light) {
		// Unknown stored values count as unset.
		return "", nil
	}
	return value, nil
}

func (s *service) Set(ctx context.Context, value string) error {
	s.ensureSlots()

	if value != Dark && value != Light {
		return ErrInvalidTheme
	}
	return s.slots.Set(ctx, ThemeKey, value)
}

func (s *service) Clear(ctx context.Context) error {
	s.ensureSlots()
	return s.slots.Delete(ctx, ThemeKey)
}
