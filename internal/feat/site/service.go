package site

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/foliosite/folio/pkg/fl/config"
	"github.com/foliosite/folio/pkg/fl/logger"
)

// Service defines the site service interface.
type Service interface {
	Start(ctx context.Context) error
	Profile() *Profile
}

type service struct {
	cfg     *config.Config
	log     logger.Logger
	profile *Profile
}

// NewService creates a new site service.
func NewService(cfg *config.Config, log logger.Logger) Service {
	return &service{
		cfg: cfg,
		log: log,
	}
}

// Start loads the profile file. A missing file is not fatal; the page then
// renders with an empty profile.
func (s *service) Start(ctx context.Context) error {
	profile, err := loadProfile(s.cfg.Site.ProfilePath)
	if err != nil {
		s.log.Errorf("Cannot load profile from %s: %v", s.cfg.Site.ProfilePath, err)
		s.profile = &Profile{}
		return nil
	}

	s.profile = profile
	s.log.Infof("Site service started, profile for %q loaded", profile.Name)
	return nil
}

// Profile returns the loaded profile.
func (s *service) Profile() *Profile {
	return s.profile
}

func loadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read profile file: %w", err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("cannot parse profile file: %w", err)
	}
	return &profile, nil
}
