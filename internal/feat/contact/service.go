package contact

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/foliosite/folio/pkg/fl/config"
	"github.com/foliosite/folio/pkg/fl/kv"
	"github.com/foliosite/folio/pkg/fl/logger"
	"github.com/foliosite/folio/pkg/fl/mail"
)

var (
	// ErrSubmissionInFlight is returned when a submit arrives while another
	// one is still sending.
	ErrSubmissionInFlight = errors.New("a submission is already in flight")

	// ErrSendFailed wraps a rejected or errored send attempt.
	ErrSendFailed = errors.New("send attempt failed")
)

// SubmitInput carries the raw form values of one submission.
type SubmitInput struct {
	Name    string
	Email   string
	Subject string
	Body    string
}

// Service defines the contact feature interface.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	// Submit validates the input, attempts the external send, and on
	// acknowledgment stores the message. Validation failures come back as
	// validation.ValidationErrors.
	Submit(ctx context.Context, in SubmitInput) (*Message, error)

	ListMessages(ctx context.Context) ([]Message, error)
	DeleteMessage(ctx context.Context, id int64) error
	ClearMessages(ctx context.Context) error

	// State reports the current phase of the submission flow.
	State() State
	// Dismiss returns a terminal status to idle immediately.
	Dismiss()
}

// DBProvider provides access to the database.
type DBProvider interface {
	GetDB() *sql.DB
}

type service struct {
	dbProvider DBProvider
	store      *Store
	sender     mail.Sender
	cfg        *config.Config
	log        logger.Logger

	statusTTL time.Duration

	mu         sync.Mutex
	state      State
	resetTimer *time.Timer
}

// NewService creates a new contact service. A nil sender disables external
// relaying; submissions are then only stored locally.
func NewService(dbProvider DBProvider, sender mail.Sender, cfg *config.Config, log logger.Logger) Service {
	return &service{
		dbProvider: dbProvider,
		sender:     sender,
		cfg:        cfg,
		log:        log,
		state:      StateIdle,
	}
}

func (s *service) ensureStore() {
	if s.store == nil && s.dbProvider != nil {
		s.store = NewStore(kv.New(s.dbProvider.GetDB()))
	}
}

func (s *service) Start(ctx context.Context) error {
	s.ensureStore()

	ttl, err := time.ParseDuration(s.cfg.Contact.StatusTTL)
	if err != nil || ttl <= 0 {
		ttl = 3 * time.Second
		s.log.Infof("Invalid status TTL, using default: %v", ttl)
	}
	s.statusTTL = ttl

	if err := s.store.Seed(ctx); err != nil {
		return err
	}

	s.log.Info("Contact service started")
	return nil
}

func (s *service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.resetTimer != nil {
		s.resetTimer.Stop()
		s.resetTimer = nil
	}
	s.mu.Unlock()
	s.log.Info("Contact service stopped")
	return nil
}

// Submit runs the submission flow: idle -> sending -> succeeded or failed.
// The sending guard rejects re-entrant submissions; the terminal status
// decays back to idle after the configured TTL or an explicit Dismiss.
func (s *service) Submit(ctx context.Context, in SubmitInput) (*Message, error) {
	s.ensureStore()

	errs := ValidateForm(map[string]string{
		FieldName:    in.Name,
		FieldEmail:   in.Email,
		FieldSubject: in.Subject,
		FieldMessage: in.Body,
	})
	if errs.HasErrors() {
		// Validation failures never leave idle.
		return nil, errs
	}

	if err := s.enterSending(); err != nil {
		return nil, err
	}

	msg := Message{
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		Subject:     strings.TrimSpace(in.Subject),
		Body:        strings.TrimSpace(in.Body),
		SubmittedAt: time.Now().UTC(),
	}
	msg.ID = s.store.NextID(msg.SubmittedAt.UnixMilli())

	if s.sender != nil {
		err := s.sender.Send(ctx, s.cfg.Mail.ServiceID, s.cfg.Mail.TemplateID, map[string]string{
			"from_name":  msg.Name,
			"from_email": msg.Email,
			"subject":    msg.Subject,
			"message":    msg.Body,
		})
		if err != nil {
			// The message is recorded nowhere on a failed send; the user may
			// retry while the form still holds the values.
			s.log.Errorf("Send attempt failed: %v", err)
			s.settle(StateFailed)
			return nil, errors.Join(ErrSendFailed, err)
		}
	}

	if err := s.store.Append(ctx, msg); err != nil {
		s.log.Errorf("Cannot store message %d: %v", msg.ID, err)
		s.settle(StateFailed)
		return nil, err
	}

	s.log.Infof("Contact message %d received from %s", msg.ID, msg.Email)
	s.settle(StateSucceeded)
	return &msg, nil
}

func (s *service) ListMessages(ctx context.Context) ([]Message, error) {
	s.ensureStore()
	return s.store.ListAll(ctx)
}

func (s *service) DeleteMessage(ctx context.Context, id int64) error {
	s.ensureStore()
	return s.store.DeleteByID(ctx, id)
}

func (s *service) ClearMessages(ctx context.Context) error {
	s.ensureStore()
	return s.store.ClearAll(ctx)
}

func (s *service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *service) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSending {
		return
	}
	if s.resetTimer != nil {
		s.resetTimer.Stop()
		s.resetTimer = nil
	}
	s.state = StateIdle
}

func (s *service) enterSending() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSending {
		return ErrSubmissionInFlight
	}
	if s.resetTimer != nil {
		s.resetTimer.Stop()
		s.resetTimer = nil
	}
	s.state = StateSending
	return nil
}

func (s *service) settle(terminal State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = terminal
	s.resetTimer = time.AfterFunc(s.statusTTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.state == terminal {
			s.state = StateIdle
		}
	})
}
