package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const activationSubject = "Activate your Money Manager account"

type service struct {
	accounts          Repository
	tokens            TokenIssuer
	hasher            PasswordHasher
	notifier          Notifier
	activation        *ActivationManager
	activationBaseURL string
	logger            *slog.Logger
	now               func() time.Time
}

type Option func(*service)

// WithActivationBaseURL sets the base used to build activation links.
func WithActivationBaseURL(baseURL string) Option {
	return func(s *service) {
		s.activationBaseURL = baseURL
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(accounts Repository, tokens TokenIssuer, hasher PasswordHasher, notifier Notifier, opts ...Option) Service {
	svc := &service{
		accounts:          accounts,
		tokens:            tokens,
		hasher:            hasher,
		notifier:          notifier,
		activation:        NewActivationManager(accounts),
		activationBaseURL: "http://localhost:8080",
		logger:            slog.Default(),
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (svc *service) RegisterAccount(ctx context.Context, r registerAccountRequest) (Profile, error) {
	acc, err := NewAccount(r.FullName, r.Email)
	if err != nil {
		return Profile{}, err
	}

	if len(r.Password) < minPasswordLength || len(r.Password) > maxPasswordLength {
		return Profile{}, ErrInvalidPassword
	}

	hash, err := svc.hasher.Hash(r.Password)
	if err != nil {
		return Profile{}, err
	}

	acc.ID = NewID()
	acc.Credentials.PasswordHash = hash
	acc.ProfileImageURL = strings.TrimSpace(r.ProfileImageURL)
	acc.CreatedAt = svc.now().UTC()
	acc.UpdatedAt = acc.CreatedAt
	token := svc.activation.Issue(acc)

	if err := svc.accounts.Store(ctx, acc); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			svc.logger.InfoContext(ctx, "auth_event", "event", "register_rejected", "email", acc.Credentials.Email, "reason", "duplicate_email")
			return Profile{}, ErrDuplicateEmail
		}
		return Profile{}, fmt.Errorf("error saving account: %w", err)
	}

	svc.sendActivationEmail(ctx, acc.Credentials.Email, token)

	svc.logger.InfoContext(ctx, "auth_event", "event", "account_registered", "account_id", acc.ID, "email", acc.Credentials.Email)
	return acc.Profile(), nil
}

// sendActivationEmail is fire-and-forget: the account already exists, so a
// delivery failure is logged and not returned.
func (svc *service) sendActivationEmail(ctx context.Context, email, token string) {
	if svc.notifier == nil {
		return
	}

	link := ActivationLink(svc.activationBaseURL, token)
	body := "Click on the following link to activate your account " + link
	if err := svc.notifier.Send(ctx, email, activationSubject, body); err != nil {
		svc.logger.ErrorContext(ctx, "auth_event", "event", "activation_email_failed", "email", email, "error", err)
	}
}

func (svc *service) Login(ctx context.Context, r loginRequest) (loginResponse, error) {
	email := NormalizeEmail(r.Email)
	if email == "" || r.Password == "" {
		svc.logger.InfoContext(ctx, "auth_event", "event", "login_failed", "reason", "missing_credentials")
		return loginResponse{}, ErrInvalidCredentials
	}

	acc, err := svc.accounts.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		svc.logger.InfoContext(ctx, "auth_event", "event", "login_failed", "email", email, "reason", "not_found")
		return loginResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		svc.logger.ErrorContext(ctx, "auth_event", "event", "login_error", "email", email, "reason", "store", "error", err)
		return loginResponse{}, fmt.Errorf("error finding account: %w", err)
	}

	ok, err := svc.hasher.Verify(acc.Credentials.PasswordHash, r.Password)
	if err != nil {
		svc.logger.ErrorContext(ctx, "auth_event", "event", "login_error", "email", email, "reason", "hash", "error", err)
		return loginResponse{}, err
	}
	if !ok {
		svc.logger.InfoContext(ctx, "auth_event", "event", "login_failed", "email", email, "reason", "wrong_password")
		return loginResponse{}, ErrInvalidCredentials
	}

	token, err := svc.tokens.Generate(acc.Credentials.Email)
	if err != nil {
		svc.logger.ErrorContext(ctx, "auth_event", "event", "login_error", "email", email, "reason", "token", "error", err)
		return loginResponse{}, err
	}

	svc.logger.InfoContext(ctx, "auth_event", "event", "login_success", "account_id", acc.ID, "email", email)
	return loginResponse{Token: token, User: acc.Profile()}, nil
}

func (svc *service) Activate(ctx context.Context, token string) error {
	if err := svc.activation.Activate(ctx, token); err != nil {
		if errors.Is(err, ErrActivationTokenNotFound) {
			svc.logger.InfoContext(ctx, "auth_event", "event", "activation_failed", "reason", "unknown_token")
			return err
		}
		svc.logger.ErrorContext(ctx, "auth_event", "event", "activation_error", "error", err)
		return err
	}

	svc.logger.InfoContext(ctx, "auth_event", "event", "account_activated")
	return nil
}

func (svc *service) Profile(ctx context.Context, email string) (Profile, error) {
	acc, err := svc.accounts.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return Profile{}, err
	}
	return acc.Profile(), nil
}
