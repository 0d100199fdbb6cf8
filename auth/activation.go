package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ActivationManager issues activation tokens and flips accounts to active.
// Tokens stay on the account after use, so replaying an activation link is
// an idempotent success.
type ActivationManager struct {
	accounts Repository
	now      func() time.Time
}

func NewActivationManager(accounts Repository) *ActivationManager {
	return &ActivationManager{accounts: accounts, now: time.Now}
}

// Issue attaches a fresh random token to acc and leaves it inactive. The
// caller persists acc.
func (m *ActivationManager) Issue(acc *Account) string {
	acc.ActivationToken = uuid.NewString()
	acc.IsActive = false
	return acc.ActivationToken
}

// Activate marks the account holding token as active.
func (m *ActivationManager) Activate(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrActivationTokenNotFound
	}

	acc, err := m.accounts.FindByActivationToken(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return ErrActivationTokenNotFound
	}
	if err != nil {
		return fmt.Errorf("error finding account by activation token: %w", err)
	}

	if acc.IsActive {
		return nil
	}

	acc.IsActive = true
	acc.UpdatedAt = m.now().UTC()
	if err := m.accounts.Update(ctx, acc); err != nil {
		return fmt.Errorf("error activating account: %w", err)
	}
	return nil
}

// ActivationLink builds {baseURL}/activate?token={token}.
func ActivationLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/activate?token=" + url.QueryEscape(token)
}
