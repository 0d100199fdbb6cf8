package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/xid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSigningKey = []byte(strings.Repeat("k", 32))

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type notifierSpy struct {
	mu      sync.Mutex
	to      string
	subject string
	body    string
	calls   int
	sendErr error
}

func (n *notifierSpy) Send(_ context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	n.to, n.subject, n.body = to, subject, body
	return n.sendErr
}

// failingRepository wraps a Repository and fails every lookup with err.
type failingRepository struct {
	Repository
	err error
}

func (f failingRepository) FindByEmail(context.Context, string) (*Account, error) {
	return nil, f.err
}

var errStoreDown = errors.New("store unavailable")

func isValidID(id string) bool {
	if _, err := xid.FromString(id); err != nil {
		return false
	}
	return true
}

func newTestTokenService(t *testing.T, opts ...TokenOption) *TokenService {
	t.Helper()
	ts, err := NewTokenService(testSigningKey, time.Hour, opts...)
	require.NoError(t, err)
	return ts
}

func newTestService(t *testing.T, accounts Repository, notifier Notifier) (Service, *TokenService) {
	t.Helper()
	tokens := newTestTokenService(t)
	svc := NewService(accounts, tokens, NewBcryptHasher(bcrypt.MinCost), notifier,
		WithActivationBaseURL("https://api.moneymanager.app/api/v1.0"),
		WithLogger(discardLogger),
	)
	return svc, tokens
}
