package auth

import "context"

type Service interface {
	RegisterAccount(ctx context.Context, r registerAccountRequest) (Profile, error)
	Login(ctx context.Context, r loginRequest) (loginResponse, error)
	Activate(ctx context.Context, token string) error
	Profile(ctx context.Context, email string) (Profile, error)
}

// Notifier delivers a message to an address. Delivery retries are the
// implementation's concern.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// TokenIssuer mints bearer tokens for a subject.
type TokenIssuer interface {
	Generate(subject string) (string, error)
}

// TokenVerifier checks bearer tokens presented on requests.
type TokenVerifier interface {
	ExtractSubject(token string) (string, error)
	Validate(token, expectedSubject string) bool
}

// Repository stores accounts. Store must reject a second account with the
// same email with ErrDuplicateEmail. Lookups that match nothing return
// ErrNotFound.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByActivationToken(ctx context.Context, token string) (*Account, error)
	Store(ctx context.Context, acc *Account) error
	Update(ctx context.Context, acc *Account) error
}

type registerAccountRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ProfileImageURL string `json:"profileImageUrl"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}
