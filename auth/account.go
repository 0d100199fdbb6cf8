package auth

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/rs/xid"
)

type Account struct {
	ID              ID
	FullName        string
	ProfileImageURL string
	Credentials     Credentials
	IsActive        bool
	ActivationToken string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ID string

//Credentials holds the account's sensitive information
type Credentials struct {
	Email,
	PasswordHash string
}

// Profile is the public view of an account. It never carries credentials
// or the activation token.
type Profile struct {
	ID              ID        `json:"id"`
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

var (
	ErrInvalidFullName         = errors.New("invalid full name")
	ErrInvalidEmail            = errors.New("invalid email address")
	ErrInvalidPassword         = errors.New("invalid password")
	ErrDuplicateEmail          = errors.New("email in use")
	ErrNotFound                = errors.New("account not found")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrActivationTokenNotFound = errors.New("activation failed")
	ErrTokenExpired            = errors.New("token is expired")
	ErrTokenMalformed          = errors.New("token is malformed")
	ErrTokenSignatureInvalid   = errors.New("token signature is invalid")
	ErrWeakSigningKey          = errors.New("signing key must be at least 32 bytes")
)

var emailRegexp = regexp.MustCompile(`^\S+@\S+\.\S+$`)

const (
	maxFullNameLen    = 100
	minPasswordLength = 8
	// bcrypt only accepts passwords up to 72 bytes.
	maxPasswordLength = 72
)

//NewAccount validates full name and email and returns a new inactive Account
// if arguments are valid
func NewAccount(fullName string, email string) (*Account, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" || len([]rune(fullName)) > maxFullNameLen {
		return nil, ErrInvalidFullName
	}

	email = NormalizeEmail(email)
	if !emailRegexp.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	c := Credentials{Email: email}
	return &Account{FullName: fullName, Credentials: c}, nil
}

// NormalizeEmail trims and lower-cases an address. Emails compare
// case-insensitively everywhere in this package.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Profile returns the sanitized public view of acc.
func (acc *Account) Profile() Profile {
	return Profile{
		ID:              acc.ID,
		FullName:        acc.FullName,
		Email:           acc.Credentials.Email,
		ProfileImageURL: acc.ProfileImageURL,
		IsActive:        acc.IsActive,
		CreatedAt:       acc.CreatedAt,
		UpdatedAt:       acc.UpdatedAt,
	}
}

func NewID() ID {
	return ID(xid.New().String())
}
