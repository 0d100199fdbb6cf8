package auth

import (
	"context"
	"sync"
)

type accountRepository struct {
	mu       sync.RWMutex
	accounts map[ID]*Account
}

func NewAccountRepository() Repository {
	return &accountRepository{accounts: map[ID]*Account{}}
}

func (repo *accountRepository) Store(_ context.Context, acc *Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, v := range repo.accounts {
		if v.Credentials.Email == acc.Credentials.Email {
			return ErrDuplicateEmail
		}
	}
	c := *acc
	repo.accounts[acc.ID] = &c
	return nil
}

func (repo *accountRepository) Update(_ context.Context, acc *Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.accounts[acc.ID]; !ok {
		return ErrNotFound
	}
	for id, v := range repo.accounts {
		if id != acc.ID && v.Credentials.Email == acc.Credentials.Email {
			return ErrDuplicateEmail
		}
	}
	c := *acc
	repo.accounts[acc.ID] = &c
	return nil
}

func (repo *accountRepository) FindByEmail(_ context.Context, email string) (*Account, error) {
	return repo.findBy(func(acc *Account) bool { return acc.Credentials.Email == email })
}

func (repo *accountRepository) FindByActivationToken(_ context.Context, token string) (*Account, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return repo.findBy(func(acc *Account) bool { return acc.ActivationToken == token })
}

func (repo *accountRepository) findBy(match func(*Account) bool) (*Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, v := range repo.accounts {
		if match(v) {
			c := *v
			return &c, nil
		}
	}
	return nil, ErrNotFound
}
