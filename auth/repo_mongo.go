package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoAccountRepository struct {
	collection *mongo.Collection
}

type dbAccount struct {
	ID              ID `bson:"_id"`
	FullName        string
	Email           string
	PasswordHash    string
	ProfileImageURL string
	IsActive        bool
	ActivationToken string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewMongoAccountRepository returns a Repository backed by c. EnsureIndexes
// must have been run for email uniqueness to hold.
func NewMongoAccountRepository(c *mongo.Collection) *MongoAccountRepository {
	return &MongoAccountRepository{collection: c}
}

// EnsureIndexes creates the unique email index and the activation token
// lookup index.
func (m *MongoAccountRepository) EnsureIndexes(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "activationtoken", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("error creating account indexes: %w", err)
	}
	return nil
}

func (m *MongoAccountRepository) Ping(ctx context.Context) error {
	return m.collection.Database().Client().Ping(ctx, nil)
}

func (m *MongoAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return m.findAccountBy(ctx, "email", email)
}

func (m *MongoAccountRepository) FindByActivationToken(ctx context.Context, token string) (*Account, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return m.findAccountBy(ctx, "activationtoken", token)
}

func (m *MongoAccountRepository) findAccountBy(ctx context.Context, key string, val string) (*Account, error) {
	var a dbAccount
	sr := m.collection.FindOne(ctx, bson.M{key: val})

	if errors.Is(sr.Err(), mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}

	if err := sr.Decode(&a); err != nil {
		return nil, err
	}

	acc := accountFromDBAccount(a)
	return &acc, nil
}

func (m *MongoAccountRepository) Update(ctx context.Context, acc *Account) error {
	dba := dbAccountFromAccount(acc)
	res, err := m.collection.ReplaceOne(ctx, bson.M{"_id": dba.ID}, dba)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoAccountRepository) Store(ctx context.Context, acc *Account) error {
	dba := dbAccountFromAccount(acc)
	_, err := m.collection.InsertOne(ctx, &dba)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}

func dbAccountFromAccount(a *Account) dbAccount {
	return dbAccount{a.ID, a.FullName, a.Credentials.Email, a.Credentials.PasswordHash,
		a.ProfileImageURL, a.IsActive, a.ActivationToken, a.CreatedAt, a.UpdatedAt}
}

func accountFromDBAccount(a dbAccount) Account {
	return Account{
		ID:              a.ID,
		FullName:        a.FullName,
		ProfileImageURL: a.ProfileImageURL,
		Credentials:     Credentials{Email: a.Email, PasswordHash: a.PasswordHash},
		IsActive:        a.IsActive,
		ActivationToken: a.ActivationToken,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
