package auth

import (
	"context"
	"errors"

	"go-civic/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound marks a missing identity-store document.
var ErrNotFound = errors.New("identity record not found")

// AuthRepository reads the identity store: credential accounts plus the two
// role registries.
type AuthRepository interface {
	FindAccountByEmail(ctx context.Context, email string) (*Account, error)
	FindAdmin(ctx context.Context, uid string) (*AdminEntry, error)
	FindSupervisor(ctx context.Context, uid string) (*SupervisorEntry, error)
}

// AuthRepositoryImpl implements AuthRepository
type AuthRepositoryImpl struct {
	accounts    *mongo.Collection
	admins      *mongo.Collection
	supervisors *mongo.Collection
}

// NewAuthRepository creates a new auth repository
func NewAuthRepository(db *database.MongodbDB) AuthRepository {
	return &AuthRepositoryImpl{
		accounts:    db.DB.Collection("accounts"),
		admins:      db.DB.Collection("admins"),
		supervisors: db.DB.Collection("supervisors"),
	}
}

func (r *AuthRepositoryImpl) FindAccountByEmail(ctx context.Context, email string) (*Account, error) {
	var account Account
	err := r.accounts.FindOne(ctx, bson.M{"email": email}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *AuthRepositoryImpl) FindAdmin(ctx context.Context, uid string) (*AdminEntry, error) {
	var entry AdminEntry
	err := r.admins.FindOne(ctx, bson.M{"uid": uid}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *AuthRepositoryImpl) FindSupervisor(ctx context.Context, uid string) (*SupervisorEntry, error) {
	var entry SupervisorEntry
	err := r.supervisors.FindOne(ctx, bson.M{"uid": uid}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}
