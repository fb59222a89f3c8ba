package auth

import (
	"context"
	"errors"

	"go-civic/pkg/utils"

	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned for a rejected sign-in. Deliberately
// indistinguishable between unknown email and wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *Principal, error)
	ResolvePrincipal(ctx context.Context, uid, email string) (*Principal, error)
}

type AuthServiceImpl struct {
	Repo   AuthRepository
	Logger *zap.Logger
}

func NewAuthService(repo AuthRepository, logger *zap.Logger) AuthService {
	return &AuthServiceImpl{Repo: repo, Logger: logger}
}

// Login verifies credentials, resolves the principal's role and issues a JWT.
// A principal in neither registry still signs in; they land in the
// access-denied state with an empty role claim.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, *Principal, error) {
	account, err := s.Repo.FindAccountByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	// Check password (TODO: use bcrypt)
	if account.Password != password {
		return "", nil, ErrInvalidCredentials
	}

	principal, err := s.ResolvePrincipal(ctx, account.UID, account.Email)
	if err != nil {
		return "", nil, err
	}

	token, err := utils.GenerateToken(principal.UID, principal.Email, principal.Role, principal.Dept)
	if err != nil {
		return "", nil, err
	}

	s.Logger.Info("login",
		zap.String("actor_uid", principal.UID),
		zap.String("role", principal.Role))

	return token, principal, nil
}

// ResolvePrincipal maps an authenticated uid to its role. Lookup order is
// fixed: admin registry first, then supervisor registry, else no role. A uid
// present in both registries is an admin.
func (s *AuthServiceImpl) ResolvePrincipal(ctx context.Context, uid, email string) (*Principal, error) {
	admin, err := s.Repo.FindAdmin(ctx, uid)
	switch {
	case err == nil:
		return &Principal{UID: uid, Email: email, Role: "admin", Name: admin.Name}, nil
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	supervisor, err := s.Repo.FindSupervisor(ctx, uid)
	switch {
	case err == nil:
		return &Principal{UID: uid, Email: email, Role: "supervisor", Name: supervisor.Name, Dept: supervisor.Dept}, nil
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	return &Principal{UID: uid, Email: email, Role: ""}, nil
}
