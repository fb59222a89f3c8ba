package auth

import (
	"context"
	"errors"
	"testing"

	"go-civic/pkg/utils"

	"go.uber.org/zap"
)

type fakeAuthRepo struct {
	accounts    map[string]*Account // by email
	admins      map[string]*AdminEntry
	supervisors map[string]*SupervisorEntry
}

func (f *fakeAuthRepo) FindAccountByEmail(ctx context.Context, email string) (*Account, error) {
	if a, ok := f.accounts[email]; ok {
		return a, nil
	}
	return nil, ErrNotFound
}

func (f *fakeAuthRepo) FindAdmin(ctx context.Context, uid string) (*AdminEntry, error) {
	if a, ok := f.admins[uid]; ok {
		return a, nil
	}
	return nil, ErrNotFound
}

func (f *fakeAuthRepo) FindSupervisor(ctx context.Context, uid string) (*SupervisorEntry, error) {
	if s, ok := f.supervisors[uid]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func newAuthFixture() (*fakeAuthRepo, AuthService) {
	repo := &fakeAuthRepo{
		accounts: map[string]*Account{
			"admin@city.gov": {UID: "u-admin", Email: "admin@city.gov", Password: "pass1"},
			"sup@city.gov":   {UID: "u-sup", Email: "sup@city.gov", Password: "pass2"},
			"none@city.gov":  {UID: "u-none", Email: "none@city.gov", Password: "pass3"},
			"both@city.gov":  {UID: "u-both", Email: "both@city.gov", Password: "pass4"},
		},
		admins: map[string]*AdminEntry{
			"u-admin": {UID: "u-admin", Name: "Admin"},
			"u-both":  {UID: "u-both", Name: "Both"},
		},
		supervisors: map[string]*SupervisorEntry{
			"u-sup":  {UID: "u-sup", Name: "Supervisor", Dept: "roads"},
			"u-both": {UID: "u-both", Name: "Both", Dept: "water"},
		},
	}
	return repo, NewAuthService(repo, zap.NewNop())
}

func TestResolvePrincipal(t *testing.T) {
	_, svc := newAuthFixture()
	ctx := context.Background()

	tests := []struct {
		name     string
		uid      string
		wantRole string
		wantDept string
	}{
		{"admin registry", "u-admin", "admin", ""},
		{"supervisor registry", "u-sup", "supervisor", "roads"},
		{"neither registry", "u-none", "", ""},
		{"both registries resolves to admin", "u-both", "admin", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := svc.ResolvePrincipal(ctx, tt.uid, tt.uid+"@city.gov")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Role != tt.wantRole {
				t.Errorf("role = %q, want %q", p.Role, tt.wantRole)
			}
			if p.Dept != tt.wantDept {
				t.Errorf("dept = %q, want %q", p.Dept, tt.wantDept)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	utils.SetSecret("test-secret")
	_, svc := newAuthFixture()
	ctx := context.Background()

	token, principal, err := svc.Login(ctx, "sup@city.gov", "pass2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if principal.Role != "supervisor" || principal.Dept != "roads" {
		t.Errorf("principal = %+v, want supervisor/roads", principal)
	}

	claims, err := utils.ValidateToken(token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.UID != "u-sup" || claims.Role != "supervisor" || claims.Dept != "roads" {
		t.Errorf("token claims = %+v, want u-sup/supervisor/roads", claims)
	}
}

func TestLoginRejections(t *testing.T) {
	utils.SetSecret("test-secret")
	_, svc := newAuthFixture()
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, "sup@city.gov", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "ghost@city.gov", "pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginWithoutRoleStillSignsIn(t *testing.T) {
	utils.SetSecret("test-secret")
	_, svc := newAuthFixture()

	token, principal, err := svc.Login(context.Background(), "none@city.gov", "pass3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if principal.Role != "" {
		t.Errorf("role = %q, want empty", principal.Role)
	}
	if token == "" {
		t.Error("expected a token even without a role")
	}
}
