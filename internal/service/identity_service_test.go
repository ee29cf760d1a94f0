package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"vision-rewards/internal/domain"
)

func newIdentityService(repo *mockUserRepo, adminEmail string) *IdentityService {
	return NewIdentityService(zap.NewNop(), repo, newTestVault(), adminEmail)
}

func TestIdentityService_RegisterAndAuthenticate(t *testing.T) {
	repo := newMockUserRepo()
	svc := newIdentityService(repo, "")
	ctx := context.Background()

	session, err := svc.Register(ctx, "Maria Silva", "Maria@Example.com", "senha-forte")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if session.Name != "Maria Silva" || session.Email != "maria@example.com" {
		t.Fatalf("unexpected session view: %q / %q", session.Name, session.Email)
	}
	if session.Level != 1 || session.Plan != domain.PlanFree || session.DaysLogged != 1 {
		t.Fatalf("unexpected initial state: %+v", session.StoredUser)
	}

	stored := repo.usersByID[session.ID]
	if stored.EncryptedName == "" || stored.EncryptedEmail == "" || stored.EmailHash == "" {
		t.Fatal("stored record missing encrypted fields")
	}
	if stored.EncryptedName == "Maria Silva" || stored.EncryptedEmail == "maria@example.com" {
		t.Fatal("PII stored in cleartext")
	}

	got, err := svc.Authenticate(ctx, "maria@example.com", "senha-forte")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != session.ID || got.Name != "Maria Silva" {
		t.Fatalf("unexpected authenticated session: %+v", got)
	}
}

func TestIdentityService_RegisterDuplicate(t *testing.T) {
	repo := newMockUserRepo()
	svc := newIdentityService(repo, "")
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Maria", "maria@example.com", "senha1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, "Otra", "MARIA@example.com", "senha2")
	if !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}
}

func TestIdentityService_AuthenticateWrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := newIdentityService(repo, "")
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Maria", "maria@example.com", "senha-correta"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Authenticate(ctx, "maria@example.com", "senha-errada")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestIdentityService_AuthenticateUnknownEmail(t *testing.T) {
	svc := newIdentityService(newMockUserRepo(), "")

	_, err := svc.Authenticate(context.Background(), "nadie@example.com", "senha")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIdentityService_RejectsEmptyInput(t *testing.T) {
	svc := newIdentityService(newMockUserRepo(), "")
	ctx := context.Background()

	cases := []struct{ name, email, password string }{
		{"", "a@b.com", "senha"},
		{"Maria", "", "senha"},
		{"Maria", "a@b.com", ""},
	}
	for _, tc := range cases {
		if _, err := svc.Register(ctx, tc.name, tc.email, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for %+v, got %v", tc, err)
		}
	}
}

func TestIdentityService_AdminDetection(t *testing.T) {
	repo := newMockUserRepo()
	svc := newIdentityService(repo, "Admin@Example.com")

	if svc.AdminEmailHash() == "" {
		t.Fatal("admin email hash not derived")
	}

	session, err := svc.Register(context.Background(), "Admin", "admin@example.com", "senha")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !svc.IsAdmin(session.EmailHash) {
		t.Fatal("admin account not detected by email hash")
	}
	if svc.IsAdmin("otro-hash") {
		t.Fatal("non-admin hash detected as admin")
	}
}
