package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"vision-rewards/internal/domain"
	"vision-rewards/internal/repository"
	"vision-rewards/internal/vault"
)

var (
	ErrDuplicateAccount   = errors.New("email already registered")
	ErrNotFound           = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// IdentityService administra el registro pseudonimo de usuarios: alta con
// cifrado de PII bajo la password y autenticacion por descifrado.
type IdentityService struct {
	logger         *zap.Logger
	users          repository.UserRepository
	vault          *vault.Vault
	adminEmailHash string
}

func NewIdentityService(logger *zap.Logger, users repository.UserRepository, v *vault.Vault, adminEmail string) *IdentityService {
	svc := &IdentityService{
		logger: logger,
		users:  users,
		vault:  v,
	}
	if adminEmail = normalizeEmail(adminEmail); adminEmail != "" {
		svc.adminEmailHash = v.Digest(adminEmail)
	}
	return svc
}

// AdminEmailHash expone el hash del email admin para los overrides por
// identidad (gating de tiers, operaciones de libro mayor).
func (s *IdentityService) AdminEmailHash() string {
	return s.adminEmailHash
}

// IsAdmin indica si el hash corresponde a la cuenta administradora.
func (s *IdentityService) IsAdmin(emailHash string) bool {
	return s.adminEmailHash != "" && emailHash == s.adminEmailHash
}

// LoginKey devuelve la clave pseudonima para rate limiting de login; el
// email en claro no debe salir del proceso.
func (s *IdentityService) LoginKey(email string) string {
	return s.vault.Digest(normalizeEmail(email))
}

// Register crea la cuenta: el email queda solo como hash de busqueda y el
// nombre/email como ciphertext bajo la password. La vista devuelta usa el
// PII en claro que el caller ya tiene.
func (s *IdentityService) Register(ctx context.Context, name, email, password string) (domain.SessionUser, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" || password == "" {
		return domain.SessionUser{}, ErrInvalidCredentials
	}

	emailHash := s.vault.Digest(email)
	_, err := s.users.GetByEmailHash(ctx, emailHash)
	if err == nil {
		return domain.SessionUser{}, ErrDuplicateAccount
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.SessionUser{}, err
	}

	encryptedName, err := s.vault.Encrypt(name, password)
	if err != nil {
		return domain.SessionUser{}, err
	}
	encryptedEmail, err := s.vault.Encrypt(email, password)
	if err != nil {
		return domain.SessionUser{}, err
	}

	now := time.Now().UTC()
	stored := domain.StoredUser{
		ID:                  uuid.NewString(),
		EmailHash:           emailHash,
		EncryptedName:       encryptedName,
		EncryptedEmail:      encryptedEmail,
		Level:               1,
		Plan:                domain.PlanFree,
		AnsweredQuestionIDs: []string{},
		LastLogin:           now,
		DaysLogged:          1,
		CreatedAt:           now,
	}

	if err := s.users.Create(ctx, stored); err != nil {
		return domain.SessionUser{}, err
	}

	s.logger.Info("account registered", zap.String("user_id", stored.ID))
	return domain.NewSessionView(stored, name, email), nil
}

// Authenticate busca por hash de email e intenta descifrar el nombre con la
// password. Cualquier fallo criptografico se reporta como credenciales
// invalidas, sin revelar que parte fallo.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (domain.SessionUser, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return domain.SessionUser{}, ErrInvalidCredentials
	}

	stored, err := s.users.GetByEmailHash(ctx, s.vault.Digest(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SessionUser{}, ErrNotFound
		}
		return domain.SessionUser{}, err
	}

	name, err := s.vault.Decrypt(stored.EncryptedName, password)
	if err != nil {
		if errors.Is(err, vault.ErrCrypto) {
			return domain.SessionUser{}, ErrInvalidCredentials
		}
		return domain.SessionUser{}, err
	}

	return domain.NewSessionView(stored, name, email), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
