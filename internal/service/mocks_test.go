package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"vision-rewards/internal/domain"
	"vision-rewards/internal/vault"
)

// newTestVault usa pocos workers para mantener los tests livianos.
func newTestVault() *vault.Vault {
	return vault.New(2)
}

type mockUserRepo struct {
	usersByID   map[string]domain.StoredUser
	usersByHash map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:   make(map[string]domain.StoredUser),
		usersByHash: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.StoredUser) error {
	m.usersByID[user.ID] = user
	m.usersByHash[user.EmailHash] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.StoredUser, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.StoredUser{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmailHash(_ context.Context, emailHash string) (domain.StoredUser, error) {
	id, ok := m.usersByHash[emailHash]
	if !ok {
		return domain.StoredUser{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

// UpdateEconomy replica el contrato real: las columnas de PII nunca se
// escriben despues del alta.
func (m *mockUserRepo) UpdateEconomy(_ context.Context, user domain.StoredUser) error {
	stored, ok := m.usersByID[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	user.EmailHash = stored.EmailHash
	user.EncryptedName = stored.EncryptedName
	user.EncryptedEmail = stored.EncryptedEmail
	m.usersByID[user.ID] = user
	return nil
}

type mockTransactionRepo struct {
	txsByID map[string]domain.Transaction
	order   []string

	// users permite que RejectAndRefund toque el saldo como lo hace la
	// transaccion de base real; refundErr inyecta un fallo unico.
	users     *mockUserRepo
	refundErr error
}

func newMockTransactionRepo() *mockTransactionRepo {
	return &mockTransactionRepo{txsByID: make(map[string]domain.Transaction)}
}

func (m *mockTransactionRepo) Create(_ context.Context, tx domain.Transaction) error {
	m.txsByID[tx.ID] = tx
	m.order = append(m.order, tx.ID)
	return nil
}

func (m *mockTransactionRepo) GetByID(_ context.Context, id string) (domain.Transaction, error) {
	tx, ok := m.txsByID[id]
	if !ok {
		return domain.Transaction{}, pgx.ErrNoRows
	}
	return tx, nil
}

func (m *mockTransactionRepo) ListByUser(_ context.Context, userID string) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for i := len(m.order) - 1; i >= 0; i-- {
		tx := m.txsByID[m.order[i]]
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *mockTransactionRepo) ListWithdrawals(_ context.Context) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for i := len(m.order) - 1; i >= 0; i-- {
		tx := m.txsByID[m.order[i]]
		if tx.Type == domain.TransactionWithdrawal {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *mockTransactionRepo) UpdateStatusIf(_ context.Context, id string, from, to domain.TransactionStatus) (bool, error) {
	tx, ok := m.txsByID[id]
	if !ok || tx.Status != from {
		return false, nil
	}
	tx.Status = to
	m.txsByID[id] = tx
	return true, nil
}

// RejectAndRefund replica la atomicidad del repositorio real: ante el fallo
// inyectado no se aplica ninguna de las dos escrituras.
func (m *mockTransactionRepo) RejectAndRefund(_ context.Context, id, userID string, amount float64) (bool, error) {
	tx, ok := m.txsByID[id]
	if !ok || tx.Status != domain.StatusAnalysis {
		return false, nil
	}
	if m.refundErr != nil {
		err := m.refundErr
		m.refundErr = nil
		return false, err
	}
	tx.Status = domain.StatusRejected
	m.txsByID[id] = tx
	if m.users != nil {
		if user, ok := m.users.usersByID[userID]; ok {
			user.Balance = domain.RoundBRL(user.Balance + amount)
			m.users.usersByID[userID] = user
		}
	}
	return true, nil
}
