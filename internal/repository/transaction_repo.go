package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vision-rewards/internal/domain"
)

// TransactionRepository define el contrato de persistencia del libro mayor.
// Las transacciones son append-only; solo el status transiciona, y siempre
// de forma condicional para que las operaciones admin sean idempotentes.
type TransactionRepository interface {
	Create(ctx context.Context, tx domain.Transaction) error
	GetByID(ctx context.Context, id string) (domain.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error)
	ListWithdrawals(ctx context.Context) ([]domain.Transaction, error)
	UpdateStatusIf(ctx context.Context, id string, from, to domain.TransactionStatus) (bool, error)
	RejectAndRefund(ctx context.Context, id, userID string, amount float64) (bool, error)
}

// PgTransactionRepository implementa TransactionRepository usando pgxpool.
type PgTransactionRepository struct {
	pool *pgxpool.Pool
}

func NewPgTransactionRepository(pool *pgxpool.Pool) *PgTransactionRepository {
	return &PgTransactionRepository{pool: pool}
}

const transactionColumns = `
	id, user_id, type, amount_points, amount_money, pix_key, fee, status, date
`

func (r *PgTransactionRepository) Create(ctx context.Context, tx domain.Transaction) error {
	const query = `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		tx.ID,
		tx.UserID,
		tx.Type,
		tx.AmountPoints,
		tx.AmountMoney,
		tx.PixKey,
		tx.Fee,
		tx.Status,
		tx.Date,
	)
	return err
}

func (r *PgTransactionRepository) GetByID(ctx context.Context, id string) (domain.Transaction, error) {
	const query = `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTransaction(row)
}

func (r *PgTransactionRepository) ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	const query = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *PgTransactionRepository) ListWithdrawals(ctx context.Context) ([]domain.Transaction, error) {
	const query = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE type = $1
		ORDER BY date DESC
	`
	rows, err := r.pool.Query(ctx, query, domain.TransactionWithdrawal)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// UpdateStatusIf transiciona el status solo si el actual coincide con from y
// reporta si la transicion ocurrio. Es la guarda contra dobles reembolsos.
func (r *PgTransactionRepository) UpdateStatusIf(ctx context.Context, id string, from, to domain.TransactionStatus) (bool, error) {
	const query = `UPDATE transactions SET status = $3 WHERE id = $1 AND status = $2`
	tag, err := r.pool.Exec(ctx, query, id, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// RejectAndRefund transiciona ANALYSIS→REJECTED y reembolsa el monto al
// saldo del usuario en una sola transaccion de base: o ambas escrituras
// quedan o ninguna. Devuelve false sin efectos si el status ya cambio.
func (r *PgTransactionRepository) RejectAndRefund(ctx context.Context, id, userID string, amount float64) (bool, error) {
	dbTx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer dbTx.Rollback(ctx)

	tag, err := dbTx.Exec(ctx,
		`UPDATE transactions SET status = $3 WHERE id = $1 AND status = $2`,
		id, domain.StatusAnalysis, domain.StatusRejected,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	tag, err = dbTx.Exec(ctx,
		`UPDATE users SET balance = round((balance + $2)::numeric, 2) WHERE id = $1`,
		userID, amount,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, pgx.ErrNoRows
	}

	return true, dbTx.Commit(ctx)
}

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var tx domain.Transaction
	err := row.Scan(
		&tx.ID,
		&tx.UserID,
		&tx.Type,
		&tx.AmountPoints,
		&tx.AmountMoney,
		&tx.PixKey,
		&tx.Fee,
		&tx.Status,
		&tx.Date,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Transaction{}, err
	}
	return tx, err
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
