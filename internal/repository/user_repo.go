package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vision-rewards/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
// Las actualizaciones post-registro tocan solo campos economicos: el PII
// cifrado y el hash de email quedan intactos de por vida.
type UserRepository interface {
	Create(ctx context.Context, user domain.StoredUser) error
	GetByID(ctx context.Context, id string) (domain.StoredUser, error)
	GetByEmailHash(ctx context.Context, emailHash string) (domain.StoredUser, error)
	UpdateEconomy(ctx context.Context, user domain.StoredUser) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `
	id, email_hash, encrypted_name, encrypted_email,
	points, balance, level, xp, plan,
	questions_answered_today, total_questions_answered, successful_missions,
	answered_question_ids, last_login, days_logged, created_at
`

func (r *PgUserRepository) Create(ctx context.Context, user domain.StoredUser) error {
	const query = `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.EmailHash,
		user.EncryptedName,
		user.EncryptedEmail,
		user.Points,
		user.Balance,
		user.Level,
		user.XP,
		user.Plan,
		user.QuestionsAnsweredToday,
		user.TotalQuestionsAnswered,
		user.SuccessfulMissions,
		user.AnsweredQuestionIDs,
		user.LastLogin,
		user.DaysLogged,
		user.CreatedAt,
	)
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.StoredUser, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetByEmailHash(ctx context.Context, emailHash string) (domain.StoredUser, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email_hash = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, emailHash))
}

// UpdateEconomy persiste el estado economico del usuario. La lista de
// columnas excluye a proposito encrypted_name, encrypted_email y email_hash.
func (r *PgUserRepository) UpdateEconomy(ctx context.Context, user domain.StoredUser) error {
	const query = `
		UPDATE users SET
			points = $2,
			balance = $3,
			level = $4,
			xp = $5,
			plan = $6,
			questions_answered_today = $7,
			total_questions_answered = $8,
			successful_missions = $9,
			answered_question_ids = $10,
			last_login = $11,
			days_logged = $12
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Points,
		user.Balance,
		user.Level,
		user.XP,
		user.Plan,
		user.QuestionsAnsweredToday,
		user.TotalQuestionsAnswered,
		user.SuccessfulMissions,
		user.AnsweredQuestionIDs,
		user.LastLogin,
		user.DaysLogged,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) scanUser(row pgx.Row) (domain.StoredUser, error) {
	var u domain.StoredUser
	err := row.Scan(
		&u.ID,
		&u.EmailHash,
		&u.EncryptedName,
		&u.EncryptedEmail,
		&u.Points,
		&u.Balance,
		&u.Level,
		&u.XP,
		&u.Plan,
		&u.QuestionsAnsweredToday,
		&u.TotalQuestionsAnswered,
		&u.SuccessfulMissions,
		&u.AnsweredQuestionIDs,
		&u.LastLogin,
		&u.DaysLogged,
		&u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.StoredUser{}, err
	}
	return u, err
}
