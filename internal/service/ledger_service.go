package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"vision-rewards/internal/domain"
	"vision-rewards/internal/email"
	"vision-rewards/internal/repository"
)

var (
	ErrInsufficientPoints  = errors.New("insufficient points")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid withdrawal amount")
	ErrInvalidTransition   = errors.New("invalid transaction transition")
)

// LedgerService aplica las reglas de saldo y puntos y deja cada movimiento
// en el libro mayor. Toda precondicion se valida antes de mutar: un fallo
// nunca deja la cuenta a medio actualizar.
type LedgerService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	txs         repository.TransactionRepository
	locks       *UserLocks
	emailSender email.Sender
	adminEmail  string
}

func NewLedgerService(
	logger *zap.Logger,
	users repository.UserRepository,
	txs repository.TransactionRepository,
	locks *UserLocks,
	emailSender email.Sender,
	adminEmail string,
) *LedgerService {
	return &LedgerService{
		logger:      logger,
		users:       users,
		txs:         txs,
		locks:       locks,
		emailSender: emailSender,
		adminEmail:  adminEmail,
	}
}

// ConvertPoints convierte puntos a saldo a la tasa fija. La conversion es
// self-service: la transaccion nace ya aprobada.
func (s *LedgerService) ConvertPoints(ctx context.Context, userID string, points int64) (domain.Transaction, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.Transaction{}, mapNoRows(err)
	}
	if points <= 0 || user.Points < points {
		return domain.Transaction{}, ErrInsufficientPoints
	}

	money := domain.RoundBRL(float64(points) * domain.PointsToBRLRate)
	user.Points -= points
	user.Balance = domain.RoundBRL(user.Balance + money)
	if err := s.users.UpdateEconomy(ctx, user); err != nil {
		return domain.Transaction{}, err
	}

	tx := domain.Transaction{
		ID:           uuid.NewString(),
		UserID:       userID,
		Type:         domain.TransactionConversion,
		AmountPoints: points,
		AmountMoney:  money,
		Status:       domain.StatusApproved,
		Date:         time.Now().UTC(),
	}
	if err := s.txs.Create(ctx, tx); err != nil {
		return domain.Transaction{}, err
	}

	s.logger.Info("points converted",
		zap.String("user_id", userID),
		zap.Int64("points", points),
		zap.Float64("money", money),
	)
	return tx, nil
}

// RequestWithdrawal descuenta el monto completo del saldo y deja el pedido
// en analisis. La comision se registra para auditoria; el usuario la paga
// por fuera, no se descuenta aca.
func (s *LedgerService) RequestWithdrawal(ctx context.Context, userID string, amount float64, pixKey string) (domain.Transaction, error) {
	if !domain.ValidWithdrawalAmount(amount) {
		return domain.Transaction{}, ErrInvalidAmount
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.Transaction{}, mapNoRows(err)
	}
	if user.Balance < amount {
		return domain.Transaction{}, ErrInsufficientBalance
	}

	user.Balance = domain.RoundBRL(user.Balance - amount)
	if err := s.users.UpdateEconomy(ctx, user); err != nil {
		return domain.Transaction{}, err
	}

	tx := domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        domain.TransactionWithdrawal,
		AmountMoney: amount,
		PixKey:      pixKey,
		Fee:         domain.RoundBRL(amount * domain.WithdrawalFeeRate(user.Plan)),
		Status:      domain.StatusAnalysis,
		Date:        time.Now().UTC(),
	}
	if err := s.txs.Create(ctx, tx); err != nil {
		return domain.Transaction{}, err
	}

	if s.emailSender != nil && s.adminEmail != "" {
		if err := s.emailSender.SendWithdrawalAlert(ctx, s.adminEmail, tx); err != nil {
			s.logger.Warn("withdrawal alert failed", zap.Error(err), zap.String("tx_id", tx.ID))
		}
	}

	s.logger.Info("withdrawal requested",
		zap.String("user_id", userID),
		zap.Float64("amount", amount),
		zap.Float64("fee", tx.Fee),
	)
	return tx, nil
}

// ApproveWithdrawal transiciona ANALYSIS→APPROVED. El saldo ya fue
// descontado al pedir el saque, asi que no hay movimiento de dinero.
func (s *LedgerService) ApproveWithdrawal(ctx context.Context, txID string) error {
	tx, err := s.withdrawalByID(ctx, txID)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(tx.UserID)
	defer unlock()

	ok, err := s.txs.UpdateStatusIf(ctx, txID, domain.StatusAnalysis, domain.StatusApproved)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidTransition
	}

	s.logger.Info("withdrawal approved", zap.String("tx_id", txID))
	return nil
}

// RejectWithdrawal transiciona ANALYSIS→REJECTED y reembolsa el monto al
// saldo del usuario. Ambas escrituras van en una sola transaccion de base:
// un fallo no deja el rechazo sin reembolso, y la guarda condicional
// garantiza exactamente un reembolso aunque el rechazo se repita.
func (s *LedgerService) RejectWithdrawal(ctx context.Context, txID string) error {
	tx, err := s.withdrawalByID(ctx, txID)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(tx.UserID)
	defer unlock()

	ok, err := s.txs.RejectAndRefund(ctx, txID, tx.UserID, tx.AmountMoney)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidTransition
	}

	s.logger.Info("withdrawal rejected and refunded",
		zap.String("tx_id", txID),
		zap.Float64("refund", tx.AmountMoney),
	)
	return nil
}

// ConfirmExternalApproval es el punto de reanudacion de la señal externa de
// pago/verificacion: un saque aprobado pasa a pagado cuando el comprobante
// se acepta; si se niega mientras sigue en analisis, aplica el rechazo con
// reembolso.
func (s *LedgerService) ConfirmExternalApproval(ctx context.Context, txID string, accepted bool) error {
	if !accepted {
		err := s.RejectWithdrawal(ctx, txID)
		if errors.Is(err, ErrInvalidTransition) {
			// Ya salio de analisis; la señal negativa llega tarde y no
			// revierte fondos que dejaron la custodia del usuario.
			return nil
		}
		return err
	}

	tx, err := s.withdrawalByID(ctx, txID)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(tx.UserID)
	defer unlock()

	ok, err := s.txs.UpdateStatusIf(ctx, txID, domain.StatusApproved, domain.StatusPaid)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidTransition
	}

	s.logger.Info("withdrawal paid", zap.String("tx_id", txID))
	return nil
}

// PurchaseSubscription activa el plan de inmediato (el acceso se concede
// antes de la verificacion externa del pago) y registra la compra como
// pagada al precio fijo del plan.
func (s *LedgerService) PurchaseSubscription(ctx context.Context, userID string, plan domain.Plan) (domain.Transaction, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.Transaction{}, mapNoRows(err)
	}

	user.Plan = plan
	if err := s.users.UpdateEconomy(ctx, user); err != nil {
		return domain.Transaction{}, err
	}

	price := domain.PlanPrice(plan)
	if price == 0 {
		return domain.Transaction{}, nil
	}

	tx := domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        domain.TransactionSubscription,
		AmountMoney: price,
		Status:      domain.StatusPaid,
		Date:        time.Now().UTC(),
	}
	if err := s.txs.Create(ctx, tx); err != nil {
		return domain.Transaction{}, err
	}

	s.logger.Info("subscription purchased",
		zap.String("user_id", userID),
		zap.String("plan", string(plan)),
		zap.Float64("price", price),
	)
	return tx, nil
}

// Transactions lista los movimientos del usuario, mas reciente primero.
func (s *LedgerService) Transactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	return s.txs.ListByUser(ctx, userID)
}

// Withdrawals lista todos los saques para la revision admin.
func (s *LedgerService) Withdrawals(ctx context.Context) ([]domain.Transaction, error) {
	return s.txs.ListWithdrawals(ctx)
}

func (s *LedgerService) withdrawalByID(ctx context.Context, txID string) (domain.Transaction, error) {
	tx, err := s.txs.GetByID(ctx, txID)
	if err != nil {
		return domain.Transaction{}, mapNoRows(err)
	}
	if tx.Type != domain.TransactionWithdrawal {
		return domain.Transaction{}, ErrInvalidTransition
	}
	return tx, nil
}

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
