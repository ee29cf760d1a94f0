package domain

import "time"

// TransactionType clasifica los movimientos del libro mayor.
type TransactionType string

const (
	TransactionConversion   TransactionType = "CONVERSION"
	TransactionWithdrawal   TransactionType = "WITHDRAWAL"
	TransactionSubscription TransactionType = "SUBSCRIPTION"
)

// TransactionStatus es el ciclo de vida de una transaccion. Solo el status
// muta despues de creada; el resto del registro es inmutable.
type TransactionStatus string

const (
	StatusPending  TransactionStatus = "PENDING"
	StatusAnalysis TransactionStatus = "ANALYSIS"
	StatusApproved TransactionStatus = "APPROVED"
	StatusPaid     TransactionStatus = "PAID"
	StatusRejected TransactionStatus = "REJECTED"
)

// Transaction es una entrada append-only del libro mayor.
type Transaction struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id"`
	Type         TransactionType   `json:"type"`
	AmountPoints int64             `json:"amount_points,omitempty"`
	AmountMoney  float64           `json:"amount_money"`
	PixKey       string            `json:"pix_key,omitempty"`
	Fee          float64           `json:"fee,omitempty"`
	Status       TransactionStatus `json:"status"`
	Date         time.Time         `json:"date"`
}
