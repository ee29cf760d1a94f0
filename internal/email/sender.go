package email

import (
	"context"
	"errors"

	"vision-rewards/internal/domain"
)

// Sender define la interfaz para avisos por correo al administrador. Es el
// unico destinatario posible: los emails de usuarios solo existen cifrados.
type Sender interface {
	SendWithdrawalAlert(ctx context.Context, toEmail string, tx domain.Transaction) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendWithdrawalAlert(_ context.Context, _ string, _ domain.Transaction) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
