package service

import (
	"fmt"

	"vision-rewards/internal/domain"
)

// TierGate evalua el desbloqueo de cada tier. La cadena es estrictamente
// lineal y la evaluacion corta en el primer prerrequisito incumplido; el
// requisito de dias tiene precedencia en el motivo reportado.
type TierGate struct {
	bank           *QuestionBank
	adminEmailHash string
}

func NewTierGate(bank *QuestionBank, adminEmailHash string) *TierGate {
	return &TierGate{bank: bank, adminEmailHash: adminEmailHash}
}

// Statuses devuelve el estado de bloqueo de los cinco tiers para el usuario.
// La cuenta admin configurada ignora todo el gating; es un override por
// identidad, no por plan.
func (g *TierGate) Statuses(user domain.StoredUser) map[domain.Tier]domain.TierStatus {
	statuses := make(map[domain.Tier]domain.TierStatus, len(domain.TierChain()))

	if g.adminEmailHash != "" && user.EmailHash == g.adminEmailHash {
		for _, tier := range domain.TierChain() {
			statuses[tier] = domain.TierStatus{IsLocked: false}
		}
		return statuses
	}

	chain := domain.TierChain()
	for i, tier := range chain {
		if i == 0 {
			statuses[tier] = domain.TierStatus{IsLocked: false}
			continue
		}

		rule := domain.TierRules[tier]
		prev := chain[i-1]
		prevRule := domain.TierRules[prev]

		switch {
		case user.DaysLogged < rule.DaysRequired:
			statuses[tier] = domain.TierStatus{
				IsLocked: true,
				Reason:   fmt.Sprintf("Requer %d dias de uso. (Você tem %d)", rule.DaysRequired, user.DaysLogged),
			}
		case statuses[prev].IsLocked:
			statuses[tier] = domain.TierStatus{
				IsLocked: true,
				Reason:   fmt.Sprintf("Complete todas as missões %s", prev.PluralLabel()),
			}
		default:
			answered := g.bank.CountAnsweredInTier(prev, user.AnsweredQuestionIDs)
			if answered < prevRule.Count {
				statuses[tier] = domain.TierStatus{
					IsLocked: true,
					Reason:   fmt.Sprintf("Complete todas as missões %s (%d/%d)", prev.PluralLabel(), answered, prevRule.Count),
				}
			} else {
				statuses[tier] = domain.TierStatus{IsLocked: false}
			}
		}
	}
	return statuses
}

// Available filtra las preguntas presentables: tier desbloqueado y pregunta
// nunca respondida.
func (g *TierGate) Available(user domain.StoredUser) []domain.Question {
	statuses := g.Statuses(user)
	answered := make(map[string]struct{}, len(user.AnsweredQuestionIDs))
	for _, id := range user.AnsweredQuestionIDs {
		answered[id] = struct{}{}
	}

	var available []domain.Question
	for _, q := range g.bank.All() {
		if statuses[q.Tier].IsLocked {
			continue
		}
		if _, done := answered[q.ID]; done {
			continue
		}
		available = append(available, q)
	}
	return available
}
