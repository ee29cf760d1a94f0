package service

import (
	"fmt"
	"math/rand"

	"vision-rewards/internal/domain"
)

// QuestionBank es el banco inmutable de preguntas, generado una sola vez al
// arrancar el proceso. El core solo lo lee.
type QuestionBank struct {
	questions []domain.Question
	byID      map[string]domain.Question
	byTier    map[domain.Tier][]domain.Question
}

// NewQuestionBank genera el contenido placeholder por tier segun las reglas
// de producto (50/40/30/15/7 preguntas).
func NewQuestionBank() *QuestionBank {
	bank := &QuestionBank{
		byID:   make(map[string]domain.Question),
		byTier: make(map[domain.Tier][]domain.Question),
	}

	for _, tier := range domain.TierChain() {
		rule := domain.TierRules[tier]
		for i := 1; i <= rule.Count; i++ {
			q := generateQuestion(tier, rule, i)
			bank.questions = append(bank.questions, q)
			bank.byID[q.ID] = q
			bank.byTier[tier] = append(bank.byTier[tier], q)
		}
	}
	return bank
}

func generateQuestion(tier domain.Tier, rule domain.TierRule, i int) domain.Question {
	q := domain.Question{
		ID:        fmt.Sprintf("%s_%d", tier, i),
		Points:    rule.Points,
		XPReward:  rule.XP,
		TimeLimit: rule.TimeLimit,
		Tier:      tier,
	}
	switch tier {
	case domain.TierNormal:
		q.Text = fmt.Sprintf("Pergunta Normal #%d: Qual a capital do país imaginário %d?", i, i)
		q.Options = []string{"Cidade A", "Cidade B", fmt.Sprintf("Capital %d", i), "Cidade D"}
		q.CorrectAnswer = 2
		q.Category = "Geografia"
	case domain.TierHard:
		q.Text = fmt.Sprintf("Pergunta Difícil #%d: Resolva a equação complexa %dx + 10 = 20.", i, i)
		q.Options = []string{"x=10", "x=5", "x=1", "x=0"}
		q.CorrectAnswer = 0
		q.Category = "Matemática"
	case domain.TierMega:
		q.Text = fmt.Sprintf("Desafio Mega Difícil #%d: Teoria Quântica aplicada ao caso %d.", i, i)
		q.Options = []string{"Opção Alpha", "Opção Beta", "Opção Gamma", "Opção Delta"}
		q.CorrectAnswer = 1
		q.Category = "Ciência Avançada"
	case domain.TierImpossible:
		q.Text = fmt.Sprintf("Missão Impossível #%d: O segredo do universo número %d.", i, i)
		q.Options = []string{"42", "Nada", "Tudo", "Infinito"}
		q.CorrectAnswer = 0
		q.Category = "Desafio Supremo"
	default:
		q.Text = fmt.Sprintf("Pergunta Fácil #%d: Quanto é %d + %d?", i, i, i)
		q.Options = []string{
			fmt.Sprintf("%d", i+i),
			fmt.Sprintf("%d", i+i+1),
			fmt.Sprintf("%d", i+i-1),
			fmt.Sprintf("%d", i*2+2),
		}
		q.CorrectAnswer = 0
		q.Category = "Geral"
	}
	return q
}

// All devuelve todas las preguntas en orden de generacion.
func (b *QuestionBank) All() []domain.Question {
	return b.questions
}

// ByID busca una pregunta por id.
func (b *QuestionBank) ByID(id string) (domain.Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// ByTier devuelve las preguntas de un tier.
func (b *QuestionBank) ByTier(tier domain.Tier) []domain.Question {
	return b.byTier[tier]
}

// Total es la cantidad de preguntas del banco completo.
func (b *QuestionBank) Total() int {
	return len(b.questions)
}

// CountAnsweredInTier cuenta cuantas preguntas del tier ya fueron
// respondidas por el usuario.
func (b *QuestionBank) CountAnsweredInTier(tier domain.Tier, answered []string) int {
	set := make(map[string]struct{}, len(answered))
	for _, id := range answered {
		set[id] = struct{}{}
	}
	count := 0
	for _, q := range b.byTier[tier] {
		if _, ok := set[q.ID]; ok {
			count++
		}
	}
	return count
}

// ShuffleOptions devuelve una copia de la pregunta con las opciones
// reordenadas (Fisher-Yates) y el indice correcto remapeado. El original
// del banco no se toca.
func ShuffleOptions(q domain.Question) domain.Question {
	indices := make([]int, len(q.Options))
	for i := range indices {
		indices[i] = i
	}
	for i := len(indices) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		indices[i], indices[j] = indices[j], indices[i]
	}

	shuffled := q
	shuffled.Options = make([]string, len(q.Options))
	for pos, orig := range indices {
		shuffled.Options[pos] = q.Options[orig]
		if orig == q.CorrectAnswer {
			shuffled.CorrectAnswer = pos
		}
	}
	return shuffled
}
