package domain

// Tier es una de las cinco clases de dificultad que ordenan las misiones.
// El tier es un campo explicito de la pregunta; nunca se infiere del id.
type Tier string

const (
	TierEasy       Tier = "EASY"
	TierNormal     Tier = "NORMAL"
	TierHard       Tier = "HARD"
	TierMega       Tier = "MEGA"
	TierImpossible Tier = "IMPOSSIBLE"
)

// TierChain devuelve los tiers en su orden de desbloqueo.
func TierChain() []Tier {
	return []Tier{TierEasy, TierNormal, TierHard, TierMega, TierImpossible}
}

// Label devuelve el nombre del tier tal como lo muestra la UI (pt-BR).
func (t Tier) Label() string {
	switch t {
	case TierNormal:
		return "Normal"
	case TierHard:
		return "Difícil"
	case TierMega:
		return "Mega Difícil"
	case TierImpossible:
		return "Impossível"
	default:
		return "Fácil"
	}
}

// PluralLabel es la forma plural usada en los mensajes de bloqueo.
func (t Tier) PluralLabel() string {
	switch t {
	case TierNormal:
		return "Normais"
	case TierHard:
		return "Difíceis"
	case TierMega:
		return "Mega Difíceis"
	case TierImpossible:
		return "Impossíveis"
	default:
		return "Fáceis"
	}
}

// Question es una mision del banco estatico. Inmutable para el core; las
// opciones solo se reordenan en la copia que se presenta al jugador.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"-"`
	Points        int64    `json:"points"`
	XPReward      int      `json:"xp_reward"`
	TimeLimit     int      `json:"time_limit"`
	Category      string   `json:"category"`
	Tier          Tier     `json:"tier"`
}

// TierStatus es el estado derivado de bloqueo de un tier; se recalcula en
// cada consulta, nunca se persiste.
type TierStatus struct {
	IsLocked bool   `json:"is_locked"`
	Reason   string `json:"reason,omitempty"`
}
