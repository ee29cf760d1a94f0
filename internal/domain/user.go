package domain

import "time"

// Plan identifica el plan de suscripcion del usuario.
type Plan string

const (
	PlanFree        Plan = "FREE"
	PlanPremium     Plan = "PREMIUM"
	PlanDarkPremium Plan = "DARK_PREMIUM"
)

// Label devuelve el nombre del plan tal como lo muestra la UI (pt-BR).
func (p Plan) Label() string {
	switch p {
	case PlanPremium:
		return "Premium"
	case PlanDarkPremium:
		return "Dark Premium"
	default:
		return "Gratuito"
	}
}

// StoredUser es el registro tal como vive en la base: el email existe solo
// como hash de busqueda y el nombre/email recuperables solo como ciphertext.
// Ningun campo PII en claro se persiste nunca.
type StoredUser struct {
	ID                     string    `json:"id"`
	EmailHash              string    `json:"-"`
	EncryptedName          string    `json:"-"`
	EncryptedEmail         string    `json:"-"`
	Points                 int64     `json:"points"`
	Balance                float64   `json:"balance"`
	Level                  int       `json:"level"`
	XP                     int       `json:"xp"`
	Plan                   Plan      `json:"plan"`
	QuestionsAnsweredToday int       `json:"questions_answered_today"`
	TotalQuestionsAnswered int       `json:"total_questions_answered"`
	SuccessfulMissions     int       `json:"successful_missions"`
	AnsweredQuestionIDs    []string  `json:"answered_question_ids"`
	LastLogin              time.Time `json:"last_login"`
	DaysLogged             int       `json:"days_logged"`
	CreatedAt              time.Time `json:"created_at"`
}

// HasAnswered indica si el usuario ya respondio la pregunta dada.
func (u StoredUser) HasAnswered(questionID string) bool {
	for _, id := range u.AnsweredQuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

// SessionUser es la proyeccion en claro de un StoredUser, valida solo durante
// la sesion autenticada: nombre y email vienen del caller o del descifrado,
// nunca del almacenamiento.
type SessionUser struct {
	StoredUser
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewSessionView arma la vista de sesion fusionando el registro almacenado
// con el PII en claro. Es el unico punto de mezcla entre ambas
// representaciones; la escritura inversa no existe.
func NewSessionView(stored StoredUser, name, email string) SessionUser {
	return SessionUser{
		StoredUser: stored,
		Name:       name,
		Email:      email,
	}
}
