package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"vision-rewards/internal/domain"
	"vision-rewards/internal/repository"
)

var (
	ErrDailyLimitReached = errors.New("daily question limit reached")
	ErrTierLocked        = errors.New("tier locked")
	ErrQuestionAnswered  = errors.New("question already answered")
	ErrNoActiveMission   = errors.New("no active mission")
)

// AnswerResult es lo que ve el jugador despues de responder.
type AnswerResult struct {
	Correct      bool  `json:"correct"`
	PointsEarned int64 `json:"points_earned"`
	XPEarned     int   `json:"xp_earned"`
	LeveledUp    bool  `json:"leveled_up"`
	Level        int   `json:"level"`
	XP           int   `json:"xp"`
}

type activeMission struct {
	question domain.Question
	deadline time.Time
}

// SessionService orquesta el ciclo de juego por sesion: rollover diario en
// el login, misiones activas con vencimiento y aplicacion de respuestas
// sobre la progresion del usuario.
type SessionService struct {
	logger   *zap.Logger
	identity *IdentityService
	users    repository.UserRepository
	bank     *QuestionBank
	gate     *TierGate
	locks    *UserLocks

	missionsMu sync.Mutex
	missions   map[string]activeMission

	now func() time.Time
}

func NewSessionService(
	logger *zap.Logger,
	identity *IdentityService,
	users repository.UserRepository,
	bank *QuestionBank,
	gate *TierGate,
	locks *UserLocks,
) *SessionService {
	return &SessionService{
		logger:   logger,
		identity: identity,
		users:    users,
		bank:     bank,
		gate:     gate,
		locks:    locks,
		missions: make(map[string]activeMission),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Login autentica y aplica el rollover diario: en el primer login de un dia
// calendario distinto incrementa daysLogged, resetea el contador diario y
// acredita el hito de fidelidad si el nuevo total de dias coincide exacto.
func (s *SessionService) Login(ctx context.Context, emailAddr, password string) (domain.SessionUser, error) {
	session, err := s.identity.Authenticate(ctx, emailAddr, password)
	if err != nil {
		return domain.SessionUser{}, err
	}

	unlock := s.locks.Lock(session.ID)
	defer unlock()

	// El snapshot de Authenticate se leyo sin el lock; el rollover se aplica
	// sobre una relectura bajo el lock para no pisar mutaciones concurrentes.
	user, err := s.users.GetByID(ctx, session.ID)
	if err != nil {
		return domain.SessionUser{}, mapNoRows(err)
	}
	now := s.now()

	if !sameCalendarDay(user.LastLogin, now) {
		user.DaysLogged++
		user.QuestionsAnsweredToday = 0

		for _, m := range domain.LoyaltyMilestones {
			if m.Days == user.DaysLogged {
				user.Points += m.Points
				res := ApplyXP(user.Level, user.XP, m.XP)
				user.Level = res.Level
				user.XP = res.XP
				s.logger.Info("loyalty milestone credited",
					zap.String("user_id", user.ID),
					zap.Int("days", m.Days),
				)
				break
			}
		}
	}
	user.LastLogin = now

	if err := s.users.UpdateEconomy(ctx, user); err != nil {
		return domain.SessionUser{}, err
	}

	return domain.NewSessionView(user, session.Name, session.Email), nil
}

// StartMission valida cupo diario, gating de tier y deduplicacion, y deja
// registrada la mision activa con su vencimiento. Devuelve la copia con
// opciones barajadas que se presenta al jugador.
func (s *SessionService) StartMission(ctx context.Context, userID, questionID string) (domain.Question, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.Question{}, mapNoRows(err)
	}

	if user.QuestionsAnsweredToday >= domain.DailyQuestionLimit(user.Plan) {
		return domain.Question{}, ErrDailyLimitReached
	}

	q, ok := s.bank.ByID(questionID)
	if !ok {
		return domain.Question{}, ErrNotFound
	}
	if user.HasAnswered(q.ID) {
		return domain.Question{}, ErrQuestionAnswered
	}
	if s.gate.Statuses(user)[q.Tier].IsLocked {
		return domain.Question{}, ErrTierLocked
	}

	shuffled := ShuffleOptions(q)
	s.missionsMu.Lock()
	s.missions[userID] = activeMission{
		question: shuffled,
		deadline: s.now().Add(time.Duration(q.TimeLimit) * time.Second),
	}
	s.missionsMu.Unlock()

	return shuffled, nil
}

// AbandonMission descarta la mision activa sin efectos sobre la cuenta.
func (s *SessionService) AbandonMission(userID string) {
	s.missionsMu.Lock()
	delete(s.missions, userID)
	s.missionsMu.Unlock()
}

// SubmitAnswer resuelve la mision activa. Un indice fuera de rango o el
// vencimiento del tiempo cuentan como respuesta incorrecta. Los contadores
// diarios y totales suben siempre; puntos, XP, hitos y deduplicacion solo
// con respuesta correcta.
func (s *SessionService) SubmitAnswer(ctx context.Context, userID string, chosenIndex int) (AnswerResult, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	s.missionsMu.Lock()
	mission, ok := s.missions[userID]
	delete(s.missions, userID)
	s.missionsMu.Unlock()
	if !ok {
		return AnswerResult{}, ErrNoActiveMission
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return AnswerResult{}, mapNoRows(err)
	}

	expired := s.now().After(mission.deadline)
	correct := !expired && chosenIndex == mission.question.CorrectAnswer

	result := AnswerResult{Correct: correct}

	if correct {
		result.PointsEarned = AnswerPoints(mission.question, user.Level)
		user.Points += result.PointsEarned

		res := ApplyXP(user.Level, user.XP, mission.question.XPReward)
		result.XPEarned = res.TotalXPEarned
		result.LeveledUp = res.LeveledUp

		user.SuccessfulMissions++
		if bonus := MissionMilestoneXP(user.SuccessfulMissions); bonus > 0 {
			extra := ApplyXP(res.Level, res.XP, bonus)
			result.XPEarned += extra.TotalXPEarned
			result.LeveledUp = result.LeveledUp || extra.LeveledUp
			res = extra
		}
		user.Level = res.Level
		user.XP = res.XP

		if !user.HasAnswered(mission.question.ID) {
			user.AnsweredQuestionIDs = append(user.AnsweredQuestionIDs, mission.question.ID)
		}
	}

	user.QuestionsAnsweredToday++
	user.TotalQuestionsAnswered++

	// Banco completo: el progreso de misiones vuelve a cero y el contenido
	// se reabre para un ciclo nuevo.
	if len(user.AnsweredQuestionIDs) >= s.bank.Total() {
		user.AnsweredQuestionIDs = []string{}
		s.logger.Info("question bank completed, progress reset", zap.String("user_id", userID))
	}

	if err := s.users.UpdateEconomy(ctx, user); err != nil {
		return AnswerResult{}, err
	}

	result.Level = user.Level
	result.XP = user.XP
	return result, nil
}

// TierStatuses devuelve el estado de bloqueo derivado para el usuario.
func (s *SessionService) TierStatuses(ctx context.Context, userID string) (map[domain.Tier]domain.TierStatus, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return s.gate.Statuses(user), nil
}

// AvailableQuestions lista las preguntas presentables para el usuario.
func (s *SessionService) AvailableQuestions(ctx context.Context, userID string) ([]domain.Question, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return s.gate.Available(user), nil
}

// DailyRemaining devuelve cuantas preguntas quedan hoy segun el plan.
func (s *SessionService) DailyRemaining(ctx context.Context, userID string) (int, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return 0, mapNoRows(err)
	}
	remaining := domain.DailyQuestionLimit(user.Plan) - user.QuestionsAnsweredToday
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
