package service

import "vision-rewards/internal/domain"

// ProgressionResult es el resultado de aplicar XP a un usuario.
type ProgressionResult struct {
	Level int
	XP    int
	// TotalXPEarned incluye el delta original mas los bonus de hito que se
	// dispararon durante la nivelacion; es la cifra que ve el jugador.
	TotalXPEarned int
	LeveledUp     bool
}

// ApplyXP suma el delta y resuelve las subidas de nivel en un loop acotado.
// Un bonus de hito de nivel puede volver a superar XPPerLevel y encadenar
// mas subidas dentro de la misma llamada; el tope de nivel 100 garantiza la
// terminacion. Funcion pura: no toca estado compartido.
func ApplyXP(level, xp, delta int) ProgressionResult {
	result := ProgressionResult{
		Level:         level,
		XP:            xp + delta,
		TotalXPEarned: delta,
	}

	for result.XP >= domain.XPPerLevel && result.Level < domain.MaxLevel {
		result.XP -= domain.XPPerLevel
		result.Level++
		result.LeveledUp = true
		if result.Level%domain.LevelMilestoneStep == 0 {
			result.XP += domain.XPRewardLevelMilestone
			result.TotalXPEarned += domain.XPRewardLevelMilestone
		}
	}
	return result
}

// AnswerPoints calcula los puntos de una respuesta correcta: base de la
// pregunta mas el bonus por nivel, con el nivel vigente ANTES de aplicar el
// XP de esta misma respuesta.
func AnswerPoints(q domain.Question, level int) int64 {
	bonus := int64(level-1) * domain.BonusPointsPerLevel
	if bonus < 0 {
		bonus = 0
	}
	return q.Points + bonus
}

// MissionMilestoneXP devuelve el bonus de XP si la cantidad de misiones
// exitosas acaba de alcanzar un hito, o 0 si no.
func MissionMilestoneXP(successfulMissions int) int {
	if successfulMissions > 0 && successfulMissions%domain.MissionMilestoneStep == 0 {
		return domain.XPRewardMissionMilestone
	}
	return 0
}
