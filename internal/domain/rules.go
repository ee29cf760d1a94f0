package domain

import "math"

// Reglas economicas y de progresion del juego. Los valores replican las
// reglas de producto vigentes; cambiarlos altera la economia completa.
const (
	// Conversion: 1000 puntos = R$ 1,00.
	PointsToBRLRate = 0.001

	// Comision de saque por plan (se registra, no se descuenta del saldo).
	WithdrawalFeeFree    = 0.25
	WithdrawalFeePremium = 0.20

	// Limite diario de preguntas por plan.
	DailyQuestionLimitFree        = 7
	DailyQuestionLimitPremium     = 15
	DailyQuestionLimitDarkPremium = 100

	// Nivelacion.
	XPPerLevel          = 1000
	BonusPointsPerLevel = 1
	MaxLevel            = 100

	// Hitos de misiones y de nivel.
	MissionMilestoneStep     = 5
	XPRewardMissionMilestone = 100
	LevelMilestoneStep       = 5
	XPRewardLevelMilestone   = 400

	// Precios de suscripcion en BRL.
	PremiumPrice     = 19.90
	DarkPremiumPrice = 50.00

	PaymentLinkBase = "https://link.mercadopago.com.br/visionapps"
)

// WithdrawalOptions son los montos de saque permitidos, en BRL.
var WithdrawalOptions = []float64{10, 15, 20, 25, 30, 50}

// LoyaltyMilestone es un premio unico por dias distintos de login.
type LoyaltyMilestone struct {
	Days   int
	Points int64
	XP     int
}

// LoyaltyMilestones se evaluan por coincidencia exacta del contador de dias.
var LoyaltyMilestones = []LoyaltyMilestone{
	{Days: 7, Points: 150, XP: 1500},
	{Days: 15, Points: 150, XP: 1500},
	{Days: 30, Points: 150, XP: 1500},
}

// TierRule define cuantas preguntas tiene un tier, cuanto paga cada una y
// cuantos dias de uso exige su desbloqueo.
type TierRule struct {
	Count        int
	Points       int64
	XP           int
	TimeLimit    int
	DaysRequired int
}

// TierRules encadena los cinco tiers; el desbloqueo de cada uno depende del
// inmediatamente anterior.
var TierRules = map[Tier]TierRule{
	TierEasy:       {Count: 50, Points: 10, XP: 50, TimeLimit: 15, DaysRequired: 0},
	TierNormal:     {Count: 40, Points: 30, XP: 100, TimeLimit: 20, DaysRequired: 15},
	TierHard:       {Count: 30, Points: 100, XP: 200, TimeLimit: 30, DaysRequired: 30},
	TierMega:       {Count: 15, Points: 300, XP: 500, TimeLimit: 45, DaysRequired: 45},
	TierImpossible: {Count: 7, Points: 1000, XP: 1500, TimeLimit: 10, DaysRequired: 60},
}

// WithdrawalFeeRate devuelve la tasa de comision segun el plan.
func WithdrawalFeeRate(p Plan) float64 {
	if p == PlanPremium || p == PlanDarkPremium {
		return WithdrawalFeePremium
	}
	return WithdrawalFeeFree
}

// DailyQuestionLimit devuelve el tope diario de preguntas segun el plan.
func DailyQuestionLimit(p Plan) int {
	switch p {
	case PlanDarkPremium:
		return DailyQuestionLimitDarkPremium
	case PlanPremium:
		return DailyQuestionLimitPremium
	default:
		return DailyQuestionLimitFree
	}
}

// PlanPrice devuelve el precio fijo del plan (0 para FREE).
func PlanPrice(p Plan) float64 {
	switch p {
	case PlanPremium:
		return PremiumPrice
	case PlanDarkPremium:
		return DarkPremiumPrice
	default:
		return 0
	}
}

// RoundBRL redondea a centavos; todo monto que toca el saldo pasa por aca.
func RoundBRL(v float64) float64 {
	return math.Round(v*100) / 100
}

// ValidWithdrawalAmount verifica que el monto sea una opcion permitida.
func ValidWithdrawalAmount(amount float64) bool {
	for _, opt := range WithdrawalOptions {
		if amount == opt {
			return true
		}
	}
	return false
}
