package service

import (
	"testing"

	"vision-rewards/internal/domain"
)

func TestApplyXP_SimpleLevelUp(t *testing.T) {
	res := ApplyXP(1, 950, 100)

	if !res.LeveledUp {
		t.Fatal("expected level up")
	}
	if res.Level != 2 {
		t.Fatalf("expected level 2, got %d", res.Level)
	}
	if res.XP != 50 {
		t.Fatalf("expected 50 xp remaining, got %d", res.XP)
	}
	if res.TotalXPEarned != 100 {
		t.Fatalf("expected total xp 100, got %d", res.TotalXPEarned)
	}
}

func TestApplyXP_NoLevelUp(t *testing.T) {
	res := ApplyXP(3, 100, 200)

	if res.LeveledUp {
		t.Fatal("unexpected level up")
	}
	if res.Level != 3 || res.XP != 300 {
		t.Fatalf("expected level 3 / 300 xp, got %d / %d", res.Level, res.XP)
	}
}

func TestApplyXP_LevelMilestoneBonus(t *testing.T) {
	// Al llegar al nivel 5 se acreditan 400 XP extra dentro de la misma
	// llamada.
	res := ApplyXP(4, 900, 100)

	if res.Level != 5 {
		t.Fatalf("expected level 5, got %d", res.Level)
	}
	if res.XP != 400 {
		t.Fatalf("expected 400 xp after milestone bonus, got %d", res.XP)
	}
	if res.TotalXPEarned != 500 {
		t.Fatalf("expected total xp 500, got %d", res.TotalXPEarned)
	}
}

func TestApplyXP_MilestoneBonusChainsLevels(t *testing.T) {
	// Un delta grande cruza varios niveles; los bonus de hito se suman al
	// remanente y pueden encadenar subidas adicionales.
	res := ApplyXP(1, 0, 5200)

	if res.Level < 6 {
		t.Fatalf("expected at least level 6, got %d", res.Level)
	}
	if res.XP < 0 || res.XP >= domain.XPPerLevel {
		t.Fatalf("xp out of range: %d", res.XP)
	}
	if !res.LeveledUp {
		t.Fatal("expected level up")
	}
}

func TestApplyXP_MaxLevelCap(t *testing.T) {
	res := ApplyXP(domain.MaxLevel, 0, 100000)

	if res.Level != domain.MaxLevel {
		t.Fatalf("expected level capped at %d, got %d", domain.MaxLevel, res.Level)
	}
	if res.LeveledUp {
		t.Fatal("capped level must not report level up")
	}
}

func TestApplyXP_XPStaysBelowThresholdUnlessCapped(t *testing.T) {
	for _, delta := range []int{0, 1, 999, 1000, 1001, 4999, 12345} {
		res := ApplyXP(1, 0, delta)
		if res.Level < domain.MaxLevel && res.XP >= domain.XPPerLevel {
			t.Fatalf("delta %d: xp %d exceeds threshold at level %d", delta, res.XP, res.Level)
		}
	}
}

func TestAnswerPoints_LevelBonus(t *testing.T) {
	q := domain.Question{Points: 10}

	if got := AnswerPoints(q, 1); got != 10 {
		t.Fatalf("level 1: expected 10, got %d", got)
	}
	if got := AnswerPoints(q, 7); got != 16 {
		t.Fatalf("level 7: expected 16, got %d", got)
	}
}

func TestMissionMilestoneXP(t *testing.T) {
	if got := MissionMilestoneXP(5); got != domain.XPRewardMissionMilestone {
		t.Fatalf("expected milestone bonus at 5 missions, got %d", got)
	}
	if got := MissionMilestoneXP(4); got != 0 {
		t.Fatalf("expected no bonus at 4 missions, got %d", got)
	}
	if got := MissionMilestoneXP(0); got != 0 {
		t.Fatalf("expected no bonus at 0 missions, got %d", got)
	}
}
