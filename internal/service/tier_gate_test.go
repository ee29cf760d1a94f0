package service

import (
	"fmt"
	"strings"
	"testing"

	"vision-rewards/internal/domain"
)

func answeredIDs(bank *QuestionBank, tier domain.Tier, n int) []string {
	qs := bank.ByTier(tier)
	ids := make([]string, 0, n)
	for i := 0; i < n && i < len(qs); i++ {
		ids = append(ids, qs[i].ID)
	}
	return ids
}

func TestTierGate_EasyAlwaysUnlocked(t *testing.T) {
	gate := NewTierGate(NewQuestionBank(), "")
	statuses := gate.Statuses(domain.StoredUser{DaysLogged: 1})

	if statuses[domain.TierEasy].IsLocked {
		t.Fatal("easy tier must never be locked")
	}
	for _, tier := range []domain.Tier{domain.TierNormal, domain.TierHard, domain.TierMega, domain.TierImpossible} {
		if !statuses[tier].IsLocked {
			t.Fatalf("tier %s should be locked for a fresh account", tier)
		}
	}
}

func TestTierGate_DaysReasonTakesPrecedence(t *testing.T) {
	bank := NewQuestionBank()
	gate := NewTierGate(bank, "")

	// Easy completo pero sin los dias: el motivo reportado es el de dias.
	user := domain.StoredUser{
		DaysLogged:          14,
		AnsweredQuestionIDs: answeredIDs(bank, domain.TierEasy, 50),
	}
	status := gate.Statuses(user)[domain.TierNormal]

	if !status.IsLocked {
		t.Fatal("normal tier should be locked at 14 days")
	}
	want := "Requer 15 dias de uso. (Você tem 14)"
	if status.Reason != want {
		t.Fatalf("expected reason %q, got %q", want, status.Reason)
	}
}

func TestTierGate_CompletionReasonWithProgress(t *testing.T) {
	bank := NewQuestionBank()
	gate := NewTierGate(bank, "")

	user := domain.StoredUser{
		DaysLogged:          20,
		AnsweredQuestionIDs: answeredIDs(bank, domain.TierEasy, 30),
	}
	status := gate.Statuses(user)[domain.TierNormal]

	if !status.IsLocked {
		t.Fatal("normal tier should be locked with easy incomplete")
	}
	if !strings.Contains(status.Reason, "(30/50)") {
		t.Fatalf("expected progress (30/50) in reason, got %q", status.Reason)
	}
}

func TestTierGate_UnlocksWhenPrerequisitesMet(t *testing.T) {
	bank := NewQuestionBank()
	gate := NewTierGate(bank, "")

	user := domain.StoredUser{
		DaysLogged:          15,
		AnsweredQuestionIDs: answeredIDs(bank, domain.TierEasy, 50),
	}
	statuses := gate.Statuses(user)

	if statuses[domain.TierNormal].IsLocked {
		t.Fatalf("normal tier should unlock, reason: %q", statuses[domain.TierNormal].Reason)
	}
	if !statuses[domain.TierHard].IsLocked {
		t.Fatal("hard tier should stay locked")
	}
}

func TestTierGate_ChainIsMonotonic(t *testing.T) {
	bank := NewQuestionBank()
	gate := NewTierGate(bank, "")

	// Hard completo jamas desbloquea Mega si Normal sigue bloqueado.
	user := domain.StoredUser{
		DaysLogged:          60,
		AnsweredQuestionIDs: answeredIDs(bank, domain.TierHard, 30),
	}
	statuses := gate.Statuses(user)

	chain := domain.TierChain()
	locked := false
	for _, tier := range chain {
		if locked && !statuses[tier].IsLocked {
			t.Fatalf("tier %s unlocked after a locked predecessor", tier)
		}
		locked = locked || statuses[tier].IsLocked
	}
	if !statuses[domain.TierMega].IsLocked {
		t.Fatal("mega tier should be locked")
	}
}

func TestTierGate_AdminBypassesGating(t *testing.T) {
	bank := NewQuestionBank()
	adminHash := "admin-hash"
	gate := NewTierGate(bank, adminHash)

	user := domain.StoredUser{EmailHash: adminHash, DaysLogged: 1}
	statuses := gate.Statuses(user)

	for _, tier := range domain.TierChain() {
		if statuses[tier].IsLocked {
			t.Fatalf("admin should bypass gating, tier %s locked", tier)
		}
	}
}

func TestTierGate_AvailableExcludesLockedAndAnswered(t *testing.T) {
	bank := NewQuestionBank()
	gate := NewTierGate(bank, "")

	answered := answeredIDs(bank, domain.TierEasy, 10)
	user := domain.StoredUser{DaysLogged: 1, AnsweredQuestionIDs: answered}

	available := gate.Available(user)
	if len(available) != 40 {
		t.Fatalf("expected 40 available questions, got %d", len(available))
	}
	seen := make(map[string]struct{}, len(answered))
	for _, id := range answered {
		seen[id] = struct{}{}
	}
	for _, q := range available {
		if q.Tier != domain.TierEasy {
			t.Fatalf("question %s from locked tier %s is available", q.ID, q.Tier)
		}
		if _, done := seen[q.ID]; done {
			t.Fatalf("answered question %s still available", q.ID)
		}
	}
}

func TestTierGate_ReasonNamesPreviousTier(t *testing.T) {
	bank := NewQuestionBank()
	gate := NewTierGate(bank, "")

	user := domain.StoredUser{
		DaysLogged:          30,
		AnsweredQuestionIDs: answeredIDs(bank, domain.TierEasy, 50),
	}
	status := gate.Statuses(user)[domain.TierHard]

	if !status.IsLocked {
		t.Fatal("hard tier should be locked")
	}
	wantPrefix := fmt.Sprintf("Complete todas as missões %s", domain.TierNormal.PluralLabel())
	if !strings.HasPrefix(status.Reason, wantPrefix) {
		t.Fatalf("expected reason to start with %q, got %q", wantPrefix, status.Reason)
	}
}
