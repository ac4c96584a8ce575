package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestRiskTier_Ordering(t *testing.T) {
	if !(TierBenign < TierSuspicious && TierSuspicious < TierLikelyScam && TierLikelyScam < TierConfirmedScam) {
		t.Fatal("Tier ordering broken")
	}
	if MaxTier(TierLikelyScam, TierSuspicious) != TierLikelyScam {
		t.Error("MaxTier picked the lower tier")
	}
	if MaxTier(TierBenign, TierConfirmedScam) != TierConfirmedScam {
		t.Error("MaxTier picked the lower tier")
	}
}

func TestRiskTier_JSONRoundTrip(t *testing.T) {
	for tier, name := range map[RiskTier]string{
		TierBenign:        "benign",
		TierSuspicious:    "suspicious",
		TierLikelyScam:    "likely_scam",
		TierConfirmedScam: "confirmed_scam",
	} {
		data, err := json.Marshal(tier)
		if err != nil {
			t.Fatalf("Marshal(%v) failed: %v", tier, err)
		}
		if string(data) != `"`+name+`"` {
			t.Errorf("Marshal(%v) = %s, want %q", tier, data, name)
		}

		var back RiskTier
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", data, err)
		}
		if back != tier {
			t.Errorf("Round trip lost value: %v -> %v", tier, back)
		}
	}

	var tier RiskTier
	if err := json.Unmarshal([]byte(`"nonsense"`), &tier); err == nil {
		t.Error("Unknown tier name accepted")
	}
}

func TestSession_Terminal(t *testing.T) {
	s := &Session{Status: StatusActive}
	if s.Terminal() {
		t.Error("Active session reported terminal")
	}
	s.Status = StatusResolved
	if !s.Terminal() {
		t.Error("Resolved session not terminal")
	}
	s.Status = StatusExpired
	if !s.Terminal() {
		t.Error("Expired session not terminal")
	}
}

func TestSession_RecordTurn(t *testing.T) {
	s := &Session{}
	at := time.Now().UTC()
	s.RecordTurn("scammer", "hello", at)

	if len(s.History) != 1 || s.History[0].Text != "hello" {
		t.Errorf("History = %v", s.History)
	}
	if !s.LastActivityAt.Equal(at) {
		t.Errorf("LastActivityAt = %v, want %v", s.LastActivityAt, at)
	}
}

func TestSession_RecentTurns(t *testing.T) {
	s := &Session{}
	for i := 0; i < 5; i++ {
		s.RecordTurn("scammer", "msg", time.Now())
	}
	if got := len(s.RecentTurns(3)); got != 3 {
		t.Errorf("RecentTurns(3) returned %d", got)
	}
	if got := len(s.RecentTurns(10)); got != 5 {
		t.Errorf("RecentTurns(10) returned %d", got)
	}
}
