package triage

import "testing"

func TestRecommendPerTier(t *testing.T) {
	tests := []struct {
		tier      Tier
		wantTitle string
	}{
		{TierEmergency, "Seek Immediate Medical Attention"},
		{TierDoctor, "Schedule a Doctor Visit"},
		{TierHome, "Home Care Recommendations"},
	}

	for _, tt := range tests {
		got := Recommend(tt.tier)
		if got.Title != tt.wantTitle {
			t.Errorf("Recommend(%q).Title = %q, want %q", tt.tier, got.Title, tt.wantTitle)
		}
		if got.Tier != tt.tier {
			t.Errorf("Recommend(%q).Tier = %q", tt.tier, got.Tier)
		}
		if len(got.Actions) == 0 {
			t.Errorf("Recommend(%q) returned no actions", tt.tier)
		}
	}
}

func TestRecommendUnknownTierFallsBackToHome(t *testing.T) {
	got := Recommend(Tier("unknown"))
	if got.Tier != TierHome {
		t.Errorf("Recommend(unknown).Tier = %q, want %q", got.Tier, TierHome)
	}
}

func TestRecommendMatchesClassifier(t *testing.T) {
	// Every tier the classifier can produce has a recommendation.
	for _, description := range []string{
		"chest pain",
		"persistent vomiting",
		"a mild headache",
	} {
		result := Classify(description)
		rec := Recommend(result.Tier)
		if rec.Tier != result.Tier {
			t.Errorf("no recommendation for classified tier %q", result.Tier)
		}
	}
}
