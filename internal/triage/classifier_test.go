package triage

import (
	"reflect"
	"testing"
)

func TestClassifyTiers(t *testing.T) {
	tests := []struct {
		name          string
		description   string
		wantTier      Tier
		wantConf      int
		wantNumConds  int
		wantFirstCond string
	}{
		{
			name:          "emergency phrase wins over everything else",
			description:   "I have chest pain and a mild headache",
			wantTier:      TierEmergency,
			wantConf:      95,
			wantNumConds:  2,
			wantFirstCond: "Medical Emergency",
		},
		{
			name:          "doctor phrase without emergency phrase",
			description:   "I have a persistent fever for 5 days",
			wantTier:      TierDoctor,
			wantConf:      75,
			wantNumConds:  3,
			wantFirstCond: "Possible Infection",
		},
		{
			name:          "no lexicon match falls through to home",
			description:   "I have a mild headache and feel tired",
			wantTier:      TierHome,
			wantConf:      70,
			wantNumConds:  3,
			wantFirstCond: "Common Cold/Flu",
		},
		{
			name:          "fever with cough prepends respiratory condition",
			description:   "fever and cough for two days",
			wantTier:      TierHome,
			wantConf:      80,
			wantNumConds:  3,
			wantFirstCond: "Respiratory Viral Infection",
		},
		{
			name:          "severe pain escalates home to doctor",
			description:   "severe pain in my leg",
			wantTier:      TierDoctor,
			wantConf:      80,
			wantNumConds:  3,
			wantFirstCond: "Common Cold/Flu",
		},
		{
			name:          "matching is case-insensitive",
			description:   "SEVERE BLEEDING from a cut",
			wantTier:      TierEmergency,
			wantConf:      95,
			wantNumConds:  2,
			wantFirstCond: "Medical Emergency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.description)
			if got.Tier != tt.wantTier {
				t.Errorf("Classify(%q).Tier = %q, want %q", tt.description, got.Tier, tt.wantTier)
			}
			if got.Confidence != tt.wantConf {
				t.Errorf("Classify(%q).Confidence = %d, want %d", tt.description, got.Confidence, tt.wantConf)
			}
			if len(got.Conditions) != tt.wantNumConds {
				t.Errorf("Classify(%q) returned %d conditions, want %d", tt.description, len(got.Conditions), tt.wantNumConds)
			}
			if len(got.Conditions) > 0 && got.Conditions[0].Name != tt.wantFirstCond {
				t.Errorf("Classify(%q).Conditions[0].Name = %q, want %q", tt.description, got.Conditions[0].Name, tt.wantFirstCond)
			}
		})
	}
}

func TestClassifyEmergencyPrecedence(t *testing.T) {
	// Emergency phrases override doctor and home phrases appearing in the
	// same description.
	for _, phrase := range emergencyLexicon {
		description := "I have a rash and a cough but also " + phrase
		got := Classify(description)
		if got.Tier != TierEmergency {
			t.Errorf("Classify with emergency phrase %q returned tier %q, want %q", phrase, got.Tier, TierEmergency)
		}
	}
}

func TestClassifyConfidenceCap(t *testing.T) {
	got := Classify("I think I'm having a heart attack and a stroke")
	if got.Confidence > 95 {
		t.Errorf("confidence %d exceeds cap of 95", got.Confidence)
	}
}

func TestClassifyConditionLimit(t *testing.T) {
	// The secondary pass prepends a condition; the result must still be
	// truncated to three.
	got := Classify("fever and cough for two days")
	if len(got.Conditions) > maxConditions {
		t.Errorf("got %d conditions, want at most %d", len(got.Conditions), maxConditions)
	}
}

func TestClassifyIsPure(t *testing.T) {
	first := Classify("I have a persistent fever for 5 days")
	second := Classify("I have a persistent fever for 5 days")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Classify is not deterministic: %+v != %+v", first, second)
	}
}

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		description string
		want        []string
	}{
		{"I have a fever and a bad cough", []string{"fever", "cough"}},
		{"my chest pain is getting worse", []string{"pain", "chest pain"}},
		{"just feeling a bit off today", nil},
	}

	for _, tt := range tests {
		got := ExtractKeywords(tt.description)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ExtractKeywords(%q) = %v, want %v", tt.description, got, tt.want)
		}
	}
}

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		message string
		want    Category
	}{
		{"I have a terrible migraine", CategoryHeadache},
		{"running a temperature since yesterday", CategoryFever},
		{"can't stop coughing", CategoryCough},
		{"my belly hurts after eating", CategoryStomach},
		{"there's a dull ache in my knee", CategoryPain},
		{"I feel weird and dizzy", CategoryGeneral},
		// Headache is checked before pain, so "headache hurts" stays headache.
		{"my headache really hurts", CategoryHeadache},
	}

	for _, tt := range tests {
		if got := DetectCategory(tt.message); got != tt.want {
			t.Errorf("DetectCategory(%q) = %q, want %q", tt.message, got, tt.want)
		}
	}
}
