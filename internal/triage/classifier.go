package triage

import (
	"strings"
)

// Tier is the severity classification outcome.
type Tier string

const (
	TierHome      Tier = "home"
	TierDoctor    Tier = "doctor"
	TierEmergency Tier = "emergency"
)

// Condition is one candidate condition in a classification result.
type Condition struct {
	Name        string `json:"name"`
	Probability string `json:"probability"`
	Description string `json:"description"`
}

// Result is the output of Classify. Tier, Confidence and Conditions are
// always populated together.
type Result struct {
	Tier       Tier        `json:"tier"`
	Confidence int         `json:"confidence"`
	Conditions []Condition `json:"conditions"`
}

const maxConditions = 3

// Classify assigns a severity tier to a symptom description. It is a total
// function over non-empty input: no lexicon match falls through to the home
// tier rather than signalling "unknown". Matching is case-insensitive
// substring containment with fixed precedence emergency > doctor > home;
// empty input is rejected upstream by the session-creation contract.
func Classify(description string) Result {
	text := strings.ToLower(description)

	var res Result
	switch {
	case containsAny(text, emergencyLexicon):
		res = Result{
			Tier:       TierEmergency,
			Confidence: 95,
			Conditions: []Condition{
				{Name: "Medical Emergency", Probability: "High Risk", Description: "Immediate medical attention required"},
				{Name: "Life-threatening Condition", Probability: "High Risk", Description: "Critical situation requiring emergency response"},
			},
		}
	case containsAny(text, doctorLexicon):
		res = Result{
			Tier:       TierDoctor,
			Confidence: 75,
			Conditions: []Condition{
				{Name: "Possible Infection", Probability: "Moderate", Description: "May require medical evaluation and treatment"},
				{Name: "Inflammatory Condition", Probability: "Possible", Description: "Could benefit from professional medical assessment"},
				{Name: "Systemic Illness", Probability: "Possible", Description: "Symptoms suggest need for medical consultation"},
			},
		}
	default:
		res = Result{
			Tier:       TierHome,
			Confidence: 70,
			Conditions: []Condition{
				{Name: "Common Cold/Flu", Probability: "Likely", Description: "Typical viral upper respiratory symptoms"},
				{Name: "Minor Discomfort", Probability: "Possible", Description: "Self-limiting condition that may resolve with rest"},
				{Name: "Stress-related Symptoms", Probability: "Possible", Description: "May be related to lifestyle or stress factors"},
			},
		}
	}

	// Secondary adjustment pass, applied after the primary decision.
	if res.Tier == TierHome && strings.Contains(text, "fever") && strings.Contains(text, "cough") {
		res.Conditions = append([]Condition{{
			Name:        "Respiratory Viral Infection",
			Probability: "Likely",
			Description: "Common viral infection affecting respiratory system",
		}}, res.Conditions...)
		res.Confidence += 10
	}

	if res.Tier == TierHome && strings.Contains(text, "pain") &&
		(strings.Contains(text, "severe") || strings.Contains(text, "intense")) {
		res.Tier = TierDoctor
		res.Confidence = 80
	}

	if res.Confidence > 95 {
		res.Confidence = 95
	}
	if len(res.Conditions) > maxConditions {
		res.Conditions = res.Conditions[:maxConditions]
	}

	return res
}

// ExtractKeywords returns the medical keywords contained in the description,
// in lexicon order. Used for tagging and search only.
func ExtractKeywords(description string) []string {
	text := strings.ToLower(description)
	var found []string
	for _, keyword := range medicalKeywords {
		if strings.Contains(text, keyword) {
			found = append(found, keyword)
		}
	}
	return found
}

// DetectCategory picks the follow-up question category for the gatherer.
// This has no effect on the severity tier.
func DetectCategory(message string) Category {
	text := strings.ToLower(message)
	for _, category := range categoryOrder {
		if containsAny(text, categoryKeywords[category]) {
			return category
		}
	}
	return CategoryGeneral
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
