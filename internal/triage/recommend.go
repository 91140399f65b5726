package triage

// Recommendation is the user-facing guidance for a severity tier.
type Recommendation struct {
	Title   string   `json:"title"`
	Tier    Tier     `json:"tier"`
	Actions []string `json:"actions"`
}

var recommendations = map[Tier]Recommendation{
	TierEmergency: {
		Title: "Seek Immediate Medical Attention",
		Tier:  TierEmergency,
		Actions: []string{
			"Call emergency services or go to the nearest emergency room immediately",
			"Do not drive yourself - call an ambulance or have someone drive you",
			"If possible, have someone stay with you while seeking help",
			"Bring a list of current medications and medical history",
			"If you lose consciousness, ensure someone can provide information to medical staff",
		},
	},
	TierDoctor: {
		Title: "Schedule a Doctor Visit",
		Tier:  TierDoctor,
		Actions: []string{
			"Schedule an appointment with your primary care physician within 24-48 hours",
			"Monitor your symptoms closely and note any changes or worsening",
			"Keep track of your temperature if you have a fever",
			"Prepare a list of all symptoms, their duration, and any triggers",
			"Avoid strenuous activities until you can consult with a healthcare provider",
			"Stay hydrated and get adequate rest",
		},
	},
	TierHome: {
		Title: "Home Care Recommendations",
		Tier:  TierHome,
		Actions: []string{
			"Get plenty of rest and sleep to help your body recover",
			"Stay well hydrated by drinking water, herbal teas, or clear broths",
			"Use over-the-counter pain relievers as directed for discomfort",
			"Apply warm or cold compresses as appropriate for your symptoms",
			"Monitor your symptoms - seek medical care if they worsen or persist beyond 3-5 days",
			"Maintain good hygiene to prevent spreading illness to others",
		},
	},
}

// Recommend returns the fixed recommendation for a tier. Unknown tiers fall
// back to home care, mirroring the classifier's default.
func Recommend(tier Tier) Recommendation {
	if rec, ok := recommendations[tier]; ok {
		return rec
	}
	return recommendations[TierHome]
}
