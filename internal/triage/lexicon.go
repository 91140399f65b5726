package triage

// Phrase lexicons for the severity classifier. Matching is case-insensitive
// substring containment over the lower-cased input; order matters only for
// reproducible keyword extraction, precedence between tiers is fixed
// (emergency > doctor > home).

// emergencyLexicon: any match forces the emergency tier.
var emergencyLexicon = []string{
	"chest pain", "can't breathe", "difficulty breathing", "severe bleeding",
	"unconscious", "heart attack", "stroke", "seizure", "overdose",
	"severe head injury", "choking", "severe allergic reaction",
}

// doctorLexicon: matched only when no emergency phrase is present.
// "fever" and "severe pain" are deliberately absent: bare fever defaults to
// home care unless paired with other signals, and severe pain is escalated
// by the secondary adjustment pass instead.
var doctorLexicon = []string{
	"persistent", "vomiting", "diarrhea",
	"infection", "rash", "swelling", "blood", "numbness",
}

// homeLexicon: documents the home-care vocabulary; absence of any lexicon
// match falls through to the home tier anyway.
var homeLexicon = []string{
	"headache", "mild pain", "cold", "cough", "sore throat",
	"tired", "fatigue", "stuffy nose", "minor cut", "bruise",
}

// medicalKeywords is the flat extraction list used for tagging and search.
// It carries no severity weight.
var medicalKeywords = []string{
	"pain", "fever", "headache", "nausea", "vomiting", "diarrhea", "cough",
	"sore throat", "runny nose", "congestion", "fatigue", "dizziness",
	"shortness of breath", "chest pain", "abdominal pain", "rash", "swelling",
	"bleeding", "numbness", "tingling", "weakness", "confusion",
}

// Category identifies which canned follow-up script the gatherer uses. It
// never influences the severity tier.
type Category string

const (
	CategoryHeadache Category = "headache"
	CategoryFever    Category = "fever"
	CategoryCough    Category = "cough"
	CategoryStomach  Category = "stomach"
	CategoryPain     Category = "pain"
	CategoryGeneral  Category = "general"
)

// categoryKeywords maps follow-up categories to their trigger phrases.
// Checked in this order; first match wins.
var categoryOrder = []Category{
	CategoryHeadache, CategoryFever, CategoryCough, CategoryStomach, CategoryPain,
}

var categoryKeywords = map[Category][]string{
	CategoryHeadache: {"headache", "head pain", "migraine", "head ache", "head hurt"},
	CategoryFever:    {"fever", "temperature", "hot", "chills", "sweating"},
	CategoryCough:    {"cough", "coughing", "throat", "phlegm"},
	CategoryStomach:  {"stomach", "abdomen", "belly", "nausea", "vomit", "diarrhea"},
	CategoryPain:     {"pain", "ache", "hurt", "sore", "discomfort"},
}
