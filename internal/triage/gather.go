package triage

import (
	"strings"
	"time"
)

// Phase is the gatherer's position in the conversation.
type Phase string

const (
	PhaseAwaitingFirstInput Phase = "awaiting_first_input"
	PhaseGathering          Phase = "gathering"
	PhaseReadyForAnalysis   Phase = "ready_for_analysis"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn in a gathering conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the complete session-scoped gatherer state. It is a plain
// value passed to and returned from each step; nothing in this package holds
// process-wide conversation state.
type Conversation struct {
	Phase         Phase     `json:"phase"`
	Category      Category  `json:"category"`
	QuestionCount int       `json:"questionCount"`
	Messages      []Message `json:"messages"`
}

// Fixed assistant lines.
const (
	Greeting = "Hello! I'm your health assistant. To help you better, please describe your main concern. For example: \"I have a bad headache\" or \"I'm feeling nauseous\"."

	wrapUpMessage = "Thank you for providing all this information. I now have a comprehensive understanding of your symptoms. Request the final analysis to receive your personalized health assessment and recommendations."

	adviceDeflection = "I can't suggest a diagnosis or treatment while we're still gathering information. Let's continue with a few more questions - you'll receive a full assessment and recommendations in the final analysis."
)

// categoryQuestions are the scripted follow-up questions per category,
// asked in order before the generic duration and medication questions.
var categoryQuestions = map[Category][]string{
	CategoryHeadache: {
		"I'm sorry to hear about your headache. Can you tell me where exactly do you feel the pain? (e.g., all over, one side, behind eyes, back of head)",
		"Is it a sharp pain or a dull ache?",
		"Have you experienced any other symptoms along with the headache? (e.g., nausea, sensitivity to light, vision changes)",
	},
	CategoryFever: {
		"I understand you have a fever. Have you measured your temperature? If yes, what was it?",
		"How long have you had this fever?",
		"Are you experiencing any other symptoms like chills, sweating, or body aches?",
	},
	CategoryCough: {
		"Tell me more about your cough. Is it a dry cough or are you bringing up phlegm?",
		"How long have you been coughing?",
		"Do you have any chest pain or difficulty breathing when you cough?",
	},
	CategoryStomach: {
		"I see you're having stomach issues. Can you describe the discomfort? (e.g., pain, cramping, burning)",
		"Where exactly in your abdomen do you feel this?",
		"Have you experienced any nausea, vomiting, or changes in bowel movements?",
	},
	CategoryPain: {
		"Help me understand your pain better. On a scale of 1-10, how would you rate it?",
		"Is the pain constant or does it come and go?",
		"Does anything make it better or worse?",
	},
	CategoryGeneral: {
		"Thank you for sharing that. Can you tell me when these symptoms started?",
		"Have you taken any medications or tried any remedies for this?",
		"Is there anything else you'd like me to know about how you're feeling?",
	},
}

var generalQuestions = []string{
	"Thank you for providing those details. How long have you been experiencing these symptoms?",
	"Have you taken any medications or tried any home remedies for these symptoms?",
	"Is there anything else you'd like me to know about your condition? For example, any recent travel, exposure to illness, or changes in your routine?",
}

// advicePhrases trigger the mid-gathering refusal. The gatherer never names
// a condition, recommends a treatment or estimates severity before handoff.
var advicePhrases = []string{
	"what do i have", "what's wrong with me", "whats wrong with me",
	"diagnose", "diagnosis", "what should i take", "what medicine",
	"which medication", "is it serious", "how serious is", "am i going to be ok",
}

// Gatherer drives the bounded question-gathering conversation. MaxQuestions
// is the number of user turns accepted before the conversation is ready for
// analysis.
type Gatherer struct {
	MaxQuestions int
}

// NewGatherer returns a gatherer with the given turn budget (minimum 1).
func NewGatherer(maxQuestions int) *Gatherer {
	if maxQuestions < 1 {
		maxQuestions = 1
	}
	return &Gatherer{MaxQuestions: maxQuestions}
}

// NewConversation returns the initial state for a session.
func NewConversation() Conversation {
	return Conversation{Phase: PhaseAwaitingFirstInput}
}

// Advance processes one user turn using the scripted question set and
// returns the updated conversation plus the assistant reply.
func (g *Gatherer) Advance(conv Conversation, userMessage string) (Conversation, string) {
	return g.AdvanceWith(conv, userMessage, "")
}

// AdvanceWith is Advance with an externally generated follow-up question.
// When question is empty the scripted set is used; the turn budget, phase
// transitions and guardrails are identical for both strategies.
func (g *Gatherer) AdvanceWith(conv Conversation, userMessage string, question string) (Conversation, string) {
	now := time.Now()
	conv.Messages = append(conv.Messages, Message{Role: RoleUser, Content: userMessage, Timestamp: now})

	var reply string
	switch conv.Phase {
	case PhaseAwaitingFirstInput:
		conv.Phase = PhaseGathering
		conv.Category = DetectCategory(userMessage)
		conv.QuestionCount = 1
		reply = g.nextReply(&conv, userMessage, question)

	case PhaseGathering:
		conv.QuestionCount++
		reply = g.nextReply(&conv, userMessage, question)

	default: // PhaseReadyForAnalysis
		reply = wrapUpMessage
	}

	conv.Messages = append(conv.Messages, Message{Role: RoleAssistant, Content: reply, Timestamp: now})
	return conv, reply
}

// nextReply picks the assistant reply for a gathering turn and flips the
// phase once the turn budget is spent.
func (g *Gatherer) nextReply(conv *Conversation, userMessage, question string) string {
	if conv.QuestionCount >= g.MaxQuestions {
		conv.Phase = PhaseReadyForAnalysis
		return wrapUpMessage
	}
	if AsksForAdvice(userMessage) {
		return adviceDeflection
	}
	if question != "" {
		return question
	}
	return g.scriptedQuestion(conv.Category, conv.QuestionCount-1)
}

// scriptedQuestion returns the idx-th question for a category, falling back
// to the generic duration/medication/wrap-up sequence once the category
// script is exhausted.
func (g *Gatherer) scriptedQuestion(category Category, idx int) string {
	questions := categoryQuestions[category]
	if idx < len(questions) {
		return questions[idx]
	}
	idx -= len(questions)
	if idx < len(generalQuestions) {
		return generalQuestions[idx]
	}
	return "Can you tell me more about what you're experiencing?"
}

// Conclude records a user turn and moves the conversation straight to
// ready-for-analysis. Used when the question-generation strategy signals it
// has enough information before the turn budget is spent.
func (g *Gatherer) Conclude(conv Conversation, userMessage string) (Conversation, string) {
	now := time.Now()
	conv.Messages = append(conv.Messages, Message{Role: RoleUser, Content: userMessage, Timestamp: now})
	switch conv.Phase {
	case PhaseAwaitingFirstInput:
		conv.Category = DetectCategory(userMessage)
		conv.QuestionCount = 1
	case PhaseGathering:
		conv.QuestionCount++
	}
	conv.Phase = PhaseReadyForAnalysis
	conv.Messages = append(conv.Messages, Message{Role: RoleAssistant, Content: wrapUpMessage, Timestamp: now})
	return conv, wrapUpMessage
}

// AsksForAdvice reports whether a user message requests a diagnosis or
// treatment mid-conversation.
func AsksForAdvice(message string) bool {
	return containsAny(strings.ToLower(message), advicePhrases)
}

// CanAnalyze reports whether the conversation contains at least one user
// turn. The user may force handoff at any turn, not just once the budget is
// spent.
func CanAnalyze(conv Conversation) bool {
	for _, m := range conv.Messages {
		if m.Role == RoleUser {
			return true
		}
	}
	return false
}

// Description concatenates all and only user-authored turns, in order, into
// the text handed to the classifier.
func Description(conv Conversation) string {
	var parts []string
	for _, m := range conv.Messages {
		if m.Role == RoleUser {
			parts = append(parts, strings.TrimSpace(m.Content))
		}
	}
	return strings.Join(parts, ". ")
}
