package agent

import (
	"context"
	"fmt"
	"strings"

	"health-triage-server/internal/triage"

	"google.golang.org/genai"
)

// QuestionSource generates the next follow-up question for a gathering
// conversation. Implementations must be swappable with the scripted
// fallback: string history in, next question string out, with readiness
// for analysis signalled through the handoff marker in the reply.
type QuestionSource interface {
	NextQuestion(ctx context.Context, history []triage.Message) (string, error)
}

// handoffMarker is the exact phrase the model is instructed to emit once it
// has enough information. Callers detect it with IsHandoff.
const handoffMarker = "READY_FOR_ANALYSIS"

// systemInstruction constrains the model to the gathering role: one short
// question per turn, no diagnosis, no treatment, no severity estimate.
const systemInstruction = "You are a symptom-intake assistant for a health triage service. " +
	"Your only job is to gather information. Ask exactly one short, plain-language follow-up question " +
	"about the user's symptoms (location, severity scale, duration, triggers, associated symptoms, or prior treatment). " +
	"Never name a possible condition, never recommend a treatment or medication, and never estimate how serious the symptoms are. " +
	"If the user asks for a diagnosis or advice, politely say the final analysis will cover that and ask your next question. " +
	"When you have enough information, reply with exactly " + handoffMarker + " and nothing else."

// IsHandoff reports whether a generated reply signals readiness for
// analysis rather than a next question.
func IsHandoff(reply string) bool {
	return strings.Contains(reply, handoffMarker)
}

// GeminiQuestionSource generates follow-up questions with the Gemini API.
type GeminiQuestionSource struct {
	client *genai.Client
	model  string
}

// NewGeminiQuestionSource creates a question source backed by the Gemini API.
func NewGeminiQuestionSource(apiKey, model string) (*GeminiQuestionSource, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini question source requires an API key")
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiQuestionSource{client: client, model: model}, nil
}

// NextQuestion asks the model for the next follow-up question given the
// conversation so far. Errors are returned as-is; the caller degrades to
// the scripted question set rather than retrying.
func (s *GeminiQuestionSource) NextQuestion(ctx context.Context, history []triage.Message) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	contents = append(contents, genai.NewContentFromText(systemInstruction, genai.RoleUser))
	for _, m := range history {
		var role genai.Role = genai.RoleUser
		if m.Role == triage.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate question: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from model")
	}

	var result strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			result.WriteString(part.Text)
		}
	}
	question := strings.TrimSpace(result.String())
	if question == "" {
		return "", fmt.Errorf("empty question from model")
	}
	return question, nil
}
