package triage

import (
	"strings"
	"testing"
)

func TestGathererReachesReadyAfterBudget(t *testing.T) {
	g := NewGatherer(3)
	conv := NewConversation()

	var reply string
	conv, reply = g.Advance(conv, "I have a bad headache")
	if conv.Phase != PhaseGathering {
		t.Fatalf("after first turn phase = %q, want %q", conv.Phase, PhaseGathering)
	}
	if conv.Category != CategoryHeadache {
		t.Errorf("category = %q, want %q", conv.Category, CategoryHeadache)
	}
	if reply != categoryQuestions[CategoryHeadache][0] {
		t.Errorf("first reply = %q, want first headache question", reply)
	}

	conv, _ = g.Advance(conv, "it's all over my head")
	if conv.Phase != PhaseGathering {
		t.Fatalf("after second turn phase = %q, want %q", conv.Phase, PhaseGathering)
	}

	conv, reply = g.Advance(conv, "a dull ache")
	if conv.Phase != PhaseReadyForAnalysis {
		t.Fatalf("after %d turns phase = %q, want %q", g.MaxQuestions, conv.Phase, PhaseReadyForAnalysis)
	}
	if reply != wrapUpMessage {
		t.Errorf("budget-exhausting reply = %q, want wrap-up message", reply)
	}
	if conv.QuestionCount != 3 {
		t.Errorf("question count = %d, want 3", conv.QuestionCount)
	}
}

func TestGathererTurnsAfterReadyDoNotAdvance(t *testing.T) {
	g := NewGatherer(1)
	conv := NewConversation()
	conv, _ = g.Advance(conv, "I feel sick")
	if conv.Phase != PhaseReadyForAnalysis {
		t.Fatalf("phase = %q, want %q", conv.Phase, PhaseReadyForAnalysis)
	}

	before := conv.QuestionCount
	conv, reply := g.Advance(conv, "hello?")
	if conv.QuestionCount != before {
		t.Errorf("question count advanced after ready: %d -> %d", before, conv.QuestionCount)
	}
	if reply != wrapUpMessage {
		t.Errorf("reply after ready = %q, want wrap-up message", reply)
	}
}

func TestGathererAdviceGuardrail(t *testing.T) {
	g := NewGatherer(5)
	conv := NewConversation()
	conv, _ = g.Advance(conv, "I have a fever")

	conv, reply := g.Advance(conv, "what do I have? can you diagnose me?")
	if reply != adviceDeflection {
		t.Errorf("advice request reply = %q, want deflection", reply)
	}
	if conv.Phase != PhaseGathering {
		t.Errorf("advice request changed phase to %q", conv.Phase)
	}
	// The turn still counts against the budget.
	if conv.QuestionCount != 2 {
		t.Errorf("question count = %d, want 2", conv.QuestionCount)
	}
}

func TestGathererScriptedQuestionsFallBackToGeneral(t *testing.T) {
	g := NewGatherer(10)
	conv := NewConversation()
	conv, _ = g.Advance(conv, "I have a cough")

	var replies []string
	for _, msg := range []string{"dry", "two days", "no chest pain", "nothing else", "really nothing"} {
		var reply string
		conv, reply = g.Advance(conv, msg)
		replies = append(replies, reply)
	}

	// Three cough questions, then the generic duration and medication ones.
	if replies[0] != categoryQuestions[CategoryCough][1] {
		t.Errorf("second question = %q, want second cough question", replies[0])
	}
	if replies[2] != generalQuestions[0] {
		t.Errorf("fourth question = %q, want first general question", replies[2])
	}
	if replies[3] != generalQuestions[1] {
		t.Errorf("fifth question = %q, want second general question", replies[3])
	}
}

func TestAdvanceWithExternalQuestion(t *testing.T) {
	g := NewGatherer(5)
	conv := NewConversation()

	const question = "Does the pain spread to your arm or jaw?"
	conv, reply := g.AdvanceWith(conv, "my shoulder hurts", question)
	if reply != question {
		t.Errorf("reply = %q, want the external question", reply)
	}
	if conv.Phase != PhaseGathering {
		t.Errorf("phase = %q, want %q", conv.Phase, PhaseGathering)
	}

	// Empty external question falls back to the scripted set.
	conv, reply = g.AdvanceWith(conv, "only when I move it", "")
	if reply != categoryQuestions[CategoryPain][1] {
		t.Errorf("fallback reply = %q, want second pain question", reply)
	}
}

func TestConcludeShortCircuitsToReady(t *testing.T) {
	g := NewGatherer(5)
	conv := NewConversation()
	conv, _ = g.Advance(conv, "I have a headache")

	conv, reply := g.Conclude(conv, "that's everything")
	if conv.Phase != PhaseReadyForAnalysis {
		t.Errorf("phase after Conclude = %q, want %q", conv.Phase, PhaseReadyForAnalysis)
	}
	if reply != wrapUpMessage {
		t.Errorf("Conclude reply = %q, want wrap-up message", reply)
	}
	if conv.QuestionCount != 2 {
		t.Errorf("question count = %d, want 2", conv.QuestionCount)
	}
}

func TestDescriptionConcatenatesUserTurnsOnly(t *testing.T) {
	g := NewGatherer(3)
	conv := NewConversation()
	conv, _ = g.Advance(conv, "I have a headache")
	conv, _ = g.Advance(conv, "behind my eyes")
	conv, _ = g.Advance(conv, "sharp pain")

	got := Description(conv)
	want := "I have a headache. behind my eyes. sharp pain"
	if got != want {
		t.Errorf("Description = %q, want %q", got, want)
	}
	for _, questions := range categoryQuestions {
		for _, q := range questions {
			if strings.Contains(got, q) {
				t.Errorf("Description leaked assistant turn %q", q)
			}
		}
	}
}

func TestCanAnalyze(t *testing.T) {
	conv := NewConversation()
	if CanAnalyze(conv) {
		t.Error("CanAnalyze = true for an empty conversation")
	}

	g := NewGatherer(5)
	conv, _ = g.Advance(conv, "I feel dizzy")
	if !CanAnalyze(conv) {
		t.Error("CanAnalyze = false after a user turn")
	}
}

func TestAsksForAdvice(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"What do I have?", true},
		{"is it serious doctor?", true},
		{"Which medication helps?", true},
		{"it started two days ago", false},
		{"the pain is behind my eyes", false},
	}
	for _, tt := range tests {
		if got := AsksForAdvice(tt.message); got != tt.want {
			t.Errorf("AsksForAdvice(%q) = %v, want %v", tt.message, got, tt.want)
		}
	}
}

func TestNewGathererMinimumBudget(t *testing.T) {
	if g := NewGatherer(0); g.MaxQuestions != 1 {
		t.Errorf("NewGatherer(0).MaxQuestions = %d, want 1", g.MaxQuestions)
	}
	if g := NewGatherer(-3); g.MaxQuestions != 1 {
		t.Errorf("NewGatherer(-3).MaxQuestions = %d, want 1", g.MaxQuestions)
	}
}
