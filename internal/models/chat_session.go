package models

import (
	"health-triage-server/internal/triage"
)

// ChatSession is one user's symptom-gathering conversation. The gatherer
// state (phase, category, counter, history) is stored per session so turns
// from different users and sessions never share process state.
type ChatSession struct {
	BaseModel
	UserID string `gorm:"size:36;index" json:"userId"`

	Phase         triage.Phase    `gorm:"size:30;default:'awaiting_first_input'" json:"phase"`
	Category      triage.Category `gorm:"size:20" json:"category"`
	QuestionCount int             `json:"questionCount"`
	Messages      []triage.Message `gorm:"serializer:json" json:"messages"`

	// AnalysisID is set once the session has been handed off to the
	// classifier; a session is analyzed at most once.
	AnalysisID *string `gorm:"size:36" json:"analysisId,omitempty"`

	// Relations
	User     User             `gorm:"foreignKey:UserID" json:"-"`
	Analysis *SymptomAnalysis `gorm:"foreignKey:AnalysisID" json:"-"`
}

// Conversation converts the persisted state into the gatherer's value type.
func (s *ChatSession) Conversation() triage.Conversation {
	return triage.Conversation{
		Phase:         s.Phase,
		Category:      s.Category,
		QuestionCount: s.QuestionCount,
		Messages:      s.Messages,
	}
}

// ApplyConversation writes the gatherer's value type back onto the session.
func (s *ChatSession) ApplyConversation(conv triage.Conversation) {
	s.Phase = conv.Phase
	s.Category = conv.Category
	s.QuestionCount = conv.QuestionCount
	s.Messages = conv.Messages
}
