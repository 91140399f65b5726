package models

import (
	"time"

	"health-triage-server/internal/triage"
)

// AnalysisFeedback is the optional one-shot feedback a user can attach to an
// analysis. A repeated submission deterministically overwrites the previous
// one.
type AnalysisFeedback struct {
	Helpful     *bool      `json:"helpful,omitempty"`
	Rating      int        `json:"rating,omitempty"`
	Comment     string     `json:"comment,omitempty"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

// SymptomAnalysis is one completed triage session: the submitted symptom
// description together with the classifier output and recommendation.
// Immutable history except for the feedback attachment.
type SymptomAnalysis struct {
	BaseModel
	UserID    string `gorm:"size:36;index" json:"userId"`
	SessionID string `gorm:"size:36;index" json:"sessionId"`

	Description string   `gorm:"type:text;not null" json:"description"`
	Keywords    []string `gorm:"serializer:json" json:"keywords"`

	// Severity, Confidence and Conditions are always set together by the
	// classifier; none of them is independently writable.
	Severity       triage.Tier           `gorm:"size:20;index" json:"severity"`
	Confidence     int                   `json:"confidence"`
	Conditions     []triage.Condition    `gorm:"serializer:json" json:"conditions"`
	Recommendation triage.Recommendation `gorm:"serializer:json" json:"recommendation"`

	ProcessingTimeMs int64 `json:"processingTimeMs"`

	Feedback *AnalysisFeedback `gorm:"serializer:json" json:"feedback,omitempty"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
