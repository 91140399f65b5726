package handlers

import (
	"context"
	"log"
	"strings"
	"time"

	"health-triage-server/internal/agent"
	"health-triage-server/internal/middleware"
	"health-triage-server/internal/models"
	"health-triage-server/internal/triage"
	"health-triage-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// questionTimeout bounds the external question-generation call; on expiry
// the scripted fallback takes over for that turn.
const questionTimeout = 10 * time.Second

// ChatHandler drives symptom-gathering conversations.
type ChatHandler struct {
	DB        *gorm.DB
	Gatherer  *triage.Gatherer
	Questions agent.QuestionSource // nil disables the AI variant
	Analysis  *AnalysisHandler
}

// NewChatHandler creates a new ChatHandler. questions may be nil, in which
// case every turn uses the scripted question set.
func NewChatHandler(db *gorm.DB, gatherer *triage.Gatherer, questions agent.QuestionSource, analysis *AnalysisHandler) *ChatHandler {
	return &ChatHandler{DB: db, Gatherer: gatherer, Questions: questions, Analysis: analysis}
}

// SessionResponse is the chat session state returned to the client.
type SessionResponse struct {
	SessionID     string           `json:"sessionId"`
	Phase         triage.Phase     `json:"phase"`
	QuestionCount int              `json:"questionCount"`
	Reply         string           `json:"reply,omitempty"`
	Fallback      bool             `json:"fallback,omitempty"`
	Messages      []triage.Message `json:"messages,omitempty"`
}

// StartSession creates a new gathering conversation for the user.
func (h *ChatHandler) StartSession(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	session := models.ChatSession{UserID: userID}
	session.ApplyConversation(triage.NewConversation())

	if err := h.DB.Create(&session).Error; err != nil {
		utils.InternalServerError(c, "Failed to create chat session: "+err.Error())
		return
	}

	utils.Created(c, "Chat session created", SessionResponse{
		SessionID:     session.ID,
		Phase:         session.Phase,
		QuestionCount: session.QuestionCount,
		Reply:         triage.Greeting,
	})
}

// MessageRequest represents one user turn.
type MessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// SendMessage runs one gatherer turn for a session. Turns are strictly
// sequential per session; the stored state carries the full prior context.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	session, ok := h.loadOwnSession(c)
	if !ok {
		return
	}
	if session.AnalysisID != nil {
		utils.Conflict(c, "This session has already been analyzed. Start a new session to continue.")
		return
	}

	var req MessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		utils.BadRequest(c, "Message must not be empty")
		return
	}

	conv := session.Conversation()

	// Handoff already reached: just repeat the wrap-up prompt.
	question, fallback, conclude := "", false, false
	if conv.Phase != triage.PhaseReadyForAnalysis && !triage.AsksForAdvice(message) {
		question, fallback, conclude = h.generateQuestion(c, conv, message)
	}

	var reply string
	if conclude {
		conv, reply = h.Gatherer.Conclude(conv, message)
	} else {
		conv, reply = h.Gatherer.AdvanceWith(conv, message, question)
	}

	session.ApplyConversation(conv)
	if err := h.DB.Save(session).Error; err != nil {
		utils.InternalServerError(c, "Failed to save chat session: "+err.Error())
		return
	}

	utils.Success(c, "Message processed", SessionResponse{
		SessionID:     session.ID,
		Phase:         session.Phase,
		QuestionCount: session.QuestionCount,
		Reply:         reply,
		Fallback:      fallback,
	})
}

// generateQuestion asks the external source for the next question. A failed
// call degrades to the scripted set for this turn (fallback=true) instead of
// stalling the conversation; a handoff marker concludes gathering early.
func (h *ChatHandler) generateQuestion(c *gin.Context, conv triage.Conversation, message string) (question string, fallback, conclude bool) {
	if h.Questions == nil {
		return "", false, false
	}
	// Skip the call when this turn exhausts the budget anyway.
	if conv.QuestionCount+1 >= h.Gatherer.MaxQuestions && conv.Phase == triage.PhaseGathering {
		return "", false, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), questionTimeout)
	defer cancel()

	history := append(append([]triage.Message{}, conv.Messages...), triage.Message{
		Role:      triage.RoleUser,
		Content:   message,
		Timestamp: time.Now(),
	})

	generated, err := h.Questions.NextQuestion(ctx, history)
	if err != nil {
		log.Printf("question generation failed, using scripted fallback: %v", err)
		return "", true, false
	}
	if agent.IsHandoff(generated) {
		return "", false, true
	}
	return generated, false, false
}

// GetSession returns the full conversation for a session. Owner only.
func (h *ChatHandler) GetSession(c *gin.Context) {
	session, ok := h.loadOwnSession(c)
	if !ok {
		return
	}

	utils.Success(c, "Chat session fetched", SessionResponse{
		SessionID:     session.ID,
		Phase:         session.Phase,
		QuestionCount: session.QuestionCount,
		Messages:      session.Messages,
	})
}

// AnalyzeSession hands the gathered conversation off to the classifier.
// One-shot per session: a second call is rejected with a conflict. The user
// may force this at any turn once at least one user message exists.
func (h *ChatHandler) AnalyzeSession(c *gin.Context) {
	session, ok := h.loadOwnSession(c)
	if !ok {
		return
	}
	if session.AnalysisID != nil {
		utils.Conflict(c, "This session has already been analyzed. Start a new session for a fresh assessment.")
		return
	}

	conv := session.Conversation()
	if !triage.CanAnalyze(conv) {
		utils.BadRequest(c, "Describe your symptoms before requesting an analysis")
		return
	}

	description := triage.Description(conv)
	analysis, err := h.Analysis.runAnalysis(session.UserID, session.ID, description)
	if err != nil {
		utils.InternalServerError(c, "Failed to save analysis: "+err.Error())
		return
	}

	conv.Phase = triage.PhaseReadyForAnalysis
	session.ApplyConversation(conv)
	session.AnalysisID = &analysis.ID
	if err := h.DB.Save(session).Error; err != nil {
		utils.InternalServerError(c, "Failed to update chat session: "+err.Error())
		return
	}

	utils.Success(c, "Final analysis completed", AnalyzeResponse{
		SessionID:        session.ID,
		Analysis:         *analysis,
		ProcessingTimeMs: analysis.ProcessingTimeMs,
	})
}

// loadOwnSession fetches the session in the id parameter and verifies the
// caller owns it. Writes the error response itself on failure.
func (h *ChatHandler) loadOwnSession(c *gin.Context) (*models.ChatSession, bool) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return nil, false
	}

	sessionID := c.Param("id")
	var session models.ChatSession
	if err := h.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Chat session not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}

	if session.UserID != userID {
		utils.Forbidden(c, "You are not authorized to access this chat session")
		return nil, false
	}

	return &session, true
}
