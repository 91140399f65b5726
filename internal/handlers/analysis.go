package handlers

import (
	"strconv"
	"strings"
	"time"

	"health-triage-server/internal/middleware"
	"health-triage-server/internal/models"
	"health-triage-server/internal/triage"
	"health-triage-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxDescriptionLength bounds the symptom text accepted for analysis.
const maxDescriptionLength = 4000

// AnalysisHandler handles symptom analysis requests.
type AnalysisHandler struct {
	DB *gorm.DB
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(db *gorm.DB) *AnalysisHandler {
	return &AnalysisHandler{DB: db}
}

// AnalyzeRequest represents the request body for a symptom analysis.
type AnalyzeRequest struct {
	Symptoms  string `json:"symptoms" binding:"required"`
	SessionID string `json:"sessionId"`
}

// AnalyzeResponse is the payload returned for a completed analysis.
type AnalyzeResponse struct {
	SessionID        string                 `json:"sessionId"`
	Analysis         models.SymptomAnalysis `json:"analysis"`
	ProcessingTimeMs int64                  `json:"processingTimeMs"`
}

// Analyze classifies a symptom description and persists the triage session.
// Empty or oversized input is rejected here, before the classifier runs.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	description := strings.TrimSpace(req.Symptoms)
	if description == "" {
		utils.BadRequest(c, "Symptom description is required")
		return
	}
	if len(description) > maxDescriptionLength {
		utils.BadRequest(c, "Symptom description is too long")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	analysis, err := h.runAnalysis(userID, sessionID, description)
	if err != nil {
		utils.InternalServerError(c, "Failed to save analysis: "+err.Error())
		return
	}

	utils.Success(c, "Symptom analysis completed", AnalyzeResponse{
		SessionID:        sessionID,
		Analysis:         *analysis,
		ProcessingTimeMs: analysis.ProcessingTimeMs,
	})
}

// runAnalysis classifies a description and persists the resulting session.
// Shared with the chat handler's final-analysis handoff.
func (h *AnalysisHandler) runAnalysis(userID, sessionID, description string) (*models.SymptomAnalysis, error) {
	start := time.Now()
	result := triage.Classify(description)
	recommendation := triage.Recommend(result.Tier)
	keywords := triage.ExtractKeywords(description)
	processingTime := time.Since(start).Milliseconds()

	analysis := models.SymptomAnalysis{
		UserID:           userID,
		SessionID:        sessionID,
		Description:      description,
		Keywords:         keywords,
		Severity:         result.Tier,
		Confidence:       result.Confidence,
		Conditions:       result.Conditions,
		Recommendation:   recommendation,
		ProcessingTimeMs: processingTime,
	}

	if err := h.DB.Create(&analysis).Error; err != nil {
		return nil, err
	}
	return &analysis, nil
}

// HistoryResponse wraps a page of analyses with pagination info.
type HistoryResponse struct {
	Analyses   []models.SymptomAnalysis `json:"analyses"`
	Pagination Pagination               `json:"pagination"`
}

// Pagination describes a page of results.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int64 `json:"pages"`
	Total   int64 `json:"total"`
}

// GetHistory returns the logged-in user's analysis history, newest first,
// optionally filtered by severity.
func (h *AnalysisHandler) GetHistory(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	page, limit := parsePageParams(c, 10)

	query := h.DB.Model(&models.SymptomAnalysis{}).Where("user_id = ?", userID)
	if severity := c.Query("severity"); severity != "" {
		query = query.Where("severity = ?", severity)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count analyses: "+err.Error())
		return
	}

	var analyses []models.SymptomAnalysis
	if err := query.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&analyses).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch analysis history: "+err.Error())
		return
	}

	utils.Success(c, "Analysis history fetched successfully", HistoryResponse{
		Analyses:   analyses,
		Pagination: makePagination(page, limit, total),
	})
}

// GetAnalysis returns a single analysis. Owner or admin only.
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	analysisID := c.Param("id")

	var analysis models.SymptomAnalysis
	if err := h.DB.First(&analysis, "id = ?", analysisID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Analysis not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if analysis.UserID != userID && userRole != models.RoleAdmin {
		utils.Forbidden(c, "You are not authorized to view this analysis")
		return
	}

	utils.Success(c, "Analysis fetched successfully", analysis)
}

// FeedbackRequest represents the request body for attaching feedback.
type FeedbackRequest struct {
	Helpful *bool  `json:"helpful" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// SubmitFeedback attaches feedback to an analysis. Owner only. A repeated
// submission deterministically overwrites the previous feedback.
func (h *AnalysisHandler) SubmitFeedback(c *gin.Context) {
	analysisID := c.Param("id")

	var req FeedbackRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var analysis models.SymptomAnalysis
	if err := h.DB.First(&analysis, "id = ?", analysisID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Analysis not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if analysis.UserID != userID {
		utils.Forbidden(c, "You are not authorized to submit feedback for this analysis")
		return
	}

	now := time.Now()
	analysis.Feedback = &models.AnalysisFeedback{
		Helpful:     req.Helpful,
		Rating:      req.Rating,
		Comment:     req.Comment,
		SubmittedAt: &now,
	}

	if err := h.DB.Save(&analysis).Error; err != nil {
		utils.InternalServerError(c, "Failed to save feedback: "+err.Error())
		return
	}

	utils.Success(c, "Feedback submitted successfully", analysis.Feedback)
}

// parsePageParams reads page/limit query parameters with sane bounds.
func parsePageParams(c *gin.Context, defaultLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit
}

// makePagination computes page metadata for a result set.
func makePagination(page, limit int, total int64) Pagination {
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return Pagination{Current: page, Pages: pages, Total: total}
}
