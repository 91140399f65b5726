package handlers

import (
	"time"

	"health-triage-server/internal/middleware"
	"health-triage-server/internal/models"
	"health-triage-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler handles user self-service requests.
type UserHandler struct {
	DB *gorm.DB
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// severityCount is a scan target for severity group-by queries.
type severityCount struct {
	Severity string `json:"severity"`
	Count    int64  `json:"count"`
}

// UserStatsResponse summarizes one user's triage activity.
type UserStatsResponse struct {
	TotalAnalyses     int64                    `json:"totalAnalyses"`
	RecentAnalyses    int64                    `json:"recentAnalyses"`
	SeverityBreakdown map[string]int64         `json:"severityBreakdown"`
	LastAnalyses      []models.SymptomAnalysis `json:"lastAnalyses"`
	MemberSince       time.Time                `json:"memberSince"`
	LastActive        *time.Time               `json:"lastActive,omitempty"`
}

// GetUserStats returns personal analysis statistics for the logged-in user.
func (h *UserHandler) GetUserStats(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	var totalAnalyses int64
	if err := h.DB.Model(&models.SymptomAnalysis{}).Where("user_id = ?", userID).Count(&totalAnalyses).Error; err != nil {
		utils.InternalServerError(c, "Failed to count analyses: "+err.Error())
		return
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	var recentCount int64
	if err := h.DB.Model(&models.SymptomAnalysis{}).
		Where("user_id = ? AND created_at >= ?", userID, thirtyDaysAgo).
		Count(&recentCount).Error; err != nil {
		utils.InternalServerError(c, "Failed to count recent analyses: "+err.Error())
		return
	}

	var severityRows []severityCount
	if err := h.DB.Model(&models.SymptomAnalysis{}).
		Select("severity, count(*) as count").
		Where("user_id = ?", userID).
		Group("severity").
		Scan(&severityRows).Error; err != nil {
		utils.InternalServerError(c, "Failed to aggregate severities: "+err.Error())
		return
	}
	breakdown := make(map[string]int64, len(severityRows))
	for _, row := range severityRows {
		breakdown[row.Severity] = row.Count
	}

	var lastAnalyses []models.SymptomAnalysis
	if err := h.DB.Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(5).
		Find(&lastAnalyses).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch recent analyses: "+err.Error())
		return
	}

	utils.Success(c, "User statistics fetched successfully", UserStatsResponse{
		TotalAnalyses:     totalAnalyses,
		RecentAnalyses:    recentCount,
		SeverityBreakdown: breakdown,
		LastAnalyses:      lastAnalyses,
		MemberSince:       user.CreatedAt,
		LastActive:        user.LastActive,
	})
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// ChangePassword updates the logged-in user's password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req ChangePasswordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	if !user.CheckPassword(req.CurrentPassword) {
		utils.Unauthorized(c, "Current password is incorrect")
		return
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		utils.InternalServerError(c, "Failed to hash password: "+err.Error())
		return
	}

	if err := h.DB.Save(&user).Error; err != nil {
		utils.InternalServerError(c, "Failed to update password: "+err.Error())
		return
	}

	utils.Success(c, "Password changed successfully", nil)
}

// DeactivateAccountRequest represents the request body for account deactivation.
type DeactivateAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

// DeactivateAccount marks the logged-in user's account inactive. Analysis
// history is retained; sessions are never deleted.
func (h *UserHandler) DeactivateAccount(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req DeactivateAccountRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	if !user.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Password is incorrect")
		return
	}

	user.IsActive = false
	if err := h.DB.Save(&user).Error; err != nil {
		utils.InternalServerError(c, "Failed to deactivate account: "+err.Error())
		return
	}

	// Revoke all refresh tokens so the account cannot be used again
	h.DB.Model(&models.RefreshToken{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Update("is_revoked", true)

	utils.Success(c, "Account deactivated successfully", nil)
}
