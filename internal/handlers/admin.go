package handlers

import (
	"sort"
	"time"

	"health-triage-server/internal/models"
	"health-triage-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler serves the read-only analytics dashboard.
type AdminHandler struct {
	DB *gorm.DB
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{DB: db}
}

// dailyCount is a scan target for per-day group-by queries.
type dailyCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// conditionCount is one entry in the most-common-conditions rollup.
type conditionCount struct {
	Condition string `json:"condition"`
	Count     int64  `json:"count"`
}

// OverviewResponse is the admin dashboard overview payload.
type OverviewResponse struct {
	Users struct {
		Total        int64        `json:"total"`
		Active       int64        `json:"active"`
		NewThisMonth int64        `json:"newThisMonth"`
		Growth       []dailyCount `json:"growth"`
	} `json:"users"`
	Analyses struct {
		Total             int64            `json:"total"`
		ThisMonth         int64            `json:"thisMonth"`
		Today             int64            `json:"today"`
		SeverityBreakdown map[string]int64 `json:"severityBreakdown"`
	} `json:"analyses"`
	Insights struct {
		CommonConditions []conditionCount `json:"commonConditions"`
		EmergencyRate    float64          `json:"emergencyRate"`
	} `json:"insights"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// GetOverview returns the dashboard overview rollups.
func (h *AdminHandler) GetOverview(c *gin.Context) {
	now := time.Now()
	thirtyDaysAgo := now.AddDate(0, 0, -30)
	sevenDaysAgo := now.AddDate(0, 0, -7)
	y, m, d := now.Date()
	startOfToday := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	var resp OverviewResponse

	// User statistics
	userQuery := h.DB.Model(&models.User{}).Where("role = ?", models.RoleUser)
	if err := userQuery.Count(&resp.Users.Total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count users: "+err.Error())
		return
	}
	h.DB.Model(&models.User{}).
		Where("role = ? AND last_active >= ?", models.RoleUser, sevenDaysAgo).
		Count(&resp.Users.Active)
	h.DB.Model(&models.User{}).
		Where("role = ? AND created_at >= ?", models.RoleUser, thirtyDaysAgo).
		Count(&resp.Users.NewThisMonth)

	if err := h.DB.Model(&models.User{}).
		Select("DATE(created_at) as day, count(*) as count").
		Where("role = ? AND created_at >= ?", models.RoleUser, thirtyDaysAgo).
		Group("DATE(created_at)").
		Order("day asc").
		Scan(&resp.Users.Growth).Error; err != nil {
		utils.InternalServerError(c, "Failed to aggregate user growth: "+err.Error())
		return
	}

	// Analysis statistics
	h.DB.Model(&models.SymptomAnalysis{}).Count(&resp.Analyses.Total)
	h.DB.Model(&models.SymptomAnalysis{}).
		Where("created_at >= ?", thirtyDaysAgo).
		Count(&resp.Analyses.ThisMonth)
	h.DB.Model(&models.SymptomAnalysis{}).
		Where("created_at >= ?", startOfToday).
		Count(&resp.Analyses.Today)

	var severityRows []severityCount
	if err := h.DB.Model(&models.SymptomAnalysis{}).
		Select("severity, count(*) as count").
		Where("created_at >= ?", thirtyDaysAgo).
		Group("severity").
		Scan(&severityRows).Error; err != nil {
		utils.InternalServerError(c, "Failed to aggregate severities: "+err.Error())
		return
	}
	resp.Analyses.SeverityBreakdown = make(map[string]int64, len(severityRows))
	for _, row := range severityRows {
		resp.Analyses.SeverityBreakdown[row.Severity] = row.Count
	}

	// Insights
	conditions, err := h.topConditions(thirtyDaysAgo, now, 10)
	if err != nil {
		utils.InternalServerError(c, "Failed to aggregate conditions: "+err.Error())
		return
	}
	resp.Insights.CommonConditions = conditions
	if resp.Analyses.ThisMonth > 0 {
		resp.Insights.EmergencyRate = float64(resp.Analyses.SeverityBreakdown["emergency"]) /
			float64(resp.Analyses.ThisMonth) * 100
	}

	resp.LastUpdated = now
	utils.Success(c, "Dashboard overview fetched successfully", resp)
}

// topConditions counts condition names across analyses in a time range.
// Conditions live in a JSON column, so the rollup happens in Go.
func (h *AdminHandler) topConditions(from, to time.Time, limit int) ([]conditionCount, error) {
	var analyses []models.SymptomAnalysis
	if err := h.DB.Select("conditions").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Find(&analyses).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, a := range analyses {
		for _, cond := range a.Conditions {
			counts[cond.Name]++
		}
	}

	result := make([]conditionCount, 0, len(counts))
	for name, count := range counts {
		result = append(result, conditionCount{Condition: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Condition < result[j].Condition
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// UserAnalyticsRow is one user in the admin user listing.
type UserAnalyticsRow struct {
	models.UserSanitized
	AnalysisCount int64 `json:"analysisCount"`
}

// UserAnalyticsResponse wraps a page of user analytics.
type UserAnalyticsResponse struct {
	Users      []UserAnalyticsRow `json:"users"`
	Pagination Pagination         `json:"pagination"`
}

// GetUserAnalytics lists users with their analysis counts, searchable by
// name or email and filterable by activity.
func (h *AdminHandler) GetUserAnalytics(c *gin.Context) {
	page, limit := parsePageParams(c, 50)

	query := h.DB.Model(&models.User{}).Where("role = ?", models.RoleUser)
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", pattern, pattern)
	}
	switch c.Query("status") {
	case "active":
		query = query.Where("last_active >= ?", time.Now().AddDate(0, 0, -7))
	case "inactive":
		query = query.Where("is_active = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count users: "+err.Error())
		return
	}

	var users []models.User
	if err := query.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch users: "+err.Error())
		return
	}

	rows := make([]UserAnalyticsRow, len(users))
	for i, u := range users {
		var count int64
		h.DB.Model(&models.SymptomAnalysis{}).Where("user_id = ?", u.ID).Count(&count)
		rows[i] = UserAnalyticsRow{UserSanitized: u.Sanitize(), AnalysisCount: count}
	}

	utils.Success(c, "User analytics fetched successfully", UserAnalyticsResponse{
		Users:      rows,
		Pagination: makePagination(page, limit, total),
	})
}

// GetAnalysisAnalytics lists analyses filtered by severity, user and date
// range, newest first.
func (h *AdminHandler) GetAnalysisAnalytics(c *gin.Context) {
	page, limit := parsePageParams(c, 50)

	query := h.DB.Model(&models.SymptomAnalysis{})
	if severity := c.Query("severity"); severity != "" {
		query = query.Where("severity = ?", severity)
	}
	if userID := c.Query("userId"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if from := c.Query("dateFrom"); from != "" {
		fromDate, err := time.Parse(dateLayout, from)
		if err != nil {
			utils.BadRequest(c, "Invalid dateFrom, expected YYYY-MM-DD")
			return
		}
		query = query.Where("created_at >= ?", fromDate)
	}
	if to := c.Query("dateTo"); to != "" {
		toDate, err := time.Parse(dateLayout, to)
		if err != nil {
			utils.BadRequest(c, "Invalid dateTo, expected YYYY-MM-DD")
			return
		}
		query = query.Where("created_at <= ?", toDate.AddDate(0, 0, 1))
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
		utils.InternalServerError(c, "Failed to fetch analyses: "+err.Error())
		return
	}

	utils.Success(c, "Analysis analytics fetched successfully", HistoryResponse{
		Analyses:   analyses,
		Pagination: makePagination(page, limit, total),
	})
}

// ReportResponse wraps a generated report with its period.
type ReportResponse struct {
	Report      interface{} `json:"report"`
	PeriodFrom  time.Time   `json:"periodFrom"`
	PeriodTo    time.Time   `json:"periodTo"`
	GeneratedAt time.Time   `json:"generatedAt"`
}

// GenerateReport builds a summary, user-registration or health-trends
// report over a date range (defaults to the last 30 days).
func (h *AdminHandler) GenerateReport(c *gin.Context) {
	startDate := time.Now().AddDate(0, 0, -30)
	endDate := time.Now()
	if from := c.Query("dateFrom"); from != "" {
		parsed, err := time.Parse(dateLayout, from)
		if err != nil {
			utils.BadRequest(c, "Invalid dateFrom, expected YYYY-MM-DD")
			return
		}
		startDate = parsed
	}
	if to := c.Query("dateTo"); to != "" {
		parsed, err := time.Parse(dateLayout, to)
		if err != nil {
			utils.BadRequest(c, "Invalid dateTo, expected YYYY-MM-DD")
			return
		}
		endDate = parsed.AddDate(0, 0, 1)
	}

	var report interface{}
	var err error
	switch c.DefaultQuery("type", "summary") {
	case "summary":
		report, err = h.summaryReport(startDate, endDate)
	case "users":
		report, err = h.userReport(startDate, endDate)
	case "health":
		report, err = h.healthReport(startDate, endDate)
	default:
		utils.BadRequest(c, "Invalid report type")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to generate report: "+err.Error())
		return
	}

	utils.Success(c, "Report generated successfully", ReportResponse{
		Report:      report,
		PeriodFrom:  startDate,
		PeriodTo:    endDate,
		GeneratedAt: time.Now(),
	})
}

type summaryReport struct {
	Title             string           `json:"title"`
	TotalUsers        int64            `json:"totalUsers"`
	TotalAnalyses     int64            `json:"totalAnalyses"`
	SeverityBreakdown map[string]int64 `json:"severityBreakdown"`
}

func (h *AdminHandler) summaryReport(from, to time.Time) (*summaryReport, error) {
	report := summaryReport{Title: "Summary Report"}

	if err := h.DB.Model(&models.User{}).
		Where("role = ? AND created_at >= ? AND created_at <= ?", models.RoleUser, from, to).
		Count(&report.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := h.DB.Model(&models.SymptomAnalysis{}).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Count(&report.TotalAnalyses).Error; err != nil {
		return nil, err
	}

	var severityRows []severityCount
	if err := h.DB.Model(&models.SymptomAnalysis{}).
		Select("severity, count(*) as count").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Group("severity").
		Scan(&severityRows).Error; err != nil {
		return nil, err
	}
	report.SeverityBreakdown = make(map[string]int64, len(severityRows))
	for _, row := range severityRows {
		report.SeverityBreakdown[row.Severity] = row.Count
	}

	return &report, nil
}

type userReport struct {
	Title         string       `json:"title"`
	Registrations []dailyCount `json:"registrations"`
}

func (h *AdminHandler) userReport(from, to time.Time) (*userReport, error) {
	report := userReport{Title: "User Registration Report"}
	if err := h.DB.Model(&models.User{}).
		Select("DATE(created_at) as day, count(*) as count").
		Where("role = ? AND created_at >= ? AND created_at <= ?", models.RoleUser, from, to).
		Group("DATE(created_at)").
		Order("day asc").
		Scan(&report.Registrations).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

type healthReport struct {
	Title         string           `json:"title"`
	TopConditions []conditionCount `json:"topConditions"`
}

func (h *AdminHandler) healthReport(from, to time.Time) (*healthReport, error) {
	conditions, err := h.topConditions(from, to, 20)
	if err != nil {
		return nil, err
	}
	return &healthReport{Title: "Health Trends Report", TopConditions: conditions}, nil
}
