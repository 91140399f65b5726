package handlers

import (
	"errors"
	"time"

	"health-triage-server/internal/middleware"
	"health-triage-server/internal/models"
	"health-triage-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB *gorm.DB
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB) *AppointmentHandler {
	return &AppointmentHandler{DB: db}
}

const dateLayout = "2006-01-02"

// BookAppointmentRequest represents the request body for booking.
type BookAppointmentRequest struct {
	DoctorName       string `json:"doctorName" binding:"required"`
	DoctorSpecialty  string `json:"doctorSpecialty" binding:"required"`
	AppointmentDate  string `json:"appointmentDate" binding:"required"`
	TimeSlot         string `json:"timeSlot" binding:"required"`
	ConsultationType string `json:"consultationType" binding:"omitempty,oneof=video in-person phone"`
	Symptoms         string `json:"symptoms" binding:"required"`
	AdditionalNotes  string `json:"additionalNotes"`
}

// BookAppointment books a slot for the logged-in user. Past dates are
// rejected on a date-only comparison; a slot held by a pending or confirmed
// appointment for the same doctor and date yields a conflict.
func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	var req BookAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	date, err := time.Parse(dateLayout, req.AppointmentDate)
	if err != nil {
		utils.BadRequest(c, "Invalid appointment date, expected YYYY-MM-DD")
		return
	}
	if !models.IsValidTimeSlot(req.TimeSlot) {
		utils.BadRequest(c, "Invalid time slot")
		return
	}

	// Date-only comparison: booking for later today is allowed.
	y, m, d := time.Now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		utils.BadRequest(c, "Cannot book appointments in the past")
		return
	}

	consultationType := models.ConsultationType(req.ConsultationType)
	if consultationType == "" {
		consultationType = models.ConsultationVideo
	}

	// Pre-check for a friendlier error; the unique slot key closes the
	// remaining race at the storage layer.
	var existing int64
	if err := h.DB.Model(&models.Appointment{}).
		Where("slot_key = ?", models.ComputeSlotKey(req.DoctorName, date, req.TimeSlot)).
		Count(&existing).Error; err != nil {
		utils.InternalServerError(c, "Database error checking slot: "+err.Error())
		return
	}
	if existing > 0 {
		utils.Conflict(c, "This time slot is already booked. Please choose another time.")
		return
	}

	appointment := models.Appointment{
		UserID:           userID,
		DoctorName:       req.DoctorName,
		DoctorSpecialty:  req.DoctorSpecialty,
		AppointmentDate:  date,
		TimeSlot:         req.TimeSlot,
		ConsultationType: consultationType,
		Symptoms:         req.Symptoms,
		AdditionalNotes:  req.AdditionalNotes,
		Status:           models.StatusPending,
	}

	if err := h.DB.Create(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Conflict(c, "This time slot is already booked. Please choose another time.")
			return
		}
		utils.InternalServerError(c, "Failed to book appointment: "+err.Error())
		return
	}

	utils.Created(c, "Appointment booked successfully! Awaiting confirmation.", appointment)
}

// AvailableSlotsResponse lists the free and held slots for a doctor/date.
type AvailableSlotsResponse struct {
	Date           string   `json:"date"`
	AvailableSlots []string `json:"availableSlots"`
	BookedSlots    []string `json:"bookedSlots"`
	TotalSlots     int      `json:"totalSlots"`
	AvailableCount int      `json:"availableCount"`
}

// GetAvailableSlots returns the fixed slot grid minus slots held by pending
// or confirmed appointments for the given doctor and date.
func (h *AppointmentHandler) GetAvailableSlots(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		utils.BadRequest(c, "Please provide a date")
		return
	}
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	query := h.DB.Model(&models.Appointment{}).
		Where("appointment_date = ? AND status IN ?", date,
			[]models.AppointmentStatus{models.StatusPending, models.StatusConfirmed})
	if doctor := c.Query("doctor"); doctor != "" {
		query = query.Where("doctor_name = ?", doctor)
	}

	var bookedSlots []string
	if err := query.Pluck("time_slot", &bookedSlots).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch booked slots: "+err.Error())
		return
	}

	available := models.AvailableSlots(bookedSlots)
	utils.Success(c, "Available slots fetched successfully", AvailableSlotsResponse{
		Date:           dateStr,
		AvailableSlots: available,
		BookedSlots:    bookedSlots,
		TotalSlots:     len(models.TimeSlots),
		AvailableCount: len(available),
	})
}

// AppointmentStats counts appointments per status for the admin listing.
type AppointmentStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Rejected  int64 `json:"rejected"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
}

// AppointmentListResponse wraps an appointment listing.
type AppointmentListResponse struct {
	Appointments []models.Appointment `json:"appointments"`
	Stats        *AppointmentStats    `json:"stats,omitempty"`
}

// GetAppointments returns the caller's appointments; admins get all
// appointments with optional status/date/doctor filters plus status counts.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	query := h.DB.Model(&models.Appointment{}).Preload("User").
		Order("appointment_date asc, time_slot asc")

	if userRole != models.RoleAdmin {
		query = query.Where("user_id = ?", userID)
	} else {
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if dateStr := c.Query("date"); dateStr != "" {
			date, err := time.Parse(dateLayout, dateStr)
			if err != nil {
				utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
				return
			}
			query = query.Where("appointment_date = ?", date)
		}
		if doctor := c.Query("doctor"); doctor != "" {
			query = query.Where("doctor_name LIKE ?", "%"+doctor+"%")
		}
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	resp := AppointmentListResponse{Appointments: appointments}
	if userRole == models.RoleAdmin {
		stats := AppointmentStats{Total: int64(len(appointments))}
		for _, a := range appointments {
			switch a.Status {
			case models.StatusPending:
				stats.Pending++
			case models.StatusConfirmed:
				stats.Confirmed++
			case models.StatusRejected:
				stats.Rejected++
			case models.StatusCompleted:
				stats.Completed++
			case models.StatusCancelled:
				stats.Cancelled++
			}
		}
		resp.Stats = &stats
	}

	utils.Success(c, "Appointments fetched successfully", resp)
}

// GetAppointmentByID returns a single appointment. Owner or admin only.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	var appointment models.Appointment
	if err := h.DB.Preload("User").First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if appointment.UserID != userID && userRole != models.RoleAdmin {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	utils.Success(c, "Appointment fetched successfully", appointment)
}

// UpdateAppointmentStatusRequest represents the request body for a status change.
type UpdateAppointmentStatusRequest struct {
	Status      models.AppointmentStatus `json:"status" binding:"required,oneof=pending confirmed rejected completed cancelled"`
	AdminNotes  string                   `json:"adminNotes"`
	MeetingLink string                   `json:"meetingLink"`
}

// UpdateAppointmentStatus changes an appointment's status. Admin only; the
// route enforces the role. Saving re-derives the slot key, so rejecting or
// cancelling releases the slot for rebooking.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateAppointmentStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	appointment.Status = req.Status
	if req.AdminNotes != "" {
		appointment.AdminNotes = req.AdminNotes
	}
	if req.MeetingLink != "" && appointment.ConsultationType == models.ConsultationVideo {
		appointment.MeetingLink = req.MeetingLink
	}

	if err := h.DB.Save(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Conflict(c, "Another appointment already holds this slot.")
			return
		}
		utils.InternalServerError(c, "Failed to update appointment status: "+err.Error())
		return
	}

	utils.Success(c, "Appointment status updated successfully", appointment)
}

// CancelAppointment cancels an appointment. The owning user or an admin may
// cancel; completed appointments cannot be cancelled.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if appointment.UserID != userID && userRole != models.RoleAdmin {
		utils.Forbidden(c, "You are not authorized to cancel this appointment")
		return
	}

	if appointment.Status == models.StatusCompleted {
		utils.BadRequest(c, "Cannot cancel a completed appointment")
		return
	}

	appointment.Status = models.StatusCancelled
	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to cancel appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment cancelled successfully", appointment)
}
