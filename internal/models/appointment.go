package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusRejected  AppointmentStatus = "rejected"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// ConsultationType represents how the consultation is held
type ConsultationType string

const (
	ConsultationVideo    ConsultationType = "video"
	ConsultationInPerson ConsultationType = "in-person"
	ConsultationPhone    ConsultationType = "phone"
)

// TimeSlots is the fixed booking grid: sixteen 30-minute slots between
// 09:00 and 17:00.
var TimeSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"12:00", "12:30", "13:00", "13:30", "14:00", "14:30",
	"15:00", "15:30", "16:00", "16:30",
}

// IsValidTimeSlot reports whether slot belongs to the booking grid.
func IsValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// AvailableSlots returns the grid minus the given held slots, preserving
// grid order.
func AvailableSlots(held []string) []string {
	heldSet := make(map[string]struct{}, len(held))
	for _, s := range held {
		heldSet[s] = struct{}{}
	}
	available := make([]string, 0, len(TimeSlots))
	for _, s := range TimeSlots {
		if _, ok := heldSet[s]; !ok {
			available = append(available, s)
		}
	}
	return available
}

// Appointment represents a scheduled consultation with a doctor.
type Appointment struct {
	BaseModel
	UserID           string            `gorm:"size:36;index" json:"userId"`
	DoctorName       string            `gorm:"size:100;not null" json:"doctorName"`
	DoctorSpecialty  string            `gorm:"size:100;not null" json:"doctorSpecialty"`
	AppointmentDate  time.Time         `gorm:"index" json:"appointmentDate"`
	TimeSlot         string            `gorm:"size:5;not null" json:"timeSlot"`
	ConsultationType ConsultationType  `gorm:"size:20;default:'video'" json:"consultationType"`
	Status           AppointmentStatus `gorm:"size:20;default:'pending';index" json:"status"`
	Symptoms         string            `gorm:"type:text" json:"symptoms"`
	AdditionalNotes  string            `gorm:"type:text" json:"additionalNotes"`
	AdminNotes       string            `gorm:"type:text" json:"adminNotes"`
	MeetingLink      string            `gorm:"size:255" json:"meetingLink"`

	// SlotKey enforces the one-active-booking-per-slot rule at the storage
	// layer: it is "<doctor>|<date>|<slot>" while the appointment holds the
	// slot (pending or confirmed) and NULL otherwise, under a unique index.
	// MySQL ignores NULLs in unique indexes, so released slots never collide.
	SlotKey *string `gorm:"size:160;uniqueIndex" json:"-"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// HoldsSlot reports whether this appointment's status blocks its time slot.
func (a *Appointment) HoldsSlot() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// ComputeSlotKey derives the uniqueness key for a (doctor, date, slot) triple.
func ComputeSlotKey(doctorName string, date time.Time, slot string) string {
	return fmt.Sprintf("%s|%s|%s", doctorName, date.Format("2006-01-02"), slot)
}

// syncSlotKey keeps SlotKey aligned with the current status.
func (a *Appointment) syncSlotKey() {
	if a.HoldsSlot() {
		key := ComputeSlotKey(a.DoctorName, a.AppointmentDate, a.TimeSlot)
		a.SlotKey = &key
	} else {
		a.SlotKey = nil
	}
}

// BeforeCreate derives the slot key so a concurrent double booking fails on
// the unique index rather than racing a check-then-insert.
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if err := a.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	a.syncSlotKey()
	return nil
}

// BeforeSave re-derives the slot key on status transitions so cancelled,
// rejected and completed appointments release their slot.
func (a *Appointment) BeforeSave(tx *gorm.DB) error {
	a.syncSlotKey()
	return nil
}
