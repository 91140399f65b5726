package models

import (
	"reflect"
	"testing"
	"time"
)

func TestTimeSlotGrid(t *testing.T) {
	if len(TimeSlots) != 16 {
		t.Fatalf("grid has %d slots, want 16", len(TimeSlots))
	}
	if TimeSlots[0] != "09:00" {
		t.Errorf("first slot = %q, want 09:00", TimeSlots[0])
	}
	if TimeSlots[len(TimeSlots)-1] != "16:30" {
		t.Errorf("last slot = %q, want 16:30", TimeSlots[len(TimeSlots)-1])
	}
}

func TestIsValidTimeSlot(t *testing.T) {
	tests := []struct {
		slot string
		want bool
	}{
		{"09:00", true},
		{"16:30", true},
		{"12:30", true},
		{"17:00", false},
		{"08:30", false},
		{"09:15", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidTimeSlot(tt.slot); got != tt.want {
			t.Errorf("IsValidTimeSlot(%q) = %v, want %v", tt.slot, got, tt.want)
		}
	}
}

func TestAvailableSlots(t *testing.T) {
	// Empty grid returns all slots.
	if got := AvailableSlots(nil); !reflect.DeepEqual(got, TimeSlots) {
		t.Errorf("AvailableSlots(nil) = %v, want full grid", got)
	}

	// One held slot removes exactly that slot, preserving order.
	got := AvailableSlots([]string{"10:00"})
	if len(got) != 15 {
		t.Fatalf("got %d slots after holding one, want 15", len(got))
	}
	for _, s := range got {
		if s == "10:00" {
			t.Error("held slot 10:00 still listed as available")
		}
	}
	if got[0] != "09:00" || got[2] != "10:30" {
		t.Errorf("grid order not preserved: %v", got)
	}

	// Held slots outside the grid are ignored.
	if got := AvailableSlots([]string{"17:00"}); len(got) != 16 {
		t.Errorf("holding an off-grid slot removed grid slots: %v", got)
	}
}

func TestComputeSlotKey(t *testing.T) {
	date := time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)
	got := ComputeSlotKey("Dr. Smith", date, "09:30")
	want := "Dr. Smith|2026-03-14|09:30"
	if got != want {
		t.Errorf("ComputeSlotKey = %q, want %q", got, want)
	}

	// Only the date part participates, not the time of day.
	other := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	if ComputeSlotKey("Dr. Smith", other, "09:30") != want {
		t.Error("slot key depends on time of day")
	}
}

func TestHoldsSlot(t *testing.T) {
	tests := []struct {
		status AppointmentStatus
		want   bool
	}{
		{StatusPending, true},
		{StatusConfirmed, true},
		{StatusRejected, false},
		{StatusCompleted, false},
		{StatusCancelled, false},
	}
	for _, tt := range tests {
		a := Appointment{Status: tt.status}
		if got := a.HoldsSlot(); got != tt.want {
			t.Errorf("HoldsSlot with status %q = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestSyncSlotKeyFollowsStatus(t *testing.T) {
	a := Appointment{
		DoctorName:      "Dr. Smith",
		AppointmentDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		TimeSlot:        "09:30",
		Status:          StatusPending,
	}

	a.syncSlotKey()
	if a.SlotKey == nil {
		t.Fatal("pending appointment has no slot key")
	}
	if *a.SlotKey != "Dr. Smith|2026-03-14|09:30" {
		t.Errorf("slot key = %q", *a.SlotKey)
	}

	// Cancelling releases the slot so a new booking can take it.
	a.Status = StatusCancelled
	a.syncSlotKey()
	if a.SlotKey != nil {
		t.Errorf("cancelled appointment still holds slot key %q", *a.SlotKey)
	}

	a.Status = StatusConfirmed
	a.syncSlotKey()
	if a.SlotKey == nil {
		t.Error("confirmed appointment has no slot key")
	}
}
