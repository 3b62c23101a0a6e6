package model

import (
	"github.com/brightsmile/scheduling-api/pkg/timefmt"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// AppointmentRecord is the backend's representation of a confirmed
// appointment. The backend owns its lifecycle; this service reads it.
type AppointmentRecord struct {
	ID              string            `json:"id"`
	DoctorID        string            `json:"doctorId"`
	DoctorName      string            `json:"doctorName,omitempty"`
	PatientID       string            `json:"patientId"`
	AppointmentDate timefmt.DateOnly  `json:"appointmentDate"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	Status          AppointmentStatus `json:"status"`
	SlotType        string            `json:"slotType,omitempty"`
	Symptoms        string            `json:"symptoms,omitempty"`
}

// AppointmentDraft is a not-yet-submitted booking or reschedule request. It
// exists for one attempt and is discarded after submission succeeds or fails.
// Domain fields carry no binding tags: the draft validator reports every
// violated rule at once, which gin's short-circuiting binding cannot do.
type AppointmentDraft struct {
	DoctorID        string           `json:"doctorId"`
	AppointmentDate timefmt.DateOnly `json:"appointmentDate"`
	StartTime       string           `json:"startTime"` // canonical HH:MM
	EndTime         string           `json:"endTime"`   // canonical HH:MM
	SlotType        string           `json:"slotType"`
	Symptoms        string           `json:"symptoms,omitempty"`
}

// RescheduleRequest is the wire body for the backend reschedule endpoint.
type RescheduleRequest struct {
	NewDate      timefmt.DateOnly `json:"newDate"`
	NewStartTime string           `json:"newStartTime"`
	NewEndTime   string           `json:"newEndTime"`
	NewSlotType  string           `json:"newSlotType"`
}

// Draft converts the reschedule body into a draft for validation. DoctorID is
// taken from the appointment being moved.
func (r RescheduleRequest) Draft(doctorID string) AppointmentDraft {
	return AppointmentDraft{
		DoctorID:        doctorID,
		AppointmentDate: r.NewDate,
		StartTime:       r.NewStartTime,
		EndTime:         r.NewEndTime,
		SlotType:        r.NewSlotType,
	}
}

// AppointmentList partitions records relative to the clinic's "today".
type AppointmentList struct {
	Upcoming []AppointmentRecord `json:"upcoming"`
	Past     []AppointmentRecord `json:"past"`
}
