package session

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus tracks the lifecycle of an appointment.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingPending   BookingStatus = "pending"
	BookingCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingConfirmed, BookingPending, BookingCompleted:
		return true
	}
	return false
}

// Booking is one appointment held inside a user snapshot, newest first.
type Booking struct {
	ID         uuid.UUID     `json:"id"`
	DoctorName string        `json:"doctorName"`
	Specialty  string        `json:"specialty"`
	Time       string        `json:"time"`
	Date       string        `json:"date"`
	Status     BookingStatus `json:"status"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// User is the client session snapshot. Login fabricates it; there is no
// credential check behind it.
type User struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	AgeGroup string    `json:"ageGroup,omitempty"`
	Bookings []Booking `json:"bookings"`
}

// Step is a client flow state. The server does not track it per user; the
// type exists so clients and tests agree on the allowed transitions.
type Step string

const (
	StepConsent   Step = "consent"
	StepInput     Step = "input"
	StepAnalyzing Step = "analyzing"
	StepResult    Step = "result"
	StepEmergency Step = "emergency"
	StepProfile   Step = "profile"
)

func (s Step) Valid() bool {
	switch s {
	case StepConsent, StepInput, StepAnalyzing, StepResult, StepEmergency, StepProfile:
		return true
	}
	return false
}

// stepTransitions enumerates the forward edges of the flow. Reset (any step
// back to consent) and opening the profile are always allowed.
var stepTransitions = map[Step][]Step{
	StepConsent:   {StepInput},
	StepInput:     {StepAnalyzing},
	StepAnalyzing: {StepResult, StepEmergency, StepInput},
	StepResult:    {},
	StepEmergency: {},
	StepProfile:   {StepInput},
}

// CanTransition reports whether moving from one step to another is allowed.
func CanTransition(from, to Step) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if to == StepConsent || to == StepProfile {
		return true
	}
	for _, next := range stepTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
