// Package booking records appointments inside the user snapshot. Confirming
// a booking never talks to the clinic; the caller finalizes on the clinic's
// own page and this service only remembers the choice.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medmatch/medmatch/internal/domain/session"
)

var (
	// ErrMissingTimeSlot marks a confirmation without a selected time.
	ErrMissingTimeSlot = errors.New("a time slot is required")
	// ErrMissingDoctor marks a confirmation without a provider name.
	ErrMissingDoctor = errors.New("doctor name is required")
	// ErrAlreadyBooked marks a repeat booking of the same provider.
	ErrAlreadyBooked = errors.New("provider already booked")
)

type Service struct {
	users session.Repository
}

func NewService(users session.Repository) *Service {
	return &Service{users: users}
}

// Create prepends exactly one confirmed booking to the user snapshot. A
// provider can be booked once; the time slot must be chosen first.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, doctorName, specialty, timeSlot string) (*session.Booking, error) {
	doctorName = strings.TrimSpace(doctorName)
	if doctorName == "" {
		return nil, ErrMissingDoctor
	}
	if strings.TrimSpace(timeSlot) == "" {
		return nil, ErrMissingTimeSlot
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, b := range user.Bookings {
		if b.DoctorName == doctorName {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyBooked, doctorName)
		}
	}

	now := time.Now()
	booking := session.Booking{
		ID:         uuid.New(),
		DoctorName: doctorName,
		Specialty:  specialty,
		Time:       timeSlot,
		Date:       now.Format("1/2/2006"),
		Status:     session.BookingConfirmed,
		CreatedAt:  now,
	}
	user.Bookings = append([]session.Booking{booking}, user.Bookings...)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return &booking, nil
}

// List returns the user's bookings, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]session.Booking, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Bookings, nil
}
