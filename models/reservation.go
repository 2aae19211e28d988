package models

import (
	"time"

	"gorm.io/gorm"
)

type ReservationStatus string

const (
	ReservationTentative ReservationStatus = "TENTATIVE"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCheckedIn ReservationStatus = "CHECKED_IN"
	ReservationCompleted ReservationStatus = "COMPLETED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// Terminal reports whether no further transitions are allowed.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationCompleted || s == ReservationCancelled
}

type PaymentStatus string

const (
	PaymentNotPaid PaymentStatus = "NOT_PAID"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentPaid    PaymentStatus = "PAID"
)

type ReservationSource string

const (
	SourceWalkIn ReservationSource = "WALK_IN"
	SourceOTA    ReservationSource = "ONLINE_OTA"
	SourcePhone  ReservationSource = "PHONE"
)

type Reservation struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	HotelID       uint   `json:"hotel_id" gorm:"column:hotel_id;index"`
	ReferenceCode string `json:"reference_code" gorm:"column:reference_code;uniqueIndex;size:64"`

	GuestName string `json:"guest_name" gorm:"column:guest_name;size:255"`
	Phone     string `json:"phone" gorm:"size:50"`
	Email     string `json:"email,omitempty" gorm:"size:150"`

	// RoomNumber stays nil until a physical room is assigned; the overlap
	// invariant only applies once it is set.
	RoomNumber *string `json:"room_number,omitempty" gorm:"column:room_number;index;type:varchar(50)"`
	RoomType   string  `json:"room_type" gorm:"column:room_type;size:100"`

	CheckIn  time.Time `json:"check_in" gorm:"column:check_in"`
	CheckOut time.Time `json:"check_out" gorm:"column:check_out"`
	Nights   int       `json:"nights"`

	PricePerNight float64           `json:"price_per_night" gorm:"column:price_per_night;type:decimal(10,2)"`
	Source        ReservationSource `json:"source" gorm:"size:20;default:'WALK_IN'"`
	Status        ReservationStatus `json:"status" gorm:"size:20;index"`
	PaymentStatus PaymentStatus     `json:"payment_status" gorm:"column:payment_status;size:20;default:'NOT_PAID'"`
	Notes         string            `json:"notes,omitempty" gorm:"type:text"`

	CheckedInAt *time.Time `json:"checked_in_at,omitempty" gorm:"column:checked_in_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"column:completed_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty" gorm:"column:cancelled_at"`
}

// DateOnly strips the time-of-day component, keeping the location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StayNights returns the number of nights between two date-only stamps,
// never less than 1 for a valid (check_out > check_in) range.
func StayNights(checkIn, checkOut time.Time) int {
	n := int(DateOnly(checkOut).Sub(DateOnly(checkIn)).Hours() / 24)
	if n < 1 {
		n = 1
	}
	return n
}

// Overlaps reports whether the two half-open stay intervals
// [check_in, check_out) intersect.
func (r *Reservation) Overlaps(checkIn, checkOut time.Time) bool {
	return DateOnly(r.CheckIn).Before(DateOnly(checkOut)) &&
		DateOnly(checkIn).Before(DateOnly(r.CheckOut))
}

// ActiveOn reports whether the reservation occupies its room on the given
// day: a checked-in guest always does, a confirmed or tentative one only
// while check_in <= day < check_out (the check-out day is free).
func (r *Reservation) ActiveOn(day time.Time) bool {
	switch r.Status {
	case ReservationCheckedIn:
		return true
	case ReservationConfirmed, ReservationTentative:
		d := DateOnly(day)
		return !d.Before(DateOnly(r.CheckIn)) && d.Before(DateOnly(r.CheckOut))
	default:
		return false
	}
}
