package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"frontdesk-backend/models"
	"frontdesk-backend/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationInput is a booking request as it arrives from the desk or an
// OTA import. Dates are date-only strings; times of day are not part of the
// stay model.
type ReservationInput struct {
	GuestName     string                   `json:"guest_name"`
	Phone         string                   `json:"phone"`
	Email         string                   `json:"email,omitempty"`
	RoomNumber    *string                  `json:"room_number,omitempty"`
	RoomType      string                   `json:"room_type"`
	CheckIn       string                   `json:"check_in"`
	CheckOut      string                   `json:"check_out"`
	PricePerNight float64                  `json:"price_per_night"`
	Source        models.ReservationSource `json:"source,omitempty"`
	Status        models.ReservationStatus `json:"status,omitempty"`
	Notes         string                   `json:"notes,omitempty"`

	// InitialPayment is only accepted for an immediate walk-in check-in,
	// where invoice creation happens in the same transaction; any other
	// status rejects it.
	InitialPayment *PaymentInput `json:"initial_payment,omitempty"`
}

// ReservationPatch updates an existing reservation. Zero values mean
// "unchanged"; a room can be reassigned but not unassigned.
type ReservationPatch struct {
	GuestName     string   `json:"guest_name,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Email         string   `json:"email,omitempty"`
	RoomNumber    *string  `json:"room_number,omitempty"`
	RoomType      string   `json:"room_type,omitempty"`
	CheckIn       string   `json:"check_in,omitempty"`
	CheckOut      string   `json:"check_out,omitempty"`
	PricePerNight *float64 `json:"price_per_night,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

// ReservationService is the reservation store. The overlap check and the
// insert that follows it run as one atomic unit per (hotel, room number):
// a keyed mutex serializes local requests and SELECT ... FOR UPDATE inside
// the transaction guards against anything else.
type ReservationService struct {
	DB       *gorm.DB
	Invoices *InvoiceService
	Listener OccupancyListener

	locks *roomLocks
}

func NewReservationService(db *gorm.DB, invoices *InvoiceService, listener OccupancyListener) *ReservationService {
	if listener == nil {
		listener = LogOccupancyListener{}
	}
	return &ReservationService{
		DB:       db,
		Invoices: invoices,
		Listener: listener,
		locks:    newRoomLocks(),
	}
}

func parseStayDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ValidationError(field, "is required")
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return models.DateOnly(t), nil
	}
	return time.Time{}, ValidationError(field, "invalid date %q, want YYYY-MM-DD", value)
}

func (s *ReservationService) Get(hotelID, id uint) (models.Reservation, error) {
	var res models.Reservation
	err := s.DB.Where("hotel_id = ?", hotelID).First(&res, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return res, NotFoundError("reservation", id)
		}
		return res, fmt.Errorf("failed to load reservation: %w", err)
	}
	return res, nil
}

// List returns the hotel's reservations, optionally filtered by status
// and/or room number.
func (s *ReservationService) List(hotelID uint, status models.ReservationStatus, roomNumber string) ([]models.Reservation, error) {
	q := s.DB.Where("hotel_id = ?", hotelID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if roomNumber != "" {
		q = q.Where("room_number = ?", roomNumber)
	}
	var list []models.Reservation
	if err := q.Order("check_in ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return list, nil
}

// Create validates the request, runs the overlap check under the room's lock
// and persists the reservation. An immediate walk-in check-in also opens the
// invoice in the same transaction.
func (s *ReservationService) Create(hotelID uint, in ReservationInput) (models.Reservation, error) {
	var res models.Reservation

	if strings.TrimSpace(in.GuestName) == "" {
		return res, ValidationError("guest_name", "is required")
	}
	if in.PricePerNight < 0 {
		return res, ValidationError("price_per_night", "must not be negative")
	}
	checkIn, err := parseStayDate("check_in", in.CheckIn)
	if err != nil {
		return res, err
	}
	checkOut, err := parseStayDate("check_out", in.CheckOut)
	if err != nil {
		return res, err
	}
	if !checkOut.After(checkIn) {
		return res, ValidationError("check_out", "must be after check_in")
	}

	status := in.Status
	if status == "" {
		status = models.ReservationConfirmed
	}
	switch status {
	case models.ReservationTentative, models.ReservationConfirmed, models.ReservationCheckedIn:
	default:
		return res, ValidationError("status", "new reservations must be TENTATIVE, CONFIRMED or CHECKED_IN, got %s", status)
	}

	var roomNumber *string
	if in.RoomNumber != nil {
		trimmed := strings.TrimSpace(*in.RoomNumber)
		if trimmed != "" {
			roomNumber = &trimmed
		}
	}
	if status == models.ReservationCheckedIn && roomNumber == nil {
		return res, NewError(KindRoomNotAssigned, "cannot check in without an assigned room")
	}
	if in.InitialPayment != nil && status != models.ReservationCheckedIn {
		return res, ValidationError("initial_payment", "only allowed when creating a CHECKED_IN reservation")
	}

	source := in.Source
	if source == "" {
		source = models.SourceWalkIn
	}

	refCode, err := utils.GenerateReferenceCode("RSV", 8)
	if err != nil {
		return res, fmt.Errorf("failed to generate reference code: %w", err)
	}

	res = models.Reservation{
		HotelID:       hotelID,
		ReferenceCode: refCode,
		GuestName:     strings.TrimSpace(in.GuestName),
		Phone:         strings.TrimSpace(in.Phone),
		Email:         strings.TrimSpace(in.Email),
		RoomNumber:    roomNumber,
		RoomType:      in.RoomType,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Nights:        models.StayNights(checkIn, checkOut),
		PricePerNight: in.PricePerNight,
		Source:        source,
		Status:        status,
		PaymentStatus: models.PaymentNotPaid,
		Notes:         in.Notes,
	}
	if status == models.ReservationCheckedIn {
		now := time.Now().UTC()
		res.CheckedInAt = &now
	}

	if roomNumber != nil {
		unlock := s.locks.Lock(hotelID, *roomNumber)
		defer unlock()
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if roomNumber != nil {
			if err := s.checkOverlapTx(tx, hotelID, *roomNumber, checkIn, checkOut, 0); err != nil {
				return err
			}
		}
		if err := tx.Create(&res).Error; err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}
		if res.Status == models.ReservationCheckedIn {
			inv, err := s.Invoices.createForReservationTx(tx, &res, in.InitialPayment)
			if err != nil {
				return err
			}
			res.PaymentStatus = inv.PaymentStatusForReservation()
		}
		return nil
	})
	if err != nil {
		return models.Reservation{}, err
	}

	if res.Status == models.ReservationCheckedIn && res.RoomNumber != nil {
		s.Listener.OccupancyChanged(hotelID, *res.RoomNumber, models.RoomOccupied)
	}
	return res, nil
}

// checkOverlapTx rejects the stay if any non-cancelled reservation on the
// same room intersects the half-open [checkIn, checkOut) interval. Rows are
// locked so a concurrent insert on another connection waits behind us.
func (s *ReservationService) checkOverlapTx(tx *gorm.DB, hotelID uint, roomNumber string, checkIn, checkOut time.Time, excludeID uint) error {
	q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("hotel_id = ? AND room_number = ?", hotelID, roomNumber).
		Where("status <> ?", models.ReservationCancelled).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var conflicts []models.Reservation
	if err := q.Find(&conflicts).Error; err != nil {
		return fmt.Errorf("failed to check overlap: %w", err)
	}
	if len(conflicts) > 0 {
		c := conflicts[0]
		return NewError(KindRoomOverlap,
			"room %s is already reserved %s to %s (%s)",
			roomNumber,
			models.DateOnly(c.CheckIn).Format("2006-01-02"),
			models.DateOnly(c.CheckOut).Format("2006-01-02"),
			c.ReferenceCode)
	}
	return nil
}

// Update patches a reservation, re-running the overlap check when the room
// or the dates move.
func (s *ReservationService) Update(hotelID, id uint, patch ReservationPatch) (models.Reservation, error) {
	res, err := s.Get(hotelID, id)
	if err != nil {
		return res, err
	}
	if res.Status.Terminal() {
		return res, NewError(KindNotActive, "reservation %s is %s", res.ReferenceCode, res.Status)
	}

	checkIn := models.DateOnly(res.CheckIn)
	checkOut := models.DateOnly(res.CheckOut)
	datesChanged := false
	if patch.CheckIn != "" {
		if checkIn, err = parseStayDate("check_in", patch.CheckIn); err != nil {
			return res, err
		}
		datesChanged = true
	}
	if patch.CheckOut != "" {
		if checkOut, err = parseStayDate("check_out", patch.CheckOut); err != nil {
			return res, err
		}
		datesChanged = true
	}
	if !checkOut.After(checkIn) {
		return res, ValidationError("check_out", "must be after check_in")
	}
	if patch.PricePerNight != nil && *patch.PricePerNight < 0 {
		return res, ValidationError("price_per_night", "must not be negative")
	}

	roomNumber := res.RoomNumber
	roomChanged := false
	if patch.RoomNumber != nil {
		trimmed := strings.TrimSpace(*patch.RoomNumber)
		if trimmed == "" {
			return res, ValidationError("room_number", "must not be empty")
		}
		if roomNumber == nil || trimmed != *roomNumber {
			roomNumber = &trimmed
			roomChanged = true
		}
	}

	updates := map[string]interface{}{}
	if patch.GuestName != "" {
		updates["guest_name"] = strings.TrimSpace(patch.GuestName)
	}
	if patch.Phone != "" {
		updates["phone"] = strings.TrimSpace(patch.Phone)
	}
	if patch.Email != "" {
		updates["email"] = strings.TrimSpace(patch.Email)
	}
	if patch.RoomType != "" {
		updates["room_type"] = patch.RoomType
	}
	if patch.PricePerNight != nil {
		updates["price_per_night"] = *patch.PricePerNight
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}
	if datesChanged {
		updates["check_in"] = checkIn
		updates["check_out"] = checkOut
		updates["nights"] = models.StayNights(checkIn, checkOut)
	}
	if roomChanged {
		updates["room_number"] = *roomNumber
	}
	if len(updates) == 0 {
		return res, nil
	}

	needsOverlap := roomNumber != nil && (datesChanged || roomChanged)
	if needsOverlap {
		unlock := s.locks.Lock(hotelID, *roomNumber)
		defer unlock()
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if needsOverlap {
			if err := s.checkOverlapTx(tx, hotelID, *roomNumber, checkIn, checkOut, res.ID); err != nil {
				return err
			}
		}
		if err := tx.Model(&models.Reservation{}).Where("id = ?", res.ID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return res, err
	}
	return s.Get(hotelID, id)
}

// CheckIn marks physical arrival.
func (s *ReservationService) CheckIn(hotelID, id uint) (models.Reservation, error) {
	var res models.Reservation
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("hotel_id = ?", hotelID).
			First(&res, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("reservation", id)
			}
			return fmt.Errorf("failed to load reservation: %w", err)
		}

		if res.Status == models.ReservationCheckedIn {
			return NewError(KindAlreadyCheckedIn, "reservation %s is already checked in", res.ReferenceCode)
		}
		if res.Status.Terminal() {
			return NewError(KindNotActive, "reservation %s is %s", res.ReferenceCode, res.Status)
		}
		if res.RoomNumber == nil {
			return NewError(KindRoomNotAssigned, "reservation %s has no room assigned", res.ReferenceCode)
		}

		now := time.Now().UTC()
		if err := tx.Model(&models.Reservation{}).Where("id = ?", res.ID).
			Updates(map[string]interface{}{
				"status":        models.ReservationCheckedIn,
				"checked_in_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to check in reservation: %w", err)
		}
		res.Status = models.ReservationCheckedIn
		res.CheckedInAt = &now
		return nil
	})
	if err != nil {
		return models.Reservation{}, err
	}

	if res.RoomNumber != nil {
		s.Listener.OccupancyChanged(hotelID, *res.RoomNumber, models.RoomOccupied)
	}
	return res, nil
}

// Cancel is allowed from any non-terminal state. Invoices are untouched;
// refund policy is not this store's problem.
func (s *ReservationService) Cancel(hotelID, id uint) (models.Reservation, error) {
	var res models.Reservation
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("hotel_id = ?", hotelID).
			First(&res, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("reservation", id)
			}
			return fmt.Errorf("failed to load reservation: %w", err)
		}
		if res.Status.Terminal() {
			return NewError(KindNotActive, "reservation %s is %s", res.ReferenceCode, res.Status)
		}

		now := time.Now().UTC()
		if err := tx.Model(&models.Reservation{}).Where("id = ?", res.ID).
			Updates(map[string]interface{}{
				"status":       models.ReservationCancelled,
				"cancelled_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to cancel reservation: %w", err)
		}
		res.Status = models.ReservationCancelled
		res.CancelledAt = &now
		return nil
	})
	if err != nil {
		return models.Reservation{}, err
	}

	if res.RoomNumber != nil {
		s.Listener.OccupancyChanged(hotelID, *res.RoomNumber, models.RoomVacant)
	}
	return res, nil
}
