package services

import (
	"errors"
	"fmt"
	"time"

	"frontdesk-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CheckoutState tracks the settlement walk. The whole walk runs inside one
// transaction, so ABORTED always means "nothing changed".
type CheckoutState string

const (
	CheckoutStarted   CheckoutState = "STARTED"
	CheckoutValidated CheckoutState = "VALIDATED"
	CheckoutSettled   CheckoutState = "SETTLED"
	CheckoutClosed    CheckoutState = "CLOSED"
	CheckoutAborted   CheckoutState = "ABORTED"
)

// CheckoutResult reports the settled stay: the completed reservation, the
// invoice after settlement and what the occupancy resolver will say for the
// room on its next read.
type CheckoutResult struct {
	State       CheckoutState      `json:"state"`
	Reservation models.Reservation `json:"reservation"`
	Invoice     models.Invoice     `json:"invoice"`
	RoomStatus  models.RoomStatus  `json:"room_status"`
}

// CheckoutService composes the reservation store and the invoice ledger into
// the front-desk checkout action: settling the invoice, completing the
// reservation and freeing the room happen atomically or not at all.
type CheckoutService struct {
	DB       *gorm.DB
	Invoices *InvoiceService
	Listener OccupancyListener
}

func NewCheckoutService(db *gorm.DB, invoices *InvoiceService, listener OccupancyListener) *CheckoutService {
	if listener == nil {
		listener = LogOccupancyListener{}
	}
	return &CheckoutService{DB: db, Invoices: invoices, Listener: listener}
}

// Checkout settles the reservation's invoice with the tendered payment and
// completes the stay. A zero amount is an unpaid checkout: the invoice keeps
// its full outstanding balance. Totals are always recomputed from the
// reservation, never trusted from the request.
func (s *CheckoutService) Checkout(hotelID, reservationID uint, payment PaymentInput) (CheckoutResult, error) {
	result := CheckoutResult{State: CheckoutAborted}

	if payment.Amount < 0 {
		return result, NewError(KindInvalidAmount, "payment amount must not be negative, got %.2f", payment.Amount)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// STARTED: the reservation must exist and be an active stay.
		var res models.Reservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("hotel_id = ?", hotelID).
			First(&res, reservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("reservation", reservationID)
			}
			return fmt.Errorf("failed to load reservation: %w", err)
		}
		if res.Status != models.ReservationCheckedIn && res.Status != models.ReservationConfirmed {
			return NewError(KindNotActive, "reservation %s is %s, nothing to check out", res.ReferenceCode, res.Status)
		}

		// VALIDATED / SETTLED: reuse or create the stay's invoice, then
		// record the payment against it.
		var inv models.Invoice
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("hotel_id = ? AND reservation_id = ?", hotelID, res.ID).
			First(&inv).Error
		switch {
		case err == nil:
			if err := tx.Where("invoice_id = ?", inv.ID).Order("id ASC").
				Find(&inv.Payments).Error; err != nil {
				return fmt.Errorf("failed to load payments: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			inv, err = s.Invoices.createForReservationTx(tx, &res, nil)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("failed to load invoice: %w", err)
		}

		if payment.Amount > 0 {
			if err := s.Invoices.appendPaymentTx(tx, &inv, payment); err != nil {
				return err
			}
			res.PaymentStatus = inv.PaymentStatusForReservation()
		}

		// CLOSED: complete the stay. No room write is needed; with no
		// active reservation left, the resolver reports VACANT on its own.
		now := time.Now().UTC()
		if err := tx.Model(&models.Reservation{}).Where("id = ?", res.ID).
			Updates(map[string]interface{}{
				"status":       models.ReservationCompleted,
				"completed_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to complete reservation: %w", err)
		}
		res.Status = models.ReservationCompleted
		res.CompletedAt = &now

		result = CheckoutResult{
			State:       CheckoutClosed,
			Reservation: res,
			Invoice:     inv,
			RoomStatus:  models.RoomVacant,
		}
		return nil
	})
	if err != nil {
		return CheckoutResult{State: CheckoutAborted}, err
	}

	if result.Reservation.RoomNumber != nil {
		s.Listener.OccupancyChanged(hotelID, *result.Reservation.RoomNumber, models.RoomVacant)
	}
	return result, nil
}
