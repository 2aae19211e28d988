package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"frontdesk-backend/models"
	"frontdesk-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentInput is a payment as tendered at the desk, before it becomes an
// immutable ledger row.
type PaymentInput struct {
	Amount      float64              `json:"amount"`
	Method      models.PaymentMethod `json:"method"`
	PaidAt      *time.Time           `json:"paid_at,omitempty"`
	ReferenceID string               `json:"reference_id,omitempty"`
	CollectedBy string               `json:"collected_by,omitempty"`
}

// InvoiceService is the invoice ledger. Payments are append-only; paid
// amount, balance and status are derived in models.Invoice.Recalculate and
// written back here, nowhere else.
type InvoiceService struct {
	DB       *gorm.DB
	Settings *SettingsService
}

func NewInvoiceService(db *gorm.DB, settings *SettingsService) *InvoiceService {
	return &InvoiceService{DB: db, Settings: settings}
}

func (s *InvoiceService) Get(hotelID, id uint) (models.Invoice, error) {
	var inv models.Invoice
	err := s.DB.Preload("Payments").Where("hotel_id = ?", hotelID).First(&inv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return inv, NotFoundError("invoice", id)
		}
		return inv, fmt.Errorf("failed to load invoice: %w", err)
	}
	return inv, nil
}

func (s *InvoiceService) ListByHotel(hotelID uint) ([]models.Invoice, error) {
	var list []models.Invoice
	if err := s.DB.Preload("Payments").
		Where("hotel_id = ?", hotelID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return list, nil
}

// CreateForReservation opens an invoice for a stay: subtotal is nightly price
// times nights, tax comes from the hotel's settings, and an optional payment
// tendered at booking time is appended in the same transaction.
func (s *InvoiceService) CreateForReservation(res *models.Reservation, initial *PaymentInput) (models.Invoice, error) {
	var inv models.Invoice
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		created, err := s.createForReservationTx(tx, res, initial)
		if err != nil {
			return err
		}
		inv = created
		return nil
	})
	return inv, err
}

func (s *InvoiceService) createForReservationTx(tx *gorm.DB, res *models.Reservation, initial *PaymentInput) (models.Invoice, error) {
	setting, err := s.Settings.GetWith(tx, res.HotelID)
	if err != nil {
		return models.Invoice{}, err
	}

	number, err := utils.GenerateReferenceCode("INV", 8)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("failed to generate invoice number: %w", err)
	}

	nights := res.Nights
	if nights < 1 {
		nights = models.StayNights(res.CheckIn, res.CheckOut)
	}
	subtotal := res.PricePerNight * float64(nights)
	taxAmount := subtotal * setting.TaxRate()

	roomNumber := ""
	if res.RoomNumber != nil {
		roomNumber = *res.RoomNumber
	}

	inv := models.Invoice{
		HotelID:       res.HotelID,
		InvoiceNumber: number,
		ReservationID: &res.ID,
		RoomNumber:    roomNumber,
		GuestName:     res.GuestName,
		Currency:      setting.Currency,
		Subtotal:      subtotal,
		TaxAmount:     taxAmount,
		TotalAmount:   subtotal + taxAmount,
		Balance:       subtotal + taxAmount,
		Status:        models.InvoiceGenerated,
	}
	if inv.Currency == "" {
		inv.Currency = "INR"
	}

	if err := tx.Create(&inv).Error; err != nil {
		return inv, fmt.Errorf("failed to create invoice: %w", err)
	}

	if initial != nil && initial.Amount != 0 {
		if err := s.appendPaymentTx(tx, &inv, *initial); err != nil {
			return inv, err
		}
	}
	return inv, nil
}

// AppendPayment records a payment against an open invoice and rederives the
// balance and status.
func (s *InvoiceService) AppendPayment(hotelID, invoiceID uint, input PaymentInput) (models.Invoice, error) {
	var inv models.Invoice
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("hotel_id = ?", hotelID).
			First(&inv, invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("invoice", invoiceID)
			}
			return fmt.Errorf("failed to load invoice: %w", err)
		}
		if err := tx.Where("invoice_id = ?", inv.ID).Order("id ASC").
			Find(&inv.Payments).Error; err != nil {
			return fmt.Errorf("failed to load payments: %w", err)
		}
		return s.appendPaymentTx(tx, &inv, input)
	})
	return inv, err
}

// appendPaymentTx assumes inv was loaded (with its payments) inside tx.
func (s *InvoiceService) appendPaymentTx(tx *gorm.DB, inv *models.Invoice, input PaymentInput) error {
	if inv.Status.Closed() {
		return NewError(KindInvoiceClosed, "invoice %s is %s and accepts no further payments", inv.InvoiceNumber, inv.Status)
	}
	if input.Amount <= 0 {
		return NewError(KindInvalidAmount, "payment amount must be positive, got %.2f", input.Amount)
	}
	if !input.Method.Valid() {
		return ValidationError("method", "must be one of CASH, UPI, CARD, BANK_TRANSFER")
	}

	paidAt := time.Now().UTC()
	if input.PaidAt != nil {
		paidAt = *input.PaidAt
	}

	payment := models.Payment{
		InvoiceID:   inv.ID,
		ReceiptID:   uuid.NewString(),
		Amount:      input.Amount,
		Method:      input.Method,
		PaidAt:      paidAt,
		ReferenceID: input.ReferenceID,
		CollectedBy: input.CollectedBy,
	}
	if err := tx.Create(&payment).Error; err != nil {
		return fmt.Errorf("failed to append payment: %w", err)
	}

	inv.Payments = append(inv.Payments, payment)
	inv.Recalculate()
	if inv.OverpaidAmount > 0 {
		log.Printf("invoice %s overpaid by %.2f %s, flagged for reconciliation",
			inv.InvoiceNumber, inv.OverpaidAmount, inv.Currency)
	}

	if err := tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).
		Updates(map[string]interface{}{
			"paid_amount":     inv.PaidAmount,
			"balance":         inv.Balance,
			"overpaid_amount": inv.OverpaidAmount,
			"status":          inv.Status,
		}).Error; err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	if inv.ReservationID != nil {
		if err := tx.Model(&models.Reservation{}).Where("id = ?", *inv.ReservationID).
			Update("payment_status", inv.PaymentStatusForReservation()).Error; err != nil {
			return fmt.Errorf("failed to update reservation payment status: %w", err)
		}
	}
	return nil
}

// MarkSent records that the invoice went out to the guest. SENT is a
// milestone: later zero-payment recomputations keep it.
func (s *InvoiceService) MarkSent(hotelID, invoiceID uint) (models.Invoice, error) {
	inv, err := s.Get(hotelID, invoiceID)
	if err != nil {
		return inv, err
	}
	if inv.Status.Closed() {
		return inv, NewError(KindInvoiceClosed, "invoice %s is %s", inv.InvoiceNumber, inv.Status)
	}
	if inv.SentAt != nil {
		return inv, nil
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{"sent_at": now}
	if inv.PaidAmount == 0 {
		updates["status"] = models.InvoiceSent
		inv.Status = models.InvoiceSent
	}
	if err := s.DB.Model(&models.Invoice{}).Where("id = ?", inv.ID).
		Updates(updates).Error; err != nil {
		return inv, fmt.Errorf("failed to mark invoice sent: %w", err)
	}
	inv.SentAt = &now
	return inv, nil
}

// Cancel voids an untouched invoice. Once money has landed on it the ledger
// refuses; refunds are not modeled here.
func (s *InvoiceService) Cancel(hotelID, invoiceID uint) (models.Invoice, error) {
	var inv models.Invoice
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("hotel_id = ?", hotelID).
			First(&inv, invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("invoice", invoiceID)
			}
			return fmt.Errorf("failed to load invoice: %w", err)
		}

		var paymentCount int64
		if err := tx.Model(&models.Payment{}).Where("invoice_id = ?", inv.ID).
			Count(&paymentCount).Error; err != nil {
			return fmt.Errorf("failed to count payments: %w", err)
		}
		if paymentCount > 0 || inv.PaidAmount > 0 {
			return NewError(KindHasPayments, "invoice %s has recorded payments", inv.InvoiceNumber)
		}

		if err := tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).
			Update("status", models.InvoiceCancelled).Error; err != nil {
			return fmt.Errorf("failed to cancel invoice: %w", err)
		}
		inv.Status = models.InvoiceCancelled
		return nil
	})
	return inv, err
}
