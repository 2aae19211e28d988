package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "DRAFT"
	InvoiceGenerated     InvoiceStatus = "GENERATED"
	InvoiceSent          InvoiceStatus = "SENT"
	InvoicePartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoicePaid          InvoiceStatus = "PAID"
	InvoiceCancelled     InvoiceStatus = "CANCELLED"
)

// Closed invoices accept no further payments.
func (s InvoiceStatus) Closed() bool {
	return s == InvoicePaid || s == InvoiceCancelled
}

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodUPI          PaymentMethod = "UPI"
	MethodCard         PaymentMethod = "CARD"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodUPI, MethodCard, MethodBankTransfer:
		return true
	}
	return false
}

// Payment is an append-only ledger entry. Rows are never updated or deleted;
// there is deliberately no soft-delete column.
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	InvoiceID   uint          `json:"invoice_id" gorm:"column:invoice_id;index"`
	ReceiptID   string        `json:"receipt_id" gorm:"column:receipt_id;uniqueIndex;size:64"`
	Amount      float64       `json:"amount" gorm:"type:decimal(10,2)"`
	Method      PaymentMethod `json:"method" gorm:"size:20"`
	PaidAt      time.Time     `json:"paid_at" gorm:"column:paid_at"`
	ReferenceID string        `json:"reference_id,omitempty" gorm:"column:reference_id;size:100"`
	CollectedBy string        `json:"collected_by,omitempty" gorm:"column:collected_by;size:100"`
}

type Invoice struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	HotelID       uint   `json:"hotel_id" gorm:"column:hotel_id;index"`
	InvoiceNumber string `json:"invoice_number" gorm:"column:invoice_number;uniqueIndex;size:64"`
	ReservationID *uint  `json:"reservation_id,omitempty" gorm:"column:reservation_id;index"`
	RoomNumber    string `json:"room_number" gorm:"column:room_number;size:50"`
	GuestName     string `json:"guest_name" gorm:"column:guest_name;size:255"`

	Currency    string  `json:"currency" gorm:"size:10;default:'INR'"`
	Subtotal    float64 `json:"subtotal" gorm:"type:decimal(10,2)"`
	TaxAmount   float64 `json:"tax_amount" gorm:"column:tax_amount;type:decimal(10,2)"`
	TotalAmount float64 `json:"total_amount" gorm:"column:total_amount;type:decimal(10,2)"`

	// PaidAmount, Balance, OverpaidAmount and Status are derived from the
	// payment list by Recalculate; no other code path may set them.
	PaidAmount     float64       `json:"paid_amount" gorm:"column:paid_amount;type:decimal(10,2)"`
	Balance        float64       `json:"balance" gorm:"type:decimal(10,2)"`
	OverpaidAmount float64       `json:"overpaid_amount" gorm:"column:overpaid_amount;type:decimal(10,2)"`
	Status         InvoiceStatus `json:"status" gorm:"size:20;index"`

	SentAt *time.Time `json:"sent_at,omitempty" gorm:"column:sent_at"`

	Payments []Payment `json:"payments" gorm:"foreignKey:InvoiceID"`
}

// roundMoney snaps a float sum back onto the 2-decimal grid the columns
// store; without it, payments that cover the total exactly in decimal can
// leave a 1e-16 residue and the wrong derived status.
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// Recalculate derives paid amount, balance and status from the payment list.
// Status is a pure function of the payments and the total, except that a
// cancelled invoice stays cancelled and an unpaid invoice never regresses
// below SENT once it has been sent out.
func (inv *Invoice) Recalculate() {
	paid := 0.0
	for _, p := range inv.Payments {
		paid += p.Amount
	}
	paid = roundMoney(paid)
	inv.PaidAmount = paid

	balance := roundMoney(inv.TotalAmount - paid)
	if balance < 0 {
		inv.OverpaidAmount = -balance
		balance = 0
	} else {
		inv.OverpaidAmount = 0
	}
	inv.Balance = balance

	if inv.Status == InvoiceCancelled {
		return
	}

	switch {
	case paid > 0 && balance == 0:
		inv.Status = InvoicePaid
	case paid > 0:
		inv.Status = InvoicePartiallyPaid
	default:
		if inv.SentAt != nil {
			inv.Status = InvoiceSent
		} else if inv.Status != InvoiceDraft {
			inv.Status = InvoiceGenerated
		}
	}
}

// PaymentStatusForReservation maps the invoice balance onto the coarser
// reservation-level payment flag.
func (inv *Invoice) PaymentStatusForReservation() PaymentStatus {
	switch {
	case inv.PaidAmount <= 0:
		return PaymentNotPaid
	case inv.Balance > 0:
		return PaymentPartial
	default:
		return PaymentPaid
	}
}
