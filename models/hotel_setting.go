package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// RoomTypeConfig is one entry of a hotel's room-type configuration. It feeds
// the display decoration on room listings (capacity, fallback base price) and
// nothing else; it carries no occupancy state.
type RoomTypeConfig struct {
	Type      string  `json:"type"`
	BasePrice float64 `json:"basePrice"`
	MaxGuests int     `json:"maxGuests"`
	Count     int     `json:"count"`
	Active    bool    `json:"active"`
}

type HotelSetting struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	HotelID    uint           `gorm:"column:hotel_id;uniqueIndex" json:"hotel_id"`
	Name       string         `gorm:"size:255" json:"name"`
	Address    string         `gorm:"type:text" json:"address"`
	Phone      string         `gorm:"size:50" json:"phone"`
	Email      string         `gorm:"size:150" json:"email"`
	Currency   string         `gorm:"size:10;default:'INR'" json:"currency"`
	TaxPercent float64        `gorm:"column:tax_percent;type:decimal(5,2)" json:"tax_percent"`
	RoomTypes  datatypes.JSON `gorm:"column:room_types" json:"room_types"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// RoomTypeConfigs decodes the JSON room-type column. An empty or malformed
// column yields an empty list rather than an error; the decoration it feeds
// is best-effort.
func (h *HotelSetting) RoomTypeConfigs() []RoomTypeConfig {
	if len(h.RoomTypes) == 0 {
		return nil
	}
	var out []RoomTypeConfig
	if err := json.Unmarshal(h.RoomTypes, &out); err != nil {
		return nil
	}
	return out
}

// TaxRate returns the configured tax as a fraction (e.g. 0.12 for 12%).
func (h *HotelSetting) TaxRate() float64 {
	if h.TaxPercent <= 0 {
		return 0
	}
	return h.TaxPercent / 100
}
