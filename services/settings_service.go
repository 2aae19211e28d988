package services

import (
	"errors"
	"fmt"

	"frontdesk-backend/models"

	"gorm.io/gorm"
)

// SettingsService owns per-hotel configuration: branding fields, the tax
// percentage the invoice ledger applies, and the room-type table the
// occupancy decoration joins against.
type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// Get returns the hotel's settings, or zero-valued defaults when the hotel
// has never saved any.
func (s *SettingsService) Get(hotelID uint) (models.HotelSetting, error) {
	return s.GetWith(s.DB, hotelID)
}

// GetWith reads the settings through the given handle so callers inside a
// transaction see a consistent snapshot.
func (s *SettingsService) GetWith(db *gorm.DB, hotelID uint) (models.HotelSetting, error) {
	var setting models.HotelSetting
	err := db.Where("hotel_id = ?", hotelID).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.HotelSetting{HotelID: hotelID, Currency: "INR"}, nil
		}
		return setting, fmt.Errorf("failed to load hotel settings: %w", err)
	}
	if setting.Currency == "" {
		setting.Currency = "INR"
	}
	return setting, nil
}

// Update upserts the hotel's settings row.
func (s *SettingsService) Update(hotelID uint, patch models.HotelSetting) (models.HotelSetting, error) {
	if patch.TaxPercent < 0 {
		return models.HotelSetting{}, ValidationError("tax_percent", "must not be negative")
	}

	var setting models.HotelSetting
	err := s.DB.Where("hotel_id = ?", hotelID).First(&setting).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return setting, fmt.Errorf("failed to load hotel settings: %w", err)
		}
		setting = models.HotelSetting{HotelID: hotelID}
	}

	setting.Name = patch.Name
	setting.Address = patch.Address
	setting.Phone = patch.Phone
	setting.Email = patch.Email
	setting.TaxPercent = patch.TaxPercent
	if patch.Currency != "" {
		setting.Currency = patch.Currency
	}
	if patch.RoomTypes != nil {
		setting.RoomTypes = patch.RoomTypes
	}

	if err := s.DB.Save(&setting).Error; err != nil {
		return setting, fmt.Errorf("failed to save hotel settings: %w", err)
	}
	return setting, nil
}

// TaxRate is the fraction applied by the invoice ledger; hotels without
// settings default to 0.
func (s *SettingsService) TaxRate(hotelID uint) (float64, error) {
	setting, err := s.Get(hotelID)
	if err != nil {
		return 0, err
	}
	return setting.TaxRate(), nil
}
