package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"frontdesk-backend/models"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const mysqlErrDuplicateEntry = 1062

// RoomService is the room registry: static room records plus the
// VACANT/MAINTENANCE override. It never stores occupancy; listings derive it
// per read via ResolveOccupancy.
type RoomService struct {
	DB       *gorm.DB
	Settings *SettingsService
}

func NewRoomService(db *gorm.DB, settings *SettingsService) *RoomService {
	return &RoomService{DB: db, Settings: settings}
}

func isDuplicateKeyErr(err error) bool {
	var me *mysqldrv.MySQLError
	return errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry
}

// Create registers a new physical room. Room numbers are unique per hotel;
// the unique index is the backstop for the application-level check.
func (s *RoomService) Create(room models.Room) (models.Room, error) {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		return room, ValidationError("room_number", "must not be empty")
	}
	if room.PricePerNight < 0 {
		return room, ValidationError("price_per_night", "must not be negative")
	}
	if room.StatusOverride == "" {
		room.StatusOverride = models.RoomVacant
	}
	if !room.StatusOverride.ValidOverride() {
		return room, ValidationError("status_override", "must be VACANT or MAINTENANCE, got %s", room.StatusOverride)
	}
	room.IsActive = true

	var count int64
	if err := s.DB.Model(&models.Room{}).
		Where("hotel_id = ? AND room_number = ?", room.HotelID, room.RoomNumber).
		Count(&count).Error; err != nil {
		return room, fmt.Errorf("failed to check room number: %w", err)
	}
	if count > 0 {
		return room, NewError(KindDuplicateRoom, "room %s already exists for this hotel", room.RoomNumber)
	}

	if err := s.DB.Create(&room).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return room, NewError(KindDuplicateRoom, "room %s already exists for this hotel", room.RoomNumber)
		}
		return room, fmt.Errorf("failed to create room: %w", err)
	}
	return room, nil
}

func (s *RoomService) Get(hotelID, id uint) (models.Room, error) {
	var room models.Room
	err := s.DB.Where("hotel_id = ?", hotelID).First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return room, NotFoundError("room", id)
		}
		return room, fmt.Errorf("failed to load room: %w", err)
	}
	return room, nil
}

// Update changes descriptive attributes only. Room number, hotel and the
// maintenance override have their own paths.
func (s *RoomService) Update(hotelID, id uint, patch models.Room) (models.Room, error) {
	room, err := s.Get(hotelID, id)
	if err != nil {
		return room, err
	}
	if patch.PricePerNight < 0 {
		return room, ValidationError("price_per_night", "must not be negative")
	}

	updates := map[string]interface{}{}
	if patch.Type != "" {
		updates["type"] = patch.Type
	}
	if patch.Floor != "" {
		updates["floor"] = patch.Floor
	}
	if patch.PricePerNight > 0 {
		updates["price_per_night"] = patch.PricePerNight
	}
	if patch.MaxOccupancy > 0 {
		updates["max_occupancy"] = patch.MaxOccupancy
	}
	if patch.Description != "" {
		updates["description"] = patch.Description
	}
	if len(updates) == 0 {
		return room, nil
	}

	if err := s.DB.Model(&room).Updates(updates).Error; err != nil {
		return room, fmt.Errorf("failed to update room: %w", err)
	}
	return room, nil
}

// SetMaintenance toggles the MAINTENANCE override. A stay in progress wins:
// flipping a room that is occupied today is rejected.
func (s *RoomService) SetMaintenance(hotelID, id uint, on bool, today time.Time) (models.Room, error) {
	room, err := s.Get(hotelID, id)
	if err != nil {
		return room, err
	}

	if on {
		reservations, err := s.reservationsForRoom(hotelID, room.RoomNumber)
		if err != nil {
			return room, err
		}
		if ResolveOccupancy(today, room, reservations) == models.RoomOccupied {
			return room, NewError(KindRoomOccupied, "room %s has a stay in progress", room.RoomNumber)
		}
	}

	override := models.RoomVacant
	if on {
		override = models.RoomMaintenance
	}
	if err := s.DB.Model(&room).Update("status_override", override).Error; err != nil {
		return room, fmt.Errorf("failed to update room override: %w", err)
	}
	room.StatusOverride = override
	return room, nil
}

// Deactivate soft-disables a room instead of deleting it. Rooms with
// undeparted reservations stay active so history keeps resolving.
func (s *RoomService) Deactivate(hotelID, id uint) (models.Room, error) {
	room, err := s.Get(hotelID, id)
	if err != nil {
		return room, err
	}

	var pending int64
	if err := s.DB.Model(&models.Reservation{}).
		Where("hotel_id = ? AND room_number = ?", hotelID, room.RoomNumber).
		Where("status NOT IN ?", []models.ReservationStatus{models.ReservationCancelled, models.ReservationCompleted}).
		Count(&pending).Error; err != nil {
		return room, fmt.Errorf("failed to check reservations: %w", err)
	}
	if pending > 0 {
		return room, NewError(KindRoomOccupied, "room %s still has open reservations", room.RoomNumber)
	}

	if err := s.DB.Model(&room).Update("is_active", false).Error; err != nil {
		return room, fmt.Errorf("failed to deactivate room: %w", err)
	}
	room.IsActive = false
	return room, nil
}

// ListWithStatus returns the hotel's active rooms with their derived status
// for the given day plus the room-type display decoration.
func (s *RoomService) ListWithStatus(hotelID uint, today time.Time) ([]models.RoomWithStatus, error) {
	var rooms []models.Room
	if err := s.DB.
		Where("hotel_id = ? AND is_active = ?", hotelID, true).
		Order("room_number ASC").
		Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	var reservations []models.Reservation
	if err := s.DB.
		Where("hotel_id = ? AND room_number IS NOT NULL", hotelID).
		Where("status NOT IN ?", []models.ReservationStatus{models.ReservationCancelled, models.ReservationCompleted}).
		Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	byRoom := make(map[string][]models.Reservation)
	for _, r := range reservations {
		if r.RoomNumber == nil {
			continue
		}
		byRoom[*r.RoomNumber] = append(byRoom[*r.RoomNumber], r)
	}

	setting, err := s.Settings.Get(hotelID)
	if err != nil {
		return nil, err
	}
	types := setting.RoomTypeConfigs()

	out := make([]models.RoomWithStatus, 0, len(rooms))
	for _, room := range rooms {
		status := ResolveOccupancy(today, room, byRoom[room.RoomNumber])
		out = append(out, DecorateRoom(room, status, types))
	}
	return out, nil
}

func (s *RoomService) reservationsForRoom(hotelID uint, roomNumber string) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.DB.
		Where("hotel_id = ? AND room_number = ?", hotelID, roomNumber).
		Where("status NOT IN ?", []models.ReservationStatus{models.ReservationCancelled, models.ReservationCompleted}).
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations for room %s: %w", roomNumber, err)
	}
	return reservations, nil
}
