package models

import (
	"gorm.io/gorm"
)

// RoomStatus is a room's effective occupancy state. OCCUPIED is only ever
// produced by the occupancy resolver at read time; the persisted override on
// a Room is restricted to VACANT and MAINTENANCE.
type RoomStatus string

const (
	RoomVacant      RoomStatus = "VACANT"
	RoomOccupied    RoomStatus = "OCCUPIED"
	RoomMaintenance RoomStatus = "MAINTENANCE"
)

// ValidOverride reports whether s may be persisted on a room record.
func (s RoomStatus) ValidOverride() bool {
	return s == RoomVacant || s == RoomMaintenance
}

type Room struct {
	gorm.Model

	HotelID    uint   `json:"hotel_id" gorm:"column:hotel_id;uniqueIndex:uniq_hotel_room_number"`
	RoomNumber string `json:"room_number" gorm:"column:room_number;uniqueIndex:uniq_hotel_room_number;type:varchar(50)"`

	Type          string  `json:"type" gorm:"type:varchar(100)"`
	Floor         string  `json:"floor" gorm:"type:varchar(10)"`
	PricePerNight float64 `json:"price_per_night" gorm:"column:price_per_night;type:decimal(10,2)"`
	MaxOccupancy  int     `json:"max_occupancy" gorm:"column:max_occupancy"`
	Description   string  `json:"description" gorm:"type:text"`

	// StatusOverride holds VACANT or MAINTENANCE only; occupancy is derived
	// on read from the reservation set and never written here.
	StatusOverride RoomStatus `json:"status_override" gorm:"column:status_override;type:varchar(20);default:'VACANT'"`
	IsActive       bool       `json:"is_active" gorm:"column:is_active;default:true"`
}

// RoomWithStatus is the read model returned by room listings: the stored
// record plus the derived status and the display decoration joined from the
// hotel's room-type configuration.
type RoomWithStatus struct {
	Room
	Status       RoomStatus `json:"status"`
	Capacity     int        `json:"capacity"`
	DisplayPrice float64    `json:"display_price"`
}
