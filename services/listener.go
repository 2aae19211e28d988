package services

import (
	"log"

	"frontdesk-backend/models"
)

// OccupancyListener is notified after a committed transition changes what the
// occupancy resolver will report for a room. Informational only: consumers
// may cache, but the resolver stays the source of truth.
type OccupancyListener interface {
	OccupancyChanged(hotelID uint, roomNumber string, status models.RoomStatus)
}

// LogOccupancyListener is the default listener; it just logs transitions.
type LogOccupancyListener struct{}

func (LogOccupancyListener) OccupancyChanged(hotelID uint, roomNumber string, status models.RoomStatus) {
	log.Printf("hotel %d room %s -> %s", hotelID, roomNumber, status)
}
