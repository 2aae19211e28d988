package services

import (
	"time"

	"frontdesk-backend/models"
)

// ResolveOccupancy derives a room's effective status for the given day from
// the reservations on its room number. It is the only place occupancy is
// computed: any active reservation wins, then a maintenance override, then
// vacant. Pure: no clock, no store, no mutation.
func ResolveOccupancy(today time.Time, room models.Room, reservations []models.Reservation) models.RoomStatus {
	for i := range reservations {
		r := &reservations[i]
		if r.Status == models.ReservationCancelled || r.Status == models.ReservationCompleted {
			continue
		}
		if r.ActiveOn(today) {
			return models.RoomOccupied
		}
	}
	if room.StatusOverride == models.RoomMaintenance {
		return models.RoomMaintenance
	}
	return models.RoomVacant
}

// DecorateRoom joins a room against the hotel's room-type configuration for
// display: capacity from config (falling back to the room's own field) and a
// price chain of room price, then type base price, then 0.
func DecorateRoom(room models.Room, status models.RoomStatus, types []models.RoomTypeConfig) models.RoomWithStatus {
	out := models.RoomWithStatus{
		Room:         room,
		Status:       status,
		Capacity:     room.MaxOccupancy,
		DisplayPrice: room.PricePerNight,
	}
	for _, tc := range types {
		if tc.Type != room.Type {
			continue
		}
		if out.Capacity == 0 {
			out.Capacity = tc.MaxGuests
		}
		if out.DisplayPrice == 0 {
			out.DisplayPrice = tc.BasePrice
		}
		break
	}
	return out
}
