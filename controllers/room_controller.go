package controllers

import (
	"net/http"
	"strconv"
	"time"

	"frontdesk-backend/middleware"
	"frontdesk-backend/models"
	"frontdesk-backend/services"
	"frontdesk-backend/utils"

	"github.com/gin-gonic/gin"
)

type CreateRoomPayload struct {
	RoomNumber    string  `json:"room_number" binding:"required"`
	Type          string  `json:"type"`
	Floor         string  `json:"floor"`
	PricePerNight float64 `json:"price_per_night"`
	MaxOccupancy  int     `json:"max_occupancy"`
	Description   string  `json:"description"`
}

type UpdateRoomPayload struct {
	Type          string  `json:"type"`
	Floor         string  `json:"floor"`
	PricePerNight float64 `json:"price_per_night"`
	MaxOccupancy  int     `json:"max_occupancy"`
	Description   string  `json:"description"`
}

type MaintenancePayload struct {
	On *bool `json:"on" binding:"required"`
}

type RoomController struct {
	RoomSvc *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{RoomSvc: svc}
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.JSONErrorCode(c, http.StatusBadRequest, "error.invalidId", "id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

// queryDate reads an optional ?date=YYYY-MM-DD, defaulting to today.
func queryDate(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return models.DateOnly(time.Now()), true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		utils.JSONErrorCode(c, http.StatusBadRequest, "error.invalidDate", "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

// GetRooms lists the hotel's rooms with their derived occupancy status for
// the requested day.
func (ctrl *RoomController) GetRooms(c *gin.Context) {
	today, ok := queryDate(c)
	if !ok {
		return
	}
	rooms, err := ctrl.RoomSvc.ListWithStatus(middleware.HotelID(c), today)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (ctrl *RoomController) GetRoom(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	room, err := ctrl.RoomSvc.Get(middleware.HotelID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var payload CreateRoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}

	room, err := ctrl.RoomSvc.Create(models.Room{
		HotelID:       middleware.HotelID(c),
		RoomNumber:    payload.RoomNumber,
		Type:          payload.Type,
		Floor:         payload.Floor,
		PricePerNight: payload.PricePerNight,
		MaxOccupancy:  payload.MaxOccupancy,
		Description:   payload.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload UpdateRoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}

	room, err := ctrl.RoomSvc.Update(middleware.HotelID(c), id, models.Room{
		Type:          payload.Type,
		Floor:         payload.Floor,
		PricePerNight: payload.PricePerNight,
		MaxOccupancy:  payload.MaxOccupancy,
		Description:   payload.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// SetMaintenance toggles the MAINTENANCE override; occupied rooms refuse.
func (ctrl *RoomController) SetMaintenance(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload MaintenancePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}

	room, err := ctrl.RoomSvc.SetMaintenance(middleware.HotelID(c), id, *payload.On, models.DateOnly(time.Now()))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// DeactivateRoom soft-disables a room; rooms with open reservations refuse.
func (ctrl *RoomController) DeactivateRoom(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	room, err := ctrl.RoomSvc.Deactivate(middleware.HotelID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}
