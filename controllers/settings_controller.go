package controllers

import (
	"encoding/json"
	"net/http"

	"frontdesk-backend/middleware"
	"frontdesk-backend/models"
	"frontdesk-backend/services"
	"frontdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type hotelSettingsPayload struct {
	Name       string                  `json:"name"`
	Address    string                  `json:"address"`
	Phone      string                  `json:"phone"`
	Email      string                  `json:"email"`
	Currency   string                  `json:"currency"`
	TaxPercent float64                 `json:"tax_percent"`
	RoomTypes  []models.RoomTypeConfig `json:"room_types"`
}

type SettingsController struct {
	SettingsSvc *services.SettingsService
}

func NewSettingsController(svc *services.SettingsService) *SettingsController {
	return &SettingsController{SettingsSvc: svc}
}

func (ctrl *SettingsController) GetHotelSettings(c *gin.Context) {
	setting, err := ctrl.SettingsSvc.Get(middleware.HotelID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, setting)
}

func (ctrl *SettingsController) UpdateHotelSettings(c *gin.Context) {
	var payload hotelSettingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}

	patch := models.HotelSetting{
		Name:       payload.Name,
		Address:    payload.Address,
		Phone:      payload.Phone,
		Email:      payload.Email,
		Currency:   payload.Currency,
		TaxPercent: payload.TaxPercent,
	}
	if payload.RoomTypes != nil {
		raw, err := json.Marshal(payload.RoomTypes)
		if err != nil {
			respondBindError(c, err)
			return
		}
		patch.RoomTypes = datatypes.JSON(raw)
	}

	setting, err := ctrl.SettingsSvc.Update(middleware.HotelID(c), patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, setting)
}
