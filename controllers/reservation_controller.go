package controllers

import (
	"net/http"

	"frontdesk-backend/middleware"
	"frontdesk-backend/models"
	"frontdesk-backend/services"
	"frontdesk-backend/utils"

	"github.com/gin-gonic/gin"
)

type CheckoutPayload struct {
	// Amount may be 0: an unpaid checkout leaves the balance outstanding.
	Amount      float64              `json:"amount"`
	Method      models.PaymentMethod `json:"method"`
	ReferenceID string               `json:"reference_id,omitempty"`
	CollectedBy string               `json:"collected_by,omitempty"`
}

type ReservationController struct {
	ReservationSvc *services.ReservationService
	CheckoutSvc    *services.CheckoutService
}

func NewReservationController(resSvc *services.ReservationService, checkoutSvc *services.CheckoutService) *ReservationController {
	return &ReservationController{ReservationSvc: resSvc, CheckoutSvc: checkoutSvc}
}

// GetReservations lists reservations, optionally filtered by ?status= and
// ?room_number=.
func (ctrl *ReservationController) GetReservations(c *gin.Context) {
	status := models.ReservationStatus(c.Query("status"))
	list, err := ctrl.ReservationSvc.List(middleware.HotelID(c), status, c.Query("room_number"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ctrl *ReservationController) GetReservation(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	res, err := ctrl.ReservationSvc.Get(middleware.HotelID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

func (ctrl *ReservationController) CreateReservation(c *gin.Context) {
	var input services.ReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := ctrl.ReservationSvc.Create(middleware.HotelID(c), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, res)
}

func (ctrl *ReservationController) UpdateReservation(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var patch services.ReservationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := ctrl.ReservationSvc.Update(middleware.HotelID(c), id, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

func (ctrl *ReservationController) CheckIn(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	res, err := ctrl.ReservationSvc.CheckIn(middleware.HotelID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

func (ctrl *ReservationController) CancelReservation(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	res, err := ctrl.ReservationSvc.Cancel(middleware.HotelID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// CheckoutReservation settles the stay: invoice payment, reservation
// completion and room release happen atomically or not at all.
func (ctrl *ReservationController) CheckoutReservation(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload CheckoutPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := ctrl.CheckoutSvc.Checkout(middleware.HotelID(c), id, services.PaymentInput{
		Amount:      payload.Amount,
		Method:      payload.Method,
		ReferenceID: payload.ReferenceID,
		CollectedBy: payload.CollectedBy,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result)
}
