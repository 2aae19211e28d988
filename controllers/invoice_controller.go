package controllers

import (
	"net/http"

	"frontdesk-backend/middleware"
	"frontdesk-backend/services"
	"frontdesk-backend/utils"

	"github.com/gin-gonic/gin"
)

type InvoiceController struct {
	InvoiceSvc *services.InvoiceService
}

func NewInvoiceController(svc *services.InvoiceService) *InvoiceController {
	return &InvoiceController{InvoiceSvc: svc}
}

func (ctrl *InvoiceController) GetInvoices(c *gin.Context) {
	list, err := ctrl.InvoiceSvc.ListByHotel(middleware.HotelID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ctrl *InvoiceController) GetInvoice(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	inv, err := ctrl.InvoiceSvc.Get(middleware.HotelID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, inv)
}

// AppendPayment records a payment against an open invoice.
func (ctrl *InvoiceController) AppendPayment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var input services.PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	inv, err := ctrl.InvoiceSvc.AppendPayment(middleware.HotelID(c), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, inv)
}

func (ctrl *InvoiceController) MarkSent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	inv, err := ctrl.InvoiceSvc.MarkSent(middleware.HotelID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, inv)
}

func (ctrl *InvoiceController) CancelInvoice(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	inv, err := ctrl.InvoiceSvc.Cancel(middleware.HotelID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, inv)
}
