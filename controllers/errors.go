package controllers

import (
	"errors"
	"log"
	"net/http"

	"frontdesk-backend/services"
	"frontdesk-backend/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps a service error onto the HTTP surface. Every
// business error keeps its stable kind; only infrastructure failures collapse
// to 500.
func respondServiceError(c *gin.Context, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.JSONErrorCode(c, http.StatusInternalServerError, "error.internal", "internal error")
		return
	}

	status := http.StatusConflict
	switch svcErr.Kind {
	case services.KindValidation, services.KindInvalidAmount:
		status = http.StatusBadRequest
	case services.KindNotFound:
		status = http.StatusNotFound
	}
	utils.JSONErrorCode(c, status, string(svcErr.Kind), svcErr.Message)
}

func respondBindError(c *gin.Context, err error) {
	utils.JSONErrorCode(c, http.StatusBadRequest, "error.invalidPayload", err.Error())
}
