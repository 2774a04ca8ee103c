// internal/handlers/tracking.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/clarashop/clara-backend/internal/i18n"
	"github.com/clarashop/clara-backend/internal/services"
	"github.com/clarashop/clara-backend/internal/utils"
)

type TrackingHandler struct {
	trackingService *services.TrackingService
}

func NewTrackingHandler(trackingService *services.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
	}
}

// POST /events
func (h *TrackingHandler) TrackEvent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.TrackEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if !h.trackingService.Enabled() {
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyEventNotConfigured))
		return
	}

	if err := h.trackingService.Track(c.Request.Context(), &req, c.ClientIP(), c.Request.UserAgent()); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyEventRelayed),
		"relayed": true,
	})
}
