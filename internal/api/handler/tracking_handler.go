package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medcourier/tracking/internal/core/ports"
	"github.com/medcourier/tracking/internal/pkg/metrics"
)

// TrackingHandler toggles tracking on a shipment.
type TrackingHandler struct {
	service ports.TrackingService
}

func NewTrackingHandler(service ports.TrackingService) *TrackingHandler {
	return &TrackingHandler{service: service}
}

// Set handles PUT /v1/shipments/:id/tracking.
//
// @Summary      Enable or disable tracking for a shipment
// @Tags         tracking
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Shipment id"
// @Param        body  body      setTrackingRequest  true  "Desired tracking state"
// @Success      200   {object}  trackingStateResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      412   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/shipments/{id}/tracking [put]
func (h *TrackingHandler) Set(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req setTrackingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	state, err := h.service.SetTracking(c.Request().Context(), actor, c.Param("id"), *req.Enabled)
	if err != nil {
		return err
	}

	metrics.TrackingTogglesTotal.WithLabelValues(strconv.FormatBool(state.Enabled)).Inc()
	return c.JSON(http.StatusOK, toTrackingStateResponse(state))
}
