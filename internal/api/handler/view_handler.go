package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medcourier/tracking/internal/core/ports"
)

// ViewHandler serves the polled tracking view.
type ViewHandler struct {
	service ports.ViewService
	now     func() time.Time
}

func NewViewHandler(service ports.ViewService) *ViewHandler {
	return &ViewHandler{service: service, now: time.Now}
}

// Get handles GET /v1/shipments/:id/tracking.
//
// @Summary      Get the tracking view of a shipment
// @Tags         tracking
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Shipment id"
// @Success      200  {object}  trackingViewResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/shipments/{id}/tracking [get]
func (h *ViewHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	view, err := h.service.GetTrackingView(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	c.Response().Header().Set("Cache-Control", "no-store")
	return c.JSON(http.StatusOK, toTrackingViewResponse(view, h.now()))
}
