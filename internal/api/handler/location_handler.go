package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medcourier/tracking/internal/core/ports"
	"github.com/medcourier/tracking/internal/pkg/metrics"
)

const defaultMaxBatchSize = 100

// LocationHandler receives driver location reports.
type LocationHandler struct {
	service      ports.IngestionService
	maxBatchSize int
}

// NewLocationHandler creates a LocationHandler. maxBatchSize <= 0 selects the
// default limit.
func NewLocationHandler(service ports.IngestionService, maxBatchSize int) *LocationHandler {
	if maxBatchSize <= 0 {
		maxBatchSize = defaultMaxBatchSize
	}
	return &LocationHandler{service: service, maxBatchSize: maxBatchSize}
}

// Submit handles POST /v1/shipments/:id/locations.
//
// @Summary      Submit a driver location report
// @Description  201 when the report was stored, 200 with outcome "ignored" when it was within GPS noise.
// @Tags         locations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id               path      string           true   "Shipment id"
// @Param        Idempotency-Key  header    string           false  "Key that makes resending the same sample safe"
// @Param        body             body      locationRequest  true   "Location sample"
// @Success      201              {object}  submitResponse
// @Success      200              {object}  submitResponse
// @Failure      400              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/shipments/{id}/locations [post]
func (h *LocationHandler) Submit(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req locationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.LocationReportsTotal.WithLabelValues("rejected", "invalid_payload").Inc()
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	in := toLocationInput(c.Param("id"), req)
	if key := c.Request().Header.Get("Idempotency-Key"); key != "" {
		in.IdempotencyKey = key
	}

	start := time.Now()
	res, err := h.service.Submit(c.Request().Context(), actor, in)
	outcome := countOutcome(res, err)
	metrics.IngestionDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if res.Outcome == ports.OutcomeIgnored {
		status = http.StatusOK
	}
	return c.JSON(status, toSubmitResponse(res))
}

// SubmitBatch handles POST /v1/shipments/:id/locations/batch.
//
// @Summary      Submit buffered location reports
// @Description  Reports are processed in order. Each result carries its own outcome or error.
// @Tags         locations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Shipment id"
// @Param        body  body      batchLocationRequest  true  "Location samples, oldest first"
// @Success      200   {object}  batchResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/shipments/{id}/locations/batch [post]
func (h *LocationHandler) SubmitBatch(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req batchLocationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(req.Reports) > h.maxBatchSize {
		return echo.NewHTTPError(http.StatusUnprocessableEntity,
			fmt.Sprintf("reports must not exceed %d items", h.maxBatchSize))
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	shipmentID := c.Param("id")
	inputs := make([]ports.LocationInput, len(req.Reports))
	for i, r := range req.Reports {
		inputs[i] = toLocationInput(shipmentID, r)
	}

	start := time.Now()
	results, err := h.service.SubmitBatch(c.Request().Context(), actor, shipmentID, inputs)
	if err != nil {
		return err
	}
	metrics.IngestionDuration.WithLabelValues("batch").Observe(time.Since(start).Seconds())
	for _, r := range results {
		countOutcome(r.Result, r.Err)
	}

	return c.JSON(http.StatusOK, toBatchResponse(results))
}

// countOutcome records one submission result and returns its outcome label.
func countOutcome(res *ports.SubmitResult, err error) string {
	outcome, reason := "error", ""
	switch {
	case err != nil:
		reason = rejectionReason(err)
		if reason != "internal" {
			outcome = "rejected"
		}
	case res != nil:
		outcome = string(res.Outcome)
		if res.Replayed {
			metrics.LocationReportsReplayedTotal.Inc()
		}
	}
	metrics.LocationReportsTotal.WithLabelValues(outcome, reason).Inc()
	return outcome
}
