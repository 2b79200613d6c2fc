package handler

import (
	"time"

	"github.com/medcourier/tracking/internal/core/ports"
)

// --- Request → Service input ---

func toLocationInput(shipmentID string, req locationRequest) ports.LocationInput {
	in := ports.LocationInput{
		ShipmentID:     shipmentID,
		Accuracy:       req.Accuracy,
		Heading:        req.Heading,
		Speed:          req.Speed,
		Altitude:       req.Altitude,
		RecordedAt:     req.RecordedAt,
		IdempotencyKey: req.IdempotencyKey,
	}
	if req.Latitude != nil {
		in.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		in.Longitude = *req.Longitude
	}
	return in
}

// --- Service result → HTTP response ---

func toTrackingStateResponse(s *ports.TrackingState) trackingStateResponse {
	return trackingStateResponse{
		ShipmentID: s.ShipmentID,
		Enabled:    s.Enabled,
		StartedAt:  utcPtr(s.StartedAt),
	}
}

func toSubmitResponse(r *ports.SubmitResult) submitResponse {
	return submitResponse{
		Outcome:   string(r.Outcome),
		ReportID:  r.ReportID,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Timestamp: utcPtr(r.Timestamp),
		Replayed:  r.Replayed,
	}
}

func toBatchResponse(items []ports.BatchItemResult) batchResponse {
	resp := batchResponse{Results: make([]batchItemResponse, len(items))}
	for i, item := range items {
		out := batchItemResponse{Index: item.Index}
		switch {
		case item.Err != nil:
			code, msg, known := ErrorStatus(item.Err)
			if !known {
				msg = "internal server error"
			}
			out.Status = code
			out.Error = msg
			resp.Rejected++
		case item.Result != nil:
			out.Outcome = string(item.Result.Outcome)
			out.ReportID = item.Result.ReportID
			out.Timestamp = utcPtr(item.Result.Timestamp)
			if item.Result.Outcome == ports.OutcomeIgnored {
				resp.Ignored++
			} else {
				resp.Accepted++
			}
		}
		resp.Results[i] = out
	}
	return resp
}

func toTrackingViewResponse(v *ports.TrackingView, now time.Time) trackingViewResponse {
	resp := trackingViewResponse{
		ShipmentID:    v.ShipmentID,
		Status:        string(v.Status),
		Enabled:       v.Enabled,
		StartedAt:     utcPtr(v.StartedAt),
		Waypoints:     make([]waypointResponse, len(v.Waypoints)),
		Reports:       make([]reportResponse, len(v.Reports)),
		ReportCount:   v.ReportCount,
		DistanceMiles: v.DistanceMiles,
		ETA:           etaResponse{Status: string(v.ETAStatus)},
	}
	for i, wp := range v.Waypoints {
		resp.Waypoints[i] = toWaypointResponse(wp)
	}
	for i, r := range v.Reports {
		resp.Reports[i] = toReportResponse(r)
	}
	if v.Latest != nil {
		latest := toReportResponse(*v.Latest)
		resp.Latest = &latest
	}
	if v.ETA != nil {
		secs := int64(v.ETA.Round(time.Second) / time.Second)
		at := now.Add(*v.ETA).UTC()
		resp.ETA.Seconds = &secs
		resp.ETA.EstimatedAt = &at
	}
	return resp
}

func toWaypointResponse(wp ports.WaypointView) waypointResponse {
	out := waypointResponse{
		Sequence:     wp.Sequence,
		Type:         string(wp.Type),
		FacilityID:   wp.FacilityID,
		FacilityName: wp.FacilityName,
		Address: addressResponse{
			Street:     wp.Address.Street,
			City:       wp.Address.City,
			State:      wp.Address.State,
			PostalCode: wp.Address.PostalCode,
			Country:    wp.Address.Country,
		},
	}
	if wp.Coordinates != nil {
		out.Coordinates = &coordinatesResponse{Lat: wp.Coordinates.Lat, Lng: wp.Coordinates.Lng}
	}
	return out
}

func toReportResponse(r ports.ReportView) reportResponse {
	return reportResponse{
		ID:        r.ID,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Accuracy:  r.Accuracy,
		Heading:   r.Heading,
		Speed:     r.Speed,
		Altitude:  r.Altitude,
		Timestamp: r.Timestamp.UTC(),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
