package handlers

import (
	"net/http"
	"time"

	"hangout-backend/application/services"
	"hangout-backend/domain/entities"
	"hangout-backend/pkg/auth"
	pkgerrors "hangout-backend/pkg/errors"

	"go.uber.org/zap"
)

// SeriesHandler handles event-series HTTP requests
type SeriesHandler struct {
	baseHandler
	service *services.SeriesService
}

// NewSeriesHandler creates a new series handler
func NewSeriesHandler(
	service *services.SeriesService,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *SeriesHandler {
	return &SeriesHandler{
		baseHandler: baseHandler{errors: errorHandler, logger: logger},
		service:     service,
	}
}

// NewPartRequest describes the hangout created as the next series part
type NewPartRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	Location    string     `json:"location,omitempty" validate:"omitempty,max=500"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
}

// CreateSeriesRequest represents the request body for converting a hangout
// into the first part of a new series
type CreateSeriesRequest struct {
	Title       string         `json:"title" validate:"required,min=1,max=200"`
	Description string         `json:"description,omitempty" validate:"omitempty,max=2000"`
	NewPart     NewPartRequest `json:"new_part" validate:"required"`
}

// CreateSeriesResponse returns the new series and its second part
type CreateSeriesResponse struct {
	Series     *entities.EventSeries `json:"series"`
	NewHangout *entities.Hangout     `json:"newHangout"`
}

func (req NewPartRequest) toInput() services.NewPartInput {
	return services.NewPartInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}
}

// CreateSeries handles POST /v1/hangouts/{hangoutID}/series
func (h *SeriesHandler) CreateSeries(w http.ResponseWriter, r *http.Request) {
	hangoutID, err := pathID(r, "hangoutID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req CreateSeriesRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}

	series, newHangout, err := h.service.CreateSeriesFromHangout(r.Context(), services.CreateSeriesInput{
		HangoutID:   hangoutID,
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   user.UserID,
		NewPart:     req.NewPart.toInput(),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, CreateSeriesResponse{
		Series:     series,
		NewHangout: newHangout,
	})
}

// GetSeries handles GET /v1/series/{seriesID}
func (h *SeriesHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	seriesID, err := pathID(r, "seriesID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	series, err := h.service.GetSeries(r.Context(), seriesID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, series)
}

// AddPart handles POST /v1/series/{seriesID}/parts
func (h *SeriesHandler) AddPart(w http.ResponseWriter, r *http.Request) {
	seriesID, err := pathID(r, "seriesID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req NewPartRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}

	hangout, err := h.service.AddPart(r.Context(), services.AddSeriesPartInput{
		SeriesID:  seriesID,
		CreatedBy: user.UserID,
		Part:      req.toInput(),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, hangout)
}

// RemovePart handles DELETE /v1/series/{seriesID}/parts/{hangoutID}
func (h *SeriesHandler) RemovePart(w http.ResponseWriter, r *http.Request) {
	seriesID, err := pathID(r, "seriesID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	hangoutID, err := pathID(r, "hangoutID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.service.RemovePart(r.Context(), seriesID, hangoutID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListGroupSeries handles GET /v1/groups/{groupID}/series
func (h *SeriesHandler) ListGroupSeries(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	pointers, err := h.service.ListGroupSeries(r.Context(), groupID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"series": pointers,
	})
}
