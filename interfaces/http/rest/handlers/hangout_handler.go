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

// HangoutHandler handles hangout-related HTTP requests
type HangoutHandler struct {
	baseHandler
	service *services.HangoutService
}

// NewHangoutHandler creates a new hangout handler
func NewHangoutHandler(
	service *services.HangoutService,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *HangoutHandler {
	return &HangoutHandler{
		baseHandler: baseHandler{errors: errorHandler, logger: logger},
		service:     service,
	}
}

// CreateHangoutRequest represents the request body for creating a hangout
type CreateHangoutRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	Location    string     `json:"location,omitempty" validate:"omitempty,max=500"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	GroupIDs    []string   `json:"group_ids" validate:"required,min=1,max=25,dive,uuid"`
}

// UpdateHangoutRequest represents the request body for updating a hangout
type UpdateHangoutRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Location    *string    `json:"location,omitempty" validate:"omitempty,max=500"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
}

// AssociateGroupRequest represents the request body for sharing a hangout
// with another group
type AssociateGroupRequest struct {
	GroupID string `json:"group_id" validate:"required,uuid"`
}

// SetInterestRequest represents the request body for recording attendance
type SetInterestRequest struct {
	Status        string `json:"status" validate:"required,oneof=GOING INTERESTED NOT_GOING"`
	Notes         string `json:"notes,omitempty" validate:"omitempty,max=1000"`
	UserName      string `json:"user_name,omitempty" validate:"omitempty,max=200"`
	MainImagePath string `json:"main_image_path,omitempty" validate:"omitempty,max=1000"`
}

// GetHangoutResponse bundles the canonical record with its attendance
type GetHangoutResponse struct {
	Hangout        *entities.Hangout         `json:"hangout"`
	InterestLevels []*entities.InterestLevel `json:"interestLevels"`
}

// CreateHangout handles POST /v1/hangouts
func (h *HangoutHandler) CreateHangout(w http.ResponseWriter, r *http.Request) {
	var req CreateHangoutRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}

	hangout, err := h.service.CreateHangout(r.Context(), services.CreateHangoutInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		GroupIDs:    req.GroupIDs,
		CreatedBy:   user.UserID,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, hangout)
}

// GetHangout handles GET /v1/hangouts/{hangoutID}
func (h *HangoutHandler) GetHangout(w http.ResponseWriter, r *http.Request) {
	hangoutID, err := pathID(r, "hangoutID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	hangout, interestLevels, err := h.service.GetHangout(r.Context(), hangoutID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, GetHangoutResponse{
		Hangout:        hangout,
		InterestLevels: interestLevels,
	})
}

// UpdateHangout handles PUT /v1/hangouts/{hangoutID}
func (h *HangoutHandler) UpdateHangout(w http.ResponseWriter, r *http.Request) {
	hangoutID, err := pathID(r, "hangoutID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req UpdateHangoutRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	hangout, err := h.service.UpdateHangout(r.Context(), services.UpdateHangoutInput{
		HangoutID:   hangoutID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, hangout)
}

// DeleteHangout handles DELETE /v1/hangouts/{hangoutID}
func (h *HangoutHandler) DeleteHangout(w http.ResponseWriter, r *http.Request) {
	hangoutID, err := pathID(r, "hangoutID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.service.DeleteHangout(r.Context(), hangoutID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AssociateGroup handles POST /v1/hangouts/{hangoutID}/groups
func (h *HangoutHandler) AssociateGroup(w http.ResponseWriter, r *http.Request) {
	hangoutID, err := pathID(r, "hangoutID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req AssociateGroupRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	hangout, err := h.service.AssociateGroup(r.Context(), hangoutID, req.GroupID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, hangout)
}

// DisassociateGroup handles DELETE /v1/hangouts/{hangoutID}/groups/{groupID}
func (h *HangoutHandler) DisassociateGroup(w http.ResponseWriter, r *http.Request) {
	hangoutID, err := pathID(r, "hangoutID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	groupID, err := pathID(r, "groupID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	hangout, err := h.service.DisassociateGroup(r.Context(), hangoutID, groupID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, hangout)
}

// ListGroupFeed handles GET /v1/groups/{groupID}/feed
func (h *HangoutHandler) ListGroupFeed(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	pointers, err := h.service.ListGroupFeed(r.Context(), groupID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"hangouts": pointers,
	})
}

// SetInterestLevel handles PUT /v1/hangouts/{hangoutID}/interest
func (h *HangoutHandler) SetInterestLevel(w http.ResponseWriter, r *http.Request) {
	hangoutID, err := pathID(r, "hangoutID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req SetInterestRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}

	interest, err := h.service.SetInterestLevel(r.Context(), services.SetInterestLevelInput{
		HangoutID:     hangoutID,
		UserID:        user.UserID,
		Status:        entities.InterestStatus(req.Status),
		Notes:         req.Notes,
		UserName:      req.UserName,
		MainImagePath: req.MainImagePath,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, interest)
}

// RemoveInterestLevel handles DELETE /v1/hangouts/{hangoutID}/interest
func (h *HangoutHandler) RemoveInterestLevel(w http.ResponseWriter, r *http.Request) {
	hangoutID, err := pathID(r, "hangoutID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}

	if err := h.service.RemoveInterestLevel(r.Context(), hangoutID, user.UserID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListInterestLevels handles GET /v1/hangouts/{hangoutID}/interest
func (h *HangoutHandler) ListInterestLevels(w http.ResponseWriter, r *http.Request) {
	hangoutID, err := pathID(r, "hangoutID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	interestLevels, err := h.service.ListInterestLevels(r.Context(), hangoutID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"interestLevels": interestLevels,
	})
}
