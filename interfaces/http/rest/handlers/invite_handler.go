package handlers

import (
	"net/http"
	"time"

	"hangout-backend/application/services"
	"hangout-backend/pkg/auth"
	pkgerrors "hangout-backend/pkg/errors"

	"go.uber.org/zap"
)

// InviteHandler handles invite-code HTTP requests
type InviteHandler struct {
	baseHandler
	service *services.InviteService
}

// NewInviteHandler creates a new invite handler
func NewInviteHandler(
	service *services.InviteService,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *InviteHandler {
	return &InviteHandler{
		baseHandler: baseHandler{errors: errorHandler, logger: logger},
		service:     service,
	}
}

// CreateInviteCodeRequest represents the request body for minting a code
type CreateInviteCodeRequest struct {
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// RedeemCodeRequest represents the request body for redeeming a code
type RedeemCodeRequest struct {
	Code string `json:"code" validate:"required,min=4,max=32"`
}

// RedeemCodeResponse returns the group an accepted code unlocks
type RedeemCodeResponse struct {
	GroupID string `json:"groupId"`
}

// CreateInviteCode handles POST /v1/groups/{groupID}/invites
func (h *InviteHandler) CreateInviteCode(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req CreateInviteCodeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}

	code, err := h.service.CreateInviteCode(r.Context(), services.CreateInviteCodeInput{
		GroupID:   groupID,
		CreatedBy: user.UserID,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, code)
}

// ListGroupCodes handles GET /v1/groups/{groupID}/invites
func (h *InviteHandler) ListGroupCodes(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	codes, err := h.service.ListGroupCodes(r.Context(), groupID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"inviteCodes": codes,
	})
}

// GetActiveCode handles GET /v1/groups/{groupID}/invites/active
func (h *InviteHandler) GetActiveCode(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	code, err := h.service.FindActiveCode(r.Context(), groupID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if code == nil {
		h.errors.Handle(w, r, pkgerrors.NewNotFoundError("active invite code"))
		return
	}

	h.respondJSON(w, http.StatusOK, code)
}

// RedeemCode handles POST /v1/invites/redeem
func (h *InviteHandler) RedeemCode(w http.ResponseWriter, r *http.Request) {
	var req RedeemCodeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}

	groupID, err := h.service.RedeemCode(r.Context(), req.Code, user.UserID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, RedeemCodeResponse{GroupID: groupID})
}

// DeactivateCode handles POST /v1/invites/{inviteCodeID}/deactivate
func (h *InviteHandler) DeactivateCode(w http.ResponseWriter, r *http.Request) {
	inviteCodeID, err := pathID(r, "inviteCodeID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.service.DeactivateCode(r.Context(), inviteCodeID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteCode handles DELETE /v1/invites/{inviteCodeID}
func (h *InviteHandler) DeleteCode(w http.ResponseWriter, r *http.Request) {
	inviteCodeID, err := pathID(r, "inviteCodeID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.service.DeleteCode(r.Context(), inviteCodeID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
