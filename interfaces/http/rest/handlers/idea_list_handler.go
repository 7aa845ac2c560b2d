package handlers

import (
	"net/http"

	"hangout-backend/application/services"
	"hangout-backend/pkg/auth"
	pkgerrors "hangout-backend/pkg/errors"

	"go.uber.org/zap"
)

// IdeaListHandler handles idea-list HTTP requests
type IdeaListHandler struct {
	baseHandler
	service *services.IdeaListService
}

// NewIdeaListHandler creates a new idea list handler
func NewIdeaListHandler(
	service *services.IdeaListService,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *IdeaListHandler {
	return &IdeaListHandler{
		baseHandler: baseHandler{errors: errorHandler, logger: logger},
		service:     service,
	}
}

// CreateIdeaListRequest represents the request body for creating a list
type CreateIdeaListRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Category    string `json:"category,omitempty" validate:"omitempty,max=100"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// UpdateIdeaListRequest represents the request body for updating a list
type UpdateIdeaListRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// AddIdeaRequest represents the request body for adding an idea to a list
type AddIdeaRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
	URL  string `json:"url,omitempty" validate:"omitempty,url,max=2000"`
	Note string `json:"note,omitempty" validate:"omitempty,max=2000"`
}

// CreateIdeaList handles POST /v1/groups/{groupID}/idea-lists
func (h *IdeaListHandler) CreateIdeaList(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req CreateIdeaListRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}

	list, err := h.service.CreateIdeaList(r.Context(), services.CreateIdeaListInput{
		GroupID:     groupID,
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		CreatedBy:   user.UserID,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, list)
}

// ListIdeaLists handles GET /v1/groups/{groupID}/idea-lists
func (h *IdeaListHandler) ListIdeaLists(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	lists, err := h.service.ListIdeaLists(r.Context(), groupID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"ideaLists": lists,
	})
}

// GetIdeaList handles GET /v1/groups/{groupID}/idea-lists/{listID}
func (h *IdeaListHandler) GetIdeaList(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	listID, err := pathID(r, "listID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	list, err := h.service.GetIdeaList(r.Context(), groupID, listID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, list)
}

// UpdateIdeaList handles PUT /v1/groups/{groupID}/idea-lists/{listID}
func (h *IdeaListHandler) UpdateIdeaList(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	listID, err := pathID(r, "listID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req UpdateIdeaListRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	list, err := h.service.UpdateIdeaList(r.Context(), services.UpdateIdeaListInput{
		GroupID:     groupID,
		ListID:      listID,
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, list)
}

// DeleteIdeaList handles DELETE /v1/groups/{groupID}/idea-lists/{listID}
func (h *IdeaListHandler) DeleteIdeaList(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	listID, err := pathID(r, "listID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.service.DeleteIdeaList(r.Context(), groupID, listID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddIdea handles POST /v1/groups/{groupID}/idea-lists/{listID}/ideas
func (h *IdeaListHandler) AddIdea(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	listID, err := pathID(r, "listID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req AddIdeaRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}

	idea, err := h.service.AddIdea(r.Context(), services.AddIdeaInput{
		GroupID: groupID,
		ListID:  listID,
		Name:    req.Name,
		URL:     req.URL,
		Note:    req.Note,
		AddedBy: user.UserID,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, idea)
}

// ListIdeas handles GET /v1/groups/{groupID}/idea-lists/{listID}/ideas
func (h *IdeaListHandler) ListIdeas(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	listID, err := pathID(r, "listID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	ideas, err := h.service.ListIdeas(r.Context(), groupID, listID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"ideas": ideas,
	})
}

// GetIdea handles GET /v1/groups/{groupID}/idea-lists/{listID}/ideas/{ideaID}
func (h *IdeaListHandler) GetIdea(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	listID, err := pathID(r, "listID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	ideaID, err := pathID(r, "ideaID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	idea, err := h.service.GetIdea(r.Context(), groupID, listID, ideaID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, idea)
}

// RemoveIdea handles DELETE /v1/groups/{groupID}/idea-lists/{listID}/ideas/{ideaID}
func (h *IdeaListHandler) RemoveIdea(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	listID, err := pathID(r, "listID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	ideaID, err := pathID(r, "ideaID")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.service.RemoveIdea(r.Context(), groupID, listID, ideaID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
