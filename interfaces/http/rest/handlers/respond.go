package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	pkgerrors "hangout-backend/pkg/errors"
	"hangout-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// baseHandler carries the pieces every resource handler shares. Error
// rendering and logging go through the error handler so every endpoint
// reports failures the same way.
type baseHandler struct {
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

func (h baseHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// decodeAndValidate parses the JSON body into req and applies its
// validation tags. An empty body reads as the zero request; required
// tags still reject it when fields are mandatory.
func decodeAndValidate(r *http.Request, req interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
		return pkgerrors.NewValidationError("invalid request body").WithCause(err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

// pathID reads a route parameter that must be a UUID
func pathID(r *http.Request, name string) (string, error) {
	value := chi.URLParam(r, name)
	if _, err := uuid.Parse(value); err != nil {
		return "", pkgerrors.NewValidationError(name + " must be a valid UUID")
	}
	return value, nil
}
