package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/hwtrack/internal/domain"
	"github.com/MrSnakeDoc/hwtrack/internal/inventory"
	"github.com/MrSnakeDoc/hwtrack/internal/logger"
)

// ErrorCode is the machine readable part of an error response.
type ErrorCode string

const (
	CodeBadRequest    ErrorCode = "BAD_REQUEST"
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeInvalidDate   ErrorCode = "INVALID_DATE"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeNotReady      ErrorCode = "NOT_READY"
	CodePersistence   ErrorCode = "PERSISTENCE_ERROR"
	CodeMalformed     ErrorCode = "MALFORMED_STATE"
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
)

type errorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// classify maps an error to its code and HTTP status.
func classify(err error) (ErrorCode, int) {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		return CodeNotFound, http.StatusNotFound
	case errors.Is(err, inventory.ErrNotReady):
		return CodeNotReady, http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInvalidDate):
		return CodeInvalidDate, http.StatusBadRequest
	case errors.Is(err, inventory.ErrValidation):
		return CodeValidation, http.StatusBadRequest
	case errors.Is(err, inventory.ErrPersist):
		return CodePersistence, http.StatusInternalServerError
	case errors.Is(err, inventory.ErrMalformedState):
		return CodeMalformed, http.StatusInternalServerError
	default:
		return CodeInternalError, http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	code, status := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", logger.String("code", string(code)), logger.Error(err))
	}
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Code: CodeBadRequest, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
