package controllers

import (
	"errors"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/providers"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type errorResponse struct {
	Error  string                  `json:"error"`
	Report *models.InjectionReport `json:"report,omitempty"`
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, providers.ErrMissingCredentials), errors.Is(err, providers.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrDuplicateEntry):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFinished), errors.Is(err, models.ErrBalanceMismatch):
		return http.StatusConflict
	case errors.Is(err, models.ErrPaused):
		return http.StatusLocked
	case errors.Is(err, models.ErrExternalCall):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, gson)
}

func writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, logger providers.Logger, r *http.Request, err error, report *models.InjectionReport) {
	status := statusFor(err)
	logType := providers.GetLogTypeByRequestType(r.Method)
	if status >= http.StatusInternalServerError {
		logger.Errorf(logType, "%s %s: %s", r.Method, r.URL.Path, err)
	} else {
		logger.Warnf(logType, "%s %s: %s", r.Method, r.URL.Path, err)
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal Server Error"
	}
	writeJSON(w, status, errorResponse{Error: msg, Report: report})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed body: %v", models.ErrValidation, err)
	}
	return nil
}

// parseAddress accepts a 0x-prefixed hex address and normalizes it.
func parseAddress(field, raw string) (models.Address, error) {
	if !models.IsValidAddress(raw) {
		return "", fmt.Errorf("%w: %s is not an address", models.ErrValidation, field)
	}
	return models.NewAddress(raw), nil
}

// parseOptionalAddress returns the empty address when raw is empty.
func parseOptionalAddress(field, raw string) (models.Address, error) {
	if raw == "" {
		return "", nil
	}
	return parseAddress(field, raw)
}
