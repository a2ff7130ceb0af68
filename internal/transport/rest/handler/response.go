package handler

import (
	"campussafety/internal/fault"
	"campussafety/internal/log"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func writeValidation(w http.ResponseWriter, message string, fields map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"error":  message,
		"fields": fields,
	})
}

// writeFault maps a service error to its HTTP status
func writeFault(w http.ResponseWriter, r *http.Request, err error) {
	switch fault.TypeOf(err) {
	case fault.ErrValidation:
		writeValidation(w, fault.Message(err), fault.FieldsOf(err))
		return
	case fault.ErrClient:
		writeError(w, http.StatusBadRequest, fault.Message(err))
	case fault.ErrNotFoundType:
		writeError(w, http.StatusNotFound, fault.Message(err))
	case fault.ErrConflictType:
		writeError(w, http.StatusConflict, fault.Message(err))
	case fault.ErrUnauthorized:
		writeError(w, http.StatusUnauthorized, fault.Message(err))
	case fault.ErrUnavailable:
		log.WithFields(log.Fields{"path": r.URL.Path}).WithError(err).Warn("upstream unavailable")
		writeError(w, http.StatusServiceUnavailable, fault.Message(err))
	default:
		log.WithFields(log.Fields{"path": r.URL.Path}).WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads the body into dst and runs struct validation. It writes
// the error response itself and reports whether the handler may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return false
		}
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fe.Namespace()] = fe.Tag()
		}
		writeValidation(w, "validation failed", fields)
		return false
	}
	return true
}

func queryInt(r *http.Request, key string, def int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil {
		return v
	}
	return def
}
