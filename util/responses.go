// Package util holds the HTTP plumbing shared by the controllers:
// JSON response writers, the service-error to status-code mapping, and
// bearer token authorization.
package util

import (
	"encoding/json"
	"log"
	"net/http"

	"edudesk-backend/school"
)

func WriteErrorResponse(w http.ResponseWriter, statusCode int, errorMessage string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	errorResponse := struct {
		Error string `json:"error"`
	}{Error: errorMessage}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func WriteSuccessResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// WriteServiceError maps a school package error to its HTTP status.
// Dependency failures are logged server-side and sent as 502 without
// the wrapped detail.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch school.KindOf(err) {
	case school.KindNotFound:
		WriteErrorResponse(w, http.StatusNotFound, err.Error())
	case school.KindInvalidArgument:
		WriteErrorResponse(w, http.StatusBadRequest, err.Error())
	case school.KindConflict:
		WriteErrorResponse(w, http.StatusConflict, err.Error())
	case school.KindForbidden:
		WriteErrorResponse(w, http.StatusForbidden, err.Error())
	case school.KindDependencyFailure:
		log.Println("WriteServiceError: dependency failure:", err)
		WriteErrorResponse(w, http.StatusBadGateway, "upstream dependency failed")
	default:
		log.Println("WriteServiceError: unclassified error:", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "internal error")
	}
}
