package utils

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// Envelope is the response wrapper returned by every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ParseRequestBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dest)
	if err != nil {
		slog.Error("error parsing request body", "error", err)
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("error parsing request body: %v", err))
		return false
	}
	return true
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(env)
	if err != nil {
		slog.Error("error serializing response body", "error", err)
	}
}

func WriteJsonResponse(w http.ResponseWriter, data interface{}) {
	writeEnvelope(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func WriteMessage(w http.ResponseWriter, message string) {
	writeEnvelope(w, http.StatusOK, Envelope{Success: true, Message: message})
}

func WriteSuccess(w http.ResponseWriter) {
	writeEnvelope(w, http.StatusOK, Envelope{Success: true})
}

func WriteError(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, Envelope{Success: false, Error: message})
}

// ParseID is the single identifier parser used by every route. Ids start at 1,
// so 0, empty strings, and non numeric values are all invalid.
func ParseID(param string) (uint, error) {
	if param == "" {
		return 0, fmt.Errorf("missing id")
	}
	id, err := strconv.ParseUint(param, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id '%v' provided: %w", param, err)
	}
	if id == 0 {
		return 0, fmt.Errorf("id must be >= 1")
	}
	return uint(id), nil
}

func URLParamID(r *http.Request, key string) (uint, error) {
	param := chi.URLParam(r, key)
	if len(param) == 0 {
		return 0, fmt.Errorf("missing {%v} url parameter", key)
	}
	return ParseID(param)
}

func QueryParamID(r *http.Request, key string) (uint, error) {
	param := r.URL.Query().Get(key)
	if len(param) == 0 {
		return 0, fmt.Errorf("missing '%v' query parameter", key)
	}
	return ParseID(param)
}

// FormBool follows the convention that only the literal string "true" is true.
func FormBool(r *http.Request, key string) bool {
	return r.FormValue(key) == "true"
}

// FormFloat parses leniently: empty or malformed values become nil.
func FormFloat(r *http.Request, key string) *float64 {
	value := strings.TrimSpace(r.FormValue(key))
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}

var dateLayouts = []string{time.RFC3339, "2006-01-02", "2006"}

// FormDate accepts full timestamps, dates, or bare years. Empty or
// unparseable values become nil.
func FormDate(r *http.Request, key string) *time.Time {
	value := strings.TrimSpace(r.FormValue(key))
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
