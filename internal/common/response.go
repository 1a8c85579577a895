package common

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func NewPagination(page, limit, total int) *Pagination {
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	return &Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, Response{Success: false, Message: message})
}

// RespondWithDomainError translates a service error into status + message.
// Only explicitly constructed DomainErrors propagate their message
// verbatim; everything else is masked behind fallbackMessage so
// storage-layer detail never reaches clients.
func RespondWithDomainError(w http.ResponseWriter, err error, fallbackMessage string) {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		RespondWithError(w, HTTPStatusFromError(err), domErr.Message)
		return
	}
	RespondWithError(w, http.StatusInternalServerError, fallbackMessage)
}

func RespondWithJSON(w http.ResponseWriter, code int, message string, data interface{}) {
	writeJSON(w, code, Response{Success: true, Message: message, Data: data})
}

func RespondWithPage(w http.ResponseWriter, code int, message string, data interface{}, p *Pagination) {
	writeJSON(w, code, Response{Success: true, Message: message, Data: data, Pagination: p})
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success": false, "message": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
