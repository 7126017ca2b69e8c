package response

import (
	"encoding/json"
	"net/http"
)

// Webhook callers key off the success flag and the stable error code; the
// message is for humans reading logs.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

type collectionEnvelope struct {
	Success bool           `json:"success"`
	Data    any            `json:"data"`
	Meta    PaginationMeta `json:"meta"`
}

type PaginationMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

func JSON(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, v)
}

func Collection(w http.ResponseWriter, data any, meta PaginationMeta) {
	writeJSON(w, http.StatusOK, collectionEnvelope{Success: true, Data: data, Meta: meta})
}

func Error(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Success: false, Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
