// Package httpjson writes JSON response bodies.
package httpjson

import (
	"encoding/json"
	"net/http"
)

func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Message is the body of every error response.
type Message struct {
	Message string `json:"message"`
}

func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, Message{Message: msg})
}
