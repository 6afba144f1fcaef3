package mw

import (
	"encoding/json"
	"net/http"
)

type denial struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// deny answers with the API error body so clients parse every failure the same way.
func deny(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(denial{Code: code, Message: message})
}
