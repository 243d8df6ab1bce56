package handlers

import (
	"encoding/json"
	"net/http"
)

const maxJSONBody = 64 << 10 // 64KB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// failure es el shape uniforme de error del wire contract.
type failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, failure{Success: false, Error: msg})
}
