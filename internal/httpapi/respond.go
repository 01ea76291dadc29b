package httpapi

import (
	"encoding/json"
	"net/http"
)

// maxRequestBody caps the request body size. A check-in body is four short
// strings, well under 1 KiB, so 4 KiB is generous.
const maxRequestBody = 4096

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}
