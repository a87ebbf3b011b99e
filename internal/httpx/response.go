// Package httpx holds the JSON plumbing shared by handlers and middleware.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, ErrorResponse{Message: message})
}

// DecodeJSON reads a single JSON object from the request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)

	err := dec.Decode(dst)
	switch {
	case errors.Is(err, io.EOF):
		return errors.New("request body is empty")
	case err != nil:
		return fmt.Errorf("invalid JSON body: %w", err)
	}

	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
