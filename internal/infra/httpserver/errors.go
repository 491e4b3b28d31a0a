package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// apiError is a handler failure with a fixed status and JSON body.
type apiError struct {
	status int
	body   any
}

func (e *apiError) Error() string {
	return fmt.Sprintf("http %d: %v", e.status, e.body)
}

// errorBody is the common failure shape: status, error, details and optional help.
func errorBody(msg, details, help string) map[string]any {
	b := map[string]any{"status": "error", "error": msg, "details": details}
	if help != "" {
		b["help"] = help
	}
	return b
}

func badRequest(msg, details, help string) *apiError {
	return &apiError{status: http.StatusBadRequest, body: errorBody(msg, details, help)}
}

func unauthorized(msg, details string) *apiError {
	return &apiError{status: http.StatusUnauthorized, body: errorBody(msg, details, "")}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// detailOf extracts the details text of an apiError, or the error text.
func detailOf(err error) string {
	var ae *apiError
	if errors.As(err, &ae) {
		if b, ok := ae.body.(map[string]any); ok {
			if d, ok := b["details"].(string); ok {
				return d
			}
		}
	}
	return err.Error()
}
