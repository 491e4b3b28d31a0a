package httpserver

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	appcreds "github.com/sbateeni/legal-analysis-nextjs/internal/application/credentials"
	"github.com/sbateeni/legal-analysis-nextjs/internal/domain/credentials"
)

const keyHelp = "Get your API key from https://makersuite.google.com/app/apikey"

func missingKey() *apiError {
	return badRequest("API key is required", "Please provide a valid Google API key", keyHelp)
}

// POST /set_api_key
// Body: {"api_key": "..."}
func (r *Router) handleSetAPIKey(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		APIKey string `json:"api_key"`
	}
	if err := decodeBody(req, apiKeySchema, &body, requestHelp); err != nil {
		return err
	}
	cred := credentials.New(body.APIKey)
	if cred.Empty() {
		return missingKey()
	}
	r.log.Info("saving api key", zap.String("key", cred.Redacted()))

	if v := r.validator.Validate(req.Context(), cred); !v.Valid {
		b := errorBody("Invalid API key",
			"The provided API key is invalid or has expired. Please check your API key and try again.",
			"Visit https://makersuite.google.com/app/apikey to get a new API key")
		b["kind"] = v.Kind
		return &apiError{status: http.StatusBadRequest, body: b}
	}

	sess := sessionOf(req)
	if sess == nil {
		return &apiError{status: http.StatusInternalServerError, body: errorBody("Failed to save API key",
			"The API key could not be saved in the session", "Please try again or contact support")}
	}
	sess.Set(credentials.SessionField, cred.Key())
	if saved, _ := sess.Get(credentials.SessionField); saved != cred.Key() {
		return &apiError{status: http.StatusInternalServerError, body: errorBody("Failed to save API key",
			"The API key could not be saved in the session", "Please try again or contact support")}
	}

	return writeJSON(w, http.StatusOK, map[string]any{
		"status":     "success",
		"message":    "API key saved successfully",
		"details":    "The API key has been validated and saved in your session",
		"next_steps": "You can now use the /analyze endpoint to analyze legal texts",
	})
}

// POST /clear_api_key
func (r *Router) handleClearAPIKey(w http.ResponseWriter, req *http.Request) error {
	if sess := sessionOf(req); sess != nil {
		if key, ok := sess.Get(credentials.SessionField); ok {
			r.validator.Forget(credentials.New(key))
		}
		sess.Delete(credentials.SessionField)
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "API key cleared successfully",
	})
}

// POST /test_api
// Body: {"api_key": "..."}. The session is never modified.
func (r *Router) handleTestAPI(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		APIKey string `json:"api_key"`
	}
	if err := decodeBody(req, apiKeySchema, &body, requestHelp); err != nil {
		return err
	}
	cred := credentials.New(body.APIKey)
	if err := r.validator.CheckFormat(cred.Key()); err != nil {
		if errors.Is(err, appcreds.ErrMissingKey) {
			return missingKey()
		}
		return &apiError{status: http.StatusBadRequest, body: testBody(r.validator.FormatFailure(err))}
	}

	v := r.validator.Validate(req.Context(), cred)
	if !v.Valid {
		return &apiError{status: http.StatusBadRequest, body: testBody(v)}
	}
	b := testBody(v)
	b["next_steps"] = "You can now use this API key for analysis"
	return writeJSON(w, http.StatusOK, b)
}

func testBody(v appcreds.Validation) map[string]any {
	status := "success"
	if !v.Valid {
		status = "error"
	}
	b := map[string]any{
		"status":  status,
		"message": v.Message,
		"details": v.Details,
	}
	if v.Help != "" {
		b["help"] = v.Help
	}
	if v.Kind != "" {
		b["kind"] = v.Kind
	}
	return b
}
