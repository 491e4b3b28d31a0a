package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// maxBodyBytes bounds request bodies. Text beyond the prompt limit is
// truncated later, so this only guards against abuse.
const maxBodyBytes = 1 << 20

const requestHelp = `Send a POST request with {"api_key": "your-api-key"}`

var (
	analyzeSchema = mustSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text":    map[string]any{"type": "string"},
			"stage":   map[string]any{"type": "integer"},
			"case_id": map[string]any{"type": "string"},
		},
	})
	analyzeStageSchema = mustSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text":      map[string]any{"type": "string"},
			"stage_idx": map[string]any{"type": "integer"},
			"api_key":   map[string]any{"type": "string"},
			"case_id":   map[string]any{"type": "string"},
		},
	})
	apiKeySchema = mustSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"api_key": map[string]any{"type": "string"},
		},
	})
	createCaseSchema = mustSchema(map[string]any{
		"type":     "object",
		"required": []string{"name"},
		"properties": map[string]any{
			"name": map[string]any{"type": "string", "minLength": 1, "maxLength": 200},
		},
	})
)

func mustSchema(def map[string]any) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(def))
	if err != nil {
		panic(fmt.Sprintf("compile request schema: %v", err))
	}
	return s
}

// decodeBody reads a JSON object, checks it against schema and decodes it
// into dst. Failures are 400 apiErrors in the shape the endpoint expects.
func decodeBody(req *http.Request, schema *gojsonschema.Schema, dst any, help string) error {
	raw, err := io.ReadAll(io.LimitReader(req.Body, maxBodyBytes))
	if err != nil {
		return badRequest("Invalid request", "Could not read request body", help)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !json.Valid(raw) || raw[0] != '{' {
		return badRequest("Invalid request", "Request body must be JSON", help)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return badRequest("Invalid request", err.Error(), help)
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return badRequest("Invalid request", strings.Join(details, "; "), help)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return badRequest("Invalid request", err.Error(), help)
	}
	return nil
}
