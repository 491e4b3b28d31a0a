package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	domain "github.com/sbateeni/legal-analysis-nextjs/internal/domain/cases"
	"github.com/sbateeni/legal-analysis-nextjs/internal/middleware"
)

var errCasesDisabled = &apiError{status: http.StatusServiceUnavailable,
	body: errorBody("cases unavailable", "Case history is not configured on this server", "")}

// ownerOf returns the session id owning the caller's cases.
func ownerOf(req *http.Request) (string, error) {
	s := middleware.SessionFrom(req.Context())
	if s == nil {
		return "", unauthorized("session required", "Enable cookies to keep a case history")
	}
	return s.ID(), nil
}

func (r *Router) caseParams(req *http.Request) (string, domain.CaseID, error) {
	if r.cases == nil {
		return "", "", errCasesDisabled
	}
	owner, err := ownerOf(req)
	if err != nil {
		return "", "", err
	}
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateCaseID(id); err != nil {
		return "", "", badRequest("Invalid request", err.Error(), "")
	}
	return owner, domain.CaseID(id), nil
}

// POST /cases
// Body: {"name": "..."}
func (r *Router) handleCreateCase(w http.ResponseWriter, req *http.Request) error {
	if r.cases == nil {
		return errCasesDisabled
	}
	owner, err := ownerOf(req)
	if err != nil {
		return err
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(req, createCaseSchema, &body, ""); err != nil {
		return err
	}
	c, err := r.cases.Create(req.Context(), owner, middleware.SanitizeString(body.Name))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, c)
}

// GET /cases?page=&page_size=
func (r *Router) handleListCases(w http.ResponseWriter, req *http.Request) error {
	if r.cases == nil {
		return errCasesDisabled
	}
	owner, err := ownerOf(req)
	if err != nil {
		return err
	}
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))
	page, size = middleware.ValidatePage(page), middleware.ValidateLimit(size)

	list, err := r.cases.List(req.Context(), owner, page, size)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"cases":     list,
		"page":      page,
		"page_size": size,
	})
}

// GET /cases/{id}
func (r *Router) handleGetCase(w http.ResponseWriter, req *http.Request) error {
	owner, id, err := r.caseParams(req)
	if err != nil {
		return err
	}
	c, err := r.cases.Get(req.Context(), owner, id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, c)
}

// DELETE /cases/{id}
func (r *Router) handleDeleteCase(w http.ResponseWriter, req *http.Request) error {
	owner, id, err := r.caseParams(req)
	if err != nil {
		return err
	}
	if err := r.cases.Delete(req.Context(), owner, id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// POST /cases/{id}/export
func (r *Router) handleExportCase(w http.ResponseWriter, req *http.Request) error {
	owner, id, err := r.caseParams(req)
	if err != nil {
		return err
	}
	url, err := r.cases.Export(req.Context(), owner, id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"status": "success", "url": url})
}
