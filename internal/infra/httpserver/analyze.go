package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	appanalysis "github.com/sbateeni/legal-analysis-nextjs/internal/application/analysis"
	appcreds "github.com/sbateeni/legal-analysis-nextjs/internal/application/credentials"
	domain "github.com/sbateeni/legal-analysis-nextjs/internal/domain/analysis"
	domaincases "github.com/sbateeni/legal-analysis-nextjs/internal/domain/cases"
	"github.com/sbateeni/legal-analysis-nextjs/internal/domain/credentials"
	"github.com/sbateeni/legal-analysis-nextjs/internal/domain/stages"
	"github.com/sbateeni/legal-analysis-nextjs/internal/middleware"
)

const (
	msgStageRequiredKey = "مطلوب مفتاح API"
	msgStageNoText      = "يرجى إدخال النص القانوني"
	msgStageBadIndex    = "رقم مرحلة غير صحيح"
	msgStageInvalidKey  = "مفتاح API غير صالح"
	msgStageFailed      = "حدث خطأ أثناء التحليل"
)

// POST /analyze
// Body: {"text": "...", "stage": 0, "case_id": "<optional>"}
// Streams started, result and completed frames for one stage.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	cred, ok := appcreds.Resolve(req.Header.Get(appcreds.HeaderName), sessionOf(req))
	if !ok {
		return unauthorized("API key is required",
			"Please provide a valid Google API key in the X-API-Key header or set it in the session")
	}

	var body struct {
		Text   string `json:"text"`
		Stage  int    `json:"stage"`
		CaseID string `json:"case_id"`
	}
	if err := decodeBody(req, analyzeSchema, &body, ""); err != nil {
		return err
	}
	text := middleware.SanitizeString(body.Text)
	if text == "" {
		return badRequest("No text provided", "Please provide the legal text to analyze", "")
	}
	if body.Stage < 0 || body.Stage >= stages.Count {
		r.log.Warn("invalid stage index", zap.Int("stage_index", body.Stage))
		return badRequest("Invalid stage number", fmt.Sprintf("Stage number must be between 0 and %d", stages.Count-1), "")
	}
	caseID, err := r.checkCase(req, body.CaseID)
	if err != nil {
		return err
	}

	if v := r.validator.Validate(req.Context(), cred); !v.Valid {
		b := errorBody("Invalid API key",
			"The provided API key is invalid or has expired. Please check your API key and try again.", v.Help)
		b["kind"] = v.Kind
		return &apiError{status: http.StatusUnauthorized, body: b}
	}

	stream, err := openStream(w)
	if err != nil {
		return err
	}
	log := r.log.With(zap.Int("stage_index", body.Stage), zap.String("key", cred.Redacted()))
	log.Info("analysis request started")

	progress := func(status string) domain.Progress {
		return domain.Progress{Status: status, StageIndex: body.Stage, TotalStages: stages.Count}
	}
	if err := stream.send(progress(statusStarted)); err != nil {
		log.Warn("client gone before start", zap.Error(err))
		return nil
	}

	res, runErr := r.runner.Run(req.Context(), appanalysis.Request{Text: text, StageIndex: body.Stage, Credential: cred})
	if runErr != nil {
		log.Error("analysis failed", zap.Error(runErr))
		_ = stream.send(map[string]any{
			"error":        runErr.Error(),
			"status":       string(domain.StatusError),
			"details":      "An error occurred while generating the analysis",
			"stage_index":  body.Stage,
			"total_stages": stages.Count,
		})
	} else {
		if err := stream.send(res); err != nil {
			log.Warn("client gone before result", zap.Error(err))
			return nil
		}
		r.record(req, caseID, text, res)
	}
	_ = stream.send(progress(statusCompleted))
	return nil
}

// POST /analyze_stage
// Body: {"text": "...", "stage_idx": 0, "api_key": "...", "case_id": "<optional>"}
func (r *Router) handleAnalyzeStage(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Text     string `json:"text"`
		StageIdx int    `json:"stage_idx"`
		APIKey   string `json:"api_key"`
		CaseID   string `json:"case_id"`
	}
	if err := decodeBody(req, analyzeStageSchema, &body, ""); err != nil {
		return stageError(http.StatusBadRequest, detailOf(err))
	}

	cred := credentials.New(body.APIKey)
	if cred.Empty() {
		var ok bool
		if cred, ok = appcreds.Resolve(req.Header.Get(appcreds.HeaderName), sessionOf(req)); !ok {
			return stageError(http.StatusUnauthorized, msgStageRequiredKey)
		}
	}
	text := middleware.SanitizeString(body.Text)
	if text == "" {
		return stageError(http.StatusBadRequest, msgStageNoText)
	}
	if body.StageIdx < 0 || body.StageIdx >= stages.Count {
		return stageError(http.StatusBadRequest, msgStageBadIndex)
	}
	caseID, err := r.checkCase(req, body.CaseID)
	if err != nil {
		return err
	}
	if !r.validator.Valid(req.Context(), cred) {
		return stageError(http.StatusUnauthorized, msgStageInvalidKey)
	}

	res, err := r.runner.Run(req.Context(), appanalysis.Request{Text: text, StageIndex: body.StageIdx, Credential: cred})
	if err != nil {
		return stageError(http.StatusInternalServerError, err.Error())
	}
	r.record(req, caseID, text, res)

	if res.Status == domain.StatusCompleted {
		return writeJSON(w, http.StatusOK, map[string]any{"status": "success", "result": res.Analysis})
	}
	msg := res.Analysis
	if strings.TrimSpace(msg) == "" {
		msg = msgStageFailed
	}
	return writeJSON(w, http.StatusOK, map[string]any{"status": "error", "error": msg})
}

func stageError(status int, msg string) *apiError {
	return &apiError{status: status, body: map[string]any{"status": "error", "error": msg}}
}

// checkCase verifies an optional case id belongs to the caller before any
// provider call is made.
func (r *Router) checkCase(req *http.Request, id string) (domaincases.CaseID, error) {
	id = strings.TrimSpace(id)
	if id == "" || r.cases == nil {
		return "", nil
	}
	if err := middleware.ValidateCaseID(id); err != nil {
		return "", badRequest("Invalid request", err.Error(), "")
	}
	owner, err := ownerOf(req)
	if err != nil {
		return "", err
	}
	if _, err := r.cases.Get(req.Context(), owner, domaincases.CaseID(id)); err != nil {
		return "", err
	}
	return domaincases.CaseID(id), nil
}

// record stores a result in the case, if any. Failures are logged only: the
// analysis itself has already been delivered.
func (r *Router) record(req *http.Request, id domaincases.CaseID, input string, res domain.Result) {
	if id == "" || r.cases == nil {
		return
	}
	owner, err := ownerOf(req)
	if err != nil {
		return
	}
	ctx := context.WithoutCancel(req.Context())
	if _, err := r.cases.Record(ctx, owner, id, input, res); err != nil {
		r.log.Warn("could not record stage in case", zap.String("case_id", string(id)), zap.Error(err))
	}
}
