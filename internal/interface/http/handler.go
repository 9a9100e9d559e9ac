package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pillmein/supplement-advisor/internal/domain/recommend"
	"github.com/pillmein/supplement-advisor/internal/domain/survey"
	apperrors "github.com/pillmein/supplement-advisor/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	surveySvc    survey.Service
	recommendSvc *recommend.Service
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(surveySvc survey.Service, recommendSvc *recommend.Service, logger *slog.Logger) *Handler {
	return &Handler{
		surveySvc:    surveySvc,
		recommendSvc: recommendSvc,
		logger:       logger.With("component", "http.handler"),
	}
}

// recommendResponse mirrors the legacy response contract: one field per slot.
type recommendResponse struct {
	UserID         int64               `json:"userId"`
	RecSupplement1 recommend.Candidate `json:"recSupplement1"`
	RecSupplement2 recommend.Candidate `json:"recSupplement2"`
	RecSupplement3 recommend.Candidate `json:"recSupplement3"`
}

// Recommend runs the full survey-to-recommendation pipeline for the
// authenticated user.
func (h *Handler) Recommend(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, apperrors.CodeUnauthorized, "missing user identity", nil))
		return
	}

	summary, err := h.surveySvc.Summarize(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, translateError(err, "summarize_failed"))
		return
	}

	result, err := h.recommendSvc.Recommend(c.Request.Context(), userID, summary)
	if err != nil {
		abortWithError(c, translateError(err, "recommend_failed"))
		return
	}

	c.JSON(http.StatusOK, recommendResponse{
		UserID:         result.UserID,
		RecSupplement1: result.Candidates[0],
		RecSupplement2: result.Candidates[1],
		RecSupplement3: result.Candidates[2],
	})
}

// RebuildIndex refreshes the catalog snapshot and swaps the vector index.
func (h *Handler) RebuildIndex(c *gin.Context) {
	if err := h.recommendSvc.RebuildIndex(c.Request.Context()); err != nil {
		abortWithError(c, translateError(err, "rebuild_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": h.recommendSvc.IndexSize()})
}

// Healthz reports liveness and index readiness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"records": h.recommendSvc.IndexSize(),
	})
}

// translateError maps domain error codes onto transport statuses. The codes
// stay distinct all the way to the client so it can phrase the failure.
func translateError(err error, fallbackCode string) *HTTPError {
	status := http.StatusInternalServerError
	code := fallbackCode
	switch {
	case apperrors.IsCode(err, apperrors.CodeInvalidInput):
		status = http.StatusBadRequest
		code = apperrors.CodeInvalidInput
	case apperrors.IsCode(err, apperrors.CodeUnauthorized):
		status = http.StatusUnauthorized
		code = apperrors.CodeUnauthorized
	case apperrors.IsCode(err, apperrors.CodeNoSurveyData):
		status = http.StatusNotFound
		code = apperrors.CodeNoSurveyData
	case apperrors.IsCode(err, apperrors.CodeNoCandidates):
		status = http.StatusConflict
		code = apperrors.CodeNoCandidates
	case apperrors.IsCode(err, apperrors.CodeEmptyCatalog):
		status = http.StatusServiceUnavailable
		code = apperrors.CodeEmptyCatalog
	case apperrors.IsCode(err, apperrors.CodeDataUnavailable):
		status = http.StatusServiceUnavailable
		code = apperrors.CodeDataUnavailable
	case apperrors.IsCode(err, apperrors.CodeLLMError):
		status = http.StatusBadGateway
		code = apperrors.CodeLLMError
	case apperrors.IsCode(err, apperrors.CodeMalformedRec):
		status = http.StatusBadGateway
		code = apperrors.CodeMalformedRec
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
