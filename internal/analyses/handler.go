package analyses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/usage"
	"resume-builder/internal/users"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the read-only analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ats/analyses", h.listAnalyses)
	rg.GET("/ats/analyses/:id", h.getAnalysis)
}

// RegisterAIRoutes attaches routes that call providers. The caller applies rate limiting.
func (h *Handler) RegisterAIRoutes(rg gin.IRoutes) {
	rg.POST("/ats/analyze", h.analyze)
}

type analyzeRequest struct {
	ResumeID       string `json:"resume_id" binding:"required"`
	JobDescription string `json:"job_description"`
}

func (h *Handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume_id and job_description are required", nil)
		return
	}

	analysis, err := h.Svc.Analyze(c.Request.Context(), middleware.UserIDFromContext(c), req.ResumeID, req.JobDescription)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), []map[string]string{
				{"field": "job_description", "issue": "invalid"},
			})
		case errors.Is(err, usage.ErrLimitReached):
			respond.Error(c, http.StatusForbidden, "limit_reached", "ATS check limit reached. Upgrade to premium for unlimited checks.", []map[string]string{
				{"field": "usage", "issue": "limit_reached"},
			})
		case errors.Is(err, resumes.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Resume not found", nil)
		case errors.Is(err, users.ErrNotFound):
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "user not found", nil)
		default:
			respond.Internal(c, err)
		}
		return
	}
	c.Set("analysisId", analysis.ID)
	respond.OK(c, analysis)
}

func (h *Handler) listAnalyses(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Internal(c, err)
		return
	}
	respond.OK(c, list)
}

func (h *Handler) getAnalysis(c *gin.Context) {
	analysis, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Analysis not found", nil)
			return
		}
		respond.Internal(c, err)
		return
	}
	respond.OK(c, analysis)
}
