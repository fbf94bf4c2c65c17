package generation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/users"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resumes/job-profiles", h.listProfiles)
}

// RegisterAIRoutes attaches routes that call providers. The caller applies rate limiting.
func (h *Handler) RegisterAIRoutes(rg gin.IRoutes) {
	rg.POST("/resumes/batch-generate", h.batchGenerate)
}

func (h *Handler) listProfiles(c *gin.Context) {
	respond.OK(c, Profiles())
}

func (h *Handler) batchGenerate(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	result, err := h.Svc.BatchGenerate(c.Request.Context(), middleware.UserIDFromContext(c), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidBatch):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), []map[string]string{
				{"field": "job_profiles", "issue": "invalid"},
			})
		case errors.Is(err, resumes.ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrResumeCap):
			respond.Error(c, http.StatusForbidden, "resume_cap_reached", "Free plan resume limit reached. Upgrade to premium to generate more.", nil)
		case errors.Is(err, users.ErrNotFound):
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "user not found", nil)
		default:
			respond.Internal(c, err)
		}
		return
	}
	respond.OK(c, result)
}
