package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hroffice/gl_backend/internal/core/ports/services"
	"github.com/hroffice/gl_backend/internal/dto"
	"github.com/hroffice/gl_backend/internal/middleware"
)

// auditHandler handles HTTP requests over the audit chain.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

func newAuditHandler(as portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{
		auditService: as,
	}
}

// registerAuditRoutes registers routes related to the audit log.
func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := newAuditHandler(auditService)

	audit := rg.Group("/audit")
	{
		audit.GET("/entries", h.listEntries)
		audit.GET("/verify", h.verifyChain)
	}
}

// listEntries godoc
// @Summary List audit log entries
// @Description Retrieves a paginated audit log for the calling company, newest first
// @Tags audit
// @Produce  json
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListAuditResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list audit entries"
// @Router /audit/entries [get]
func (h *auditHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListAuditParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListAuditEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	companyID, _, ok := requireIdentity(c)
	if !ok {
		return
	}

	resp, err := h.auditService.ListEntries(c.Request.Context(), companyID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to list audit entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// verifyChain godoc
// @Summary Verify audit chain integrity
// @Description Walks the company's audit chain and reports link breaks and hash mismatches
// @Tags audit
// @Produce  json
// @Param   fromSequence query int false "First sequence to check (inclusive)"
// @Param   toSequence query int false "Last sequence to check (inclusive)"
// @Success 200 {object} domain.ChainVerificationReport
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to verify audit chain"
// @Router /audit/verify [get]
func (h *auditHandler) verifyChain(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.VerifyChainParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for VerifyChain", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	companyID, _, ok := requireIdentity(c)
	if !ok {
		return
	}

	report, err := h.auditService.VerifyChain(c.Request.Context(), companyID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to verify audit chain")
		return
	}

	if !report.Valid {
		logger.Warn("Audit chain verification found violations",
			slog.Int("violation_count", len(report.Violations)))
	}
	c.JSON(http.StatusOK, report)
}
