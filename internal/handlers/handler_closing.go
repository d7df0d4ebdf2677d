package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hroffice/gl_backend/internal/core/ports/services"
	"github.com/hroffice/gl_backend/internal/dto"
	"github.com/hroffice/gl_backend/internal/middleware"
)

// closingHandler handles HTTP requests related to year-end closings.
type closingHandler struct {
	closingService portssvc.ClosingSvcFacade
}

func newClosingHandler(cs portssvc.ClosingSvcFacade) *closingHandler {
	return &closingHandler{
		closingService: cs,
	}
}

// registerClosingRoutes registers routes related to year-end closings.
func registerClosingRoutes(rg *gin.RouterGroup, closingService portssvc.ClosingSvcFacade) {
	h := newClosingHandler(closingService)

	closings := rg.Group("/closings")
	{
		closings.POST("", h.closeFiscalYear)
		closings.GET("/:fiscalYear", h.getClosing)
		closings.POST("/:fiscalYear/reverse", h.reverseClosing)
	}
}

// closeFiscalYear godoc
// @Summary Close a fiscal year
// @Description Locks a fiscal year against posting
// @Tags closings
// @Accept  json
// @Produce  json
// @Param   closing body dto.CreateClosingRequest true "Closing details"
// @Success 201 {object} dto.ClosingResponse
// @Failure 400 {object} map[string]string "Invalid fiscal year label"
// @Failure 409 {object} map[string]string "Fiscal year already closed"
// @Failure 500 {object} map[string]string "Failed to close fiscal year"
// @Router /closings [post]
func (h *closingHandler) closeFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateClosingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CloseFiscalYear", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, userID, ok := requireIdentity(c)
	if !ok {
		return
	}

	record, err := h.closingService.CloseFiscalYear(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to close fiscal year")
		return
	}

	logger.Info("Fiscal year closed",
		slog.String("fiscal_year", record.FiscalYear),
		slog.String("closing_id", record.ClosingID))
	c.JSON(http.StatusCreated, dto.ToClosingResponse(record))
}

// getClosing godoc
// @Summary Get the closing record for a fiscal year
// @Description Retrieves the closing record, or 404 if the year was never closed
// @Tags closings
// @Produce  json
// @Param   fiscalYear path string true "Fiscal year label, e.g. 2025-2026"
// @Success 200 {object} dto.ClosingResponse
// @Failure 404 {object} map[string]string "Fiscal year never closed"
// @Failure 500 {object} map[string]string "Failed to retrieve closing"
// @Router /closings/{fiscalYear} [get]
func (h *closingHandler) getClosing(c *gin.Context) {
	fiscalYear := c.Param("fiscalYear")

	companyID, _, ok := requireIdentity(c)
	if !ok {
		return
	}

	record, err := h.closingService.GetClosing(c.Request.Context(), companyID, fiscalYear)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve closing")
		return
	}
	c.JSON(http.StatusOK, dto.ToClosingResponse(record))
}

// reverseClosing godoc
// @Summary Reverse a year-end closing
// @Description Unlocks a closed fiscal year for posting again
// @Tags closings
// @Produce  json
// @Param   fiscalYear path string true "Fiscal year label, e.g. 2025-2026"
// @Success 204 "Closing reversed"
// @Failure 404 {object} map[string]string "Fiscal year never closed"
// @Failure 409 {object} map[string]string "Closing already reversed"
// @Failure 500 {object} map[string]string "Failed to reverse closing"
// @Router /closings/{fiscalYear}/reverse [post]
func (h *closingHandler) reverseClosing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYear := c.Param("fiscalYear")

	companyID, userID, ok := requireIdentity(c)
	if !ok {
		return
	}

	if err := h.closingService.ReverseClosing(c.Request.Context(), companyID, fiscalYear, userID); err != nil {
		respondServiceError(c, err, "Failed to reverse closing")
		return
	}

	logger.Info("Closing reversed", slog.String("fiscal_year", fiscalYear))
	c.Status(http.StatusNoContent)
}
