package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hroffice/gl_backend/internal/core/domain"
	portssvc "github.com/hroffice/gl_backend/internal/core/ports/services"
	"github.com/hroffice/gl_backend/internal/dto"
	"github.com/hroffice/gl_backend/internal/middleware"
)

// budgetHandler handles HTTP requests related to budgets.
type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
}

func newBudgetHandler(bs portssvc.BudgetSvcFacade) *budgetHandler {
	return &budgetHandler{
		budgetService: bs,
	}
}

// RegisterBudgetRoutes registers routes related to budgets.
func RegisterBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade) {
	h := newBudgetHandler(budgetService)

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("/:id", h.getBudget)
		budgets.GET("/active/:fiscalYear", h.getActiveBudget)
		budgets.GET("", h.listBudgets)
		budgets.POST("/:id/submit", h.submitBudget)
		budgets.POST("/:id/approve", h.approveBudget)
		budgets.POST("/:id/activate", h.activateBudget)
		budgets.POST("/:id/close", h.closeBudget)
		budgets.POST("/check-availability", h.checkAvailability)
		budgets.POST("/commit", h.commit)
		budgets.POST("/utilize", h.utilize)
		budgets.POST("/release", h.release)
	}
}

// createBudget godoc
// @Summary Create a draft budget
// @Description Persists a new DRAFT budget with derived amounts computed per line
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   budget body dto.CreateBudgetRequest true "Budget details"
// @Success 201 {object} dto.BudgetResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Duplicate allocation line"
// @Failure 500 {object} map[string]string "Failed to create budget"
// @Router /budgets [post]
func (h *budgetHandler) createBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBudget", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, creatorUserID, ok := requireIdentity(c)
	if !ok {
		return
	}

	logger.Info("Received request to create budget",
		slog.String("fiscal_year", req.FiscalYear),
		slog.Int("line_count", len(req.Lines)))

	newBudget, err := h.budgetService.CreateBudget(c.Request.Context(), companyID, req, creatorUserID)
	if err != nil {
		respondServiceError(c, err, "Failed to create budget")
		return
	}

	logger.Info("Budget created successfully", slog.String("budget_id", newBudget.BudgetID))
	c.JSON(http.StatusCreated, dto.ToBudgetResponse(newBudget))
}

// getBudget godoc
// @Summary Get a budget by ID
// @Description Retrieves a budget with its lines and health classification
// @Tags budgets
// @Produce  json
// @Param   id path string true "Budget ID"
// @Success 200 {object} dto.BudgetResponse
// @Failure 404 {object} map[string]string "Budget not found"
// @Failure 500 {object} map[string]string "Failed to retrieve budget"
// @Router /budgets/{id} [get]
func (h *budgetHandler) getBudget(c *gin.Context) {
	budgetID := c.Param("id")

	companyID, _, ok := requireIdentity(c)
	if !ok {
		return
	}

	budget, err := h.budgetService.GetBudgetByID(c.Request.Context(), companyID, budgetID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// getActiveBudget godoc
// @Summary Get the active budget for a fiscal year
// @Description Retrieves the single ACTIVE budget controlling the given fiscal year
// @Tags budgets
// @Produce  json
// @Param   fiscalYear path string true "Fiscal year label (e.g. 2025-2026)"
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} map[string]string "Invalid fiscal year label"
// @Failure 404 {object} map[string]string "No active budget for the fiscal year"
// @Failure 500 {object} map[string]string "Failed to retrieve budget"
// @Router /budgets/active/{fiscalYear} [get]
func (h *budgetHandler) getActiveBudget(c *gin.Context) {
	fiscalYear := c.Param("fiscalYear")

	companyID, _, ok := requireIdentity(c)
	if !ok {
		return
	}

	budget, err := h.budgetService.GetActiveBudget(c.Request.Context(), companyID, fiscalYear)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// listBudgets godoc
// @Summary List budgets
// @Description Retrieves a paginated list of budgets for the calling company
// @Tags budgets
// @Produce  json
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListBudgetsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list budgets"
// @Router /budgets [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListBudgetsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListBudgets", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	companyID, _, ok := requireIdentity(c)
	if !ok {
		return
	}

	resp, err := h.budgetService.ListBudgets(c.Request.Context(), companyID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to list budgets")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// submitBudget godoc
// @Summary Submit a draft budget
// @Description Moves a DRAFT budget to SUBMITTED
// @Tags budgets
// @Produce  json
// @Param   id path string true "Budget ID"
// @Success 204 "Budget submitted"
// @Failure 404 {object} map[string]string "Budget not found"
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Failure 500 {object} map[string]string "Failed to submit budget"
// @Router /budgets/{id}/submit [post]
func (h *budgetHandler) submitBudget(c *gin.Context) {
	h.transition(c, "submit", h.budgetService.SubmitBudget)
}

// approveBudget godoc
// @Summary Approve a submitted budget
// @Description Moves a SUBMITTED budget to APPROVED
// @Tags budgets
// @Produce  json
// @Param   id path string true "Budget ID"
// @Success 204 "Budget approved"
// @Failure 404 {object} map[string]string "Budget not found"
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Failure 500 {object} map[string]string "Failed to approve budget"
// @Router /budgets/{id}/approve [post]
func (h *budgetHandler) approveBudget(c *gin.Context) {
	h.transition(c, "approve", h.budgetService.ApproveBudget)
}

// activateBudget godoc
// @Summary Activate an approved budget
// @Description Moves an APPROVED budget to ACTIVE, closing any previously active budget of the fiscal year
// @Tags budgets
// @Produce  json
// @Param   id path string true "Budget ID"
// @Success 204 "Budget activated"
// @Failure 404 {object} map[string]string "Budget not found"
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Failure 500 {object} map[string]string "Failed to activate budget"
// @Router /budgets/{id}/activate [post]
func (h *budgetHandler) activateBudget(c *gin.Context) {
	h.transition(c, "activate", h.budgetService.ActivateBudget)
}

// closeBudget godoc
// @Summary Close an active budget
// @Description Moves an ACTIVE budget to CLOSED
// @Tags budgets
// @Produce  json
// @Param   id path string true "Budget ID"
// @Success 204 "Budget closed"
// @Failure 404 {object} map[string]string "Budget not found"
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Failure 500 {object} map[string]string "Failed to close budget"
// @Router /budgets/{id}/close [post]
func (h *budgetHandler) closeBudget(c *gin.Context) {
	h.transition(c, "close", h.budgetService.CloseBudget)
}

func (h *budgetHandler) transition(c *gin.Context, name string, fn func(ctx context.Context, companyID string, budgetID string, actor string) error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID := c.Param("id")

	companyID, userID, ok := requireIdentity(c)
	if !ok {
		return
	}

	if err := fn(c.Request.Context(), companyID, budgetID, userID); err != nil {
		respondServiceError(c, err, "Failed to "+name+" budget")
		return
	}

	logger.Info("Budget transition applied",
		slog.String("budget_id", budgetID),
		slog.String("transition", name))
	c.Status(http.StatusNoContent)
}

// checkAvailability godoc
// @Summary Check budget availability
// @Description Evaluates whether an additional amount fits the scoped line's thresholds, without mutating anything
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   check body dto.AvailabilityRequest true "Availability scope and amount"
// @Success 200 {object} domain.AvailabilityResult
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 500 {object} map[string]string "Failed to check availability"
// @Router /budgets/check-availability [post]
func (h *budgetHandler) checkAvailability(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CheckAvailability", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, _, ok := requireIdentity(c)
	if !ok {
		return
	}

	result, err := h.budgetService.CheckAvailability(c.Request.Context(), companyID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to check availability")
		return
	}
	c.JSON(http.StatusOK, result)
}

// commit godoc
// @Summary Commit budget
// @Description Reserves budget for an approved but unrealized expense
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   commitment body dto.EncumbranceRequest true "Commitment details"
// @Success 200 {object} dto.BudgetLineResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 404 {object} map[string]string "No active budget line for scope"
// @Failure 422 {object} map[string]string "Budget block threshold exceeded"
// @Failure 500 {object} map[string]string "Failed to commit budget"
// @Router /budgets/commit [post]
func (h *budgetHandler) commit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.EncumbranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Commit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, userID, ok := requireIdentity(c)
	if !ok {
		return
	}

	line, err := h.budgetService.Commit(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to commit budget")
		return
	}
	h.respondLine(c, logger, "committed", line)
}

// utilize godoc
// @Summary Utilize budget
// @Description Records realized spend, optionally converting a prior commitment
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   utilization body dto.UtilizationRequest true "Utilization details"
// @Success 200 {object} dto.BudgetLineResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 404 {object} map[string]string "No active budget line for scope"
// @Failure 422 {object} map[string]string "Budget block threshold exceeded"
// @Failure 500 {object} map[string]string "Failed to utilize budget"
// @Router /budgets/utilize [post]
func (h *budgetHandler) utilize(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UtilizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Utilize", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, userID, ok := requireIdentity(c)
	if !ok {
		return
	}

	line, err := h.budgetService.Utilize(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to utilize budget")
		return
	}
	h.respondLine(c, logger, "utilized", line)
}

// release godoc
// @Summary Release committed budget
// @Description Returns committed budget for a cancelled encumbrance
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   release body dto.EncumbranceRequest true "Release details"
// @Success 200 {object} dto.BudgetLineResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 404 {object} map[string]string "No active budget line for scope"
// @Failure 500 {object} map[string]string "Failed to release budget"
// @Router /budgets/release [post]
func (h *budgetHandler) release(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.EncumbranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Release", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, userID, ok := requireIdentity(c)
	if !ok {
		return
	}

	line, err := h.budgetService.Release(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to release budget")
		return
	}
	h.respondLine(c, logger, "released", line)
}

func (h *budgetHandler) respondLine(c *gin.Context, logger *slog.Logger, action string, line *domain.BudgetLine) {
	logger.Info("Budget "+action,
		slog.String("line_id", line.LineID),
		slog.String("available", line.Available.String()))
	c.JSON(http.StatusOK, dto.ToBudgetLineResponse(line))
}
