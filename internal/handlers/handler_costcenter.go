package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hroffice/gl_backend/internal/core/ports/services"
	"github.com/hroffice/gl_backend/internal/dto"
	"github.com/hroffice/gl_backend/internal/middleware"
)

type costCenterHandler struct {
	costCenterService portssvc.CostCenterSvcFacade
}

func newCostCenterHandler(cs portssvc.CostCenterSvcFacade) *costCenterHandler {
	return &costCenterHandler{
		costCenterService: cs,
	}
}

// registerCostCenterRoutes registers routes related to cost centers.
func registerCostCenterRoutes(rg *gin.RouterGroup, costCenterService portssvc.CostCenterSvcFacade) {
	h := newCostCenterHandler(costCenterService)

	costCenters := rg.Group("/cost-centers")
	{
		costCenters.POST("", h.createCostCenter)
		costCenters.GET("/:id", h.getCostCenter)
		costCenters.GET("", h.listCostCenters)
	}
}

// createCostCenter godoc
// @Summary Create a new cost center
// @Description Registers a cost center for the calling company
// @Tags cost-centers
// @Accept  json
// @Produce  json
// @Param   costCenter body dto.CreateCostCenterRequest true "Cost center details"
// @Success 201 {object} dto.CostCenterResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Cost center code already exists"
// @Failure 500 {object} map[string]string "Failed to create cost center"
// @Router /cost-centers [post]
func (h *costCenterHandler) createCostCenter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCostCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCostCenter", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, creatorUserID, ok := requireIdentity(c)
	if !ok {
		return
	}

	newCostCenter, err := h.costCenterService.CreateCostCenter(c.Request.Context(), companyID, req, creatorUserID)
	if err != nil {
		respondServiceError(c, err, "Failed to create cost center")
		return
	}

	logger.Info("Cost center created successfully", slog.String("cost_center_id", newCostCenter.CostCenterID))
	c.JSON(http.StatusCreated, dto.ToCostCenterResponse(newCostCenter))
}

// getCostCenter godoc
// @Summary Get a cost center by ID
// @Description Retrieves details for a cost center within the calling company
// @Tags cost-centers
// @Produce  json
// @Param   id path string true "Cost center ID"
// @Success 200 {object} dto.CostCenterResponse
// @Failure 404 {object} map[string]string "Cost center not found"
// @Failure 500 {object} map[string]string "Failed to retrieve cost center"
// @Router /cost-centers/{id} [get]
func (h *costCenterHandler) getCostCenter(c *gin.Context) {
	costCenterID := c.Param("id")

	companyID, _, ok := requireIdentity(c)
	if !ok {
		return
	}

	costCenter, err := h.costCenterService.GetCostCenterByID(c.Request.Context(), companyID, costCenterID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve cost center")
		return
	}
	c.JSON(http.StatusOK, dto.ToCostCenterResponse(costCenter))
}

// listCostCenters godoc
// @Summary List cost centers
// @Description Retrieves a paginated list of cost centers for the calling company
// @Tags cost-centers
// @Produce  json
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListCostCentersResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list cost centers"
// @Router /cost-centers [get]
func (h *costCenterHandler) listCostCenters(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListCostCentersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListCostCenters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	companyID, _, ok := requireIdentity(c)
	if !ok {
		return
	}

	resp, err := h.costCenterService.ListCostCenters(c.Request.Context(), companyID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to list cost centers")
		return
	}
	c.JSON(http.StatusOK, resp)
}
