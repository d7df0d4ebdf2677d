package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hroffice/gl_backend/internal/core/ports/services"
	"github.com/hroffice/gl_backend/internal/dto"
	"github.com/hroffice/gl_backend/internal/middleware"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: js,
	}
}

// RegisterJournalRoutes registers routes related to journal entries.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journal-entries")
	{
		journals.POST("", h.createEntry)
		journals.GET("/:id", h.getEntry)
		journals.GET("", h.listEntries)
		journals.GET("/by-account/:code", h.listEntriesByAccount)
		journals.POST("/:id/submit", h.submitEntry)
		journals.POST("/:id/approve", h.approveEntry)
		journals.POST("/:id/reject", h.rejectEntry)
		journals.POST("/:id/cancel", h.cancelEntry)
		journals.POST("/:id/post", h.postEntry)
		journals.POST("/:id/reverse", h.reverseEntry)
	}
}

// createEntry godoc
// @Summary Create a draft journal entry
// @Description Validates balance and account references and persists a DRAFT entry
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateJournalEntryRequest true "Entry details"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Imbalanced entry, unknown account or invalid input"
// @Failure 500 {object} map[string]string "Failed to create journal entry"
// @Router /journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateJournalEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, creatorUserID, ok := requireIdentity(c)
	if !ok {
		return
	}

	logger.Info("Received request to create journal entry",
		slog.Time("entry_date", req.EntryDate),
		slog.Int("line_count", len(req.Lines)))

	newEntry, err := h.journalService.CreateDraftEntry(c.Request.Context(), companyID, req, creatorUserID)
	if err != nil {
		respondServiceError(c, err, "Failed to create journal entry")
		return
	}

	logger.Info("Journal entry created successfully", slog.String("entry_id", newEntry.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(newEntry))
}

// getEntry godoc
// @Summary Get a journal entry by ID
// @Description Retrieves an entry with its lines
// @Tags journal-entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journal entry"
// @Router /journal-entries/{id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	entryID := c.Param("id")

	companyID, _, ok := requireIdentity(c)
	if !ok {
		return
	}

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), companyID, entryID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Retrieves a paginated list of entries for the calling company
// @Tags journal-entries
// @Produce  json
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Param   includeReversals query bool false "Include reversal entries"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list journal entries"
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	companyID, _, ok := requireIdentity(c)
	if !ok {
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), companyID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listEntriesByAccount godoc
// @Summary List posted entries touching an account
// @Description Retrieves the posted entries that carry a line on the given account, newest first
// @Tags journal-entries
// @Produce  json
// @Param   code path string true "Account code"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list journal entries"
// @Router /journal-entries/by-account/{code} [get]
func (h *journalHandler) listEntriesByAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountCode := c.Param("code")
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListEntriesByAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	companyID, _, ok := requireIdentity(c)
	if !ok {
		return
	}

	resp, err := h.journalService.ListEntriesByAccount(c.Request.Context(), companyID, accountCode, params)
	if err != nil {
		respondServiceError(c, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// submitEntry godoc
// @Summary Submit a draft entry for approval
// @Description Moves a DRAFT entry to PENDING
// @Tags journal-entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 204 "Entry submitted"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Failure 500 {object} map[string]string "Failed to submit journal entry"
// @Router /journal-entries/{id}/submit [post]
func (h *journalHandler) submitEntry(c *gin.Context) {
	h.transition(c, "submit", h.journalService.SubmitEntry)
}

// approveEntry godoc
// @Summary Approve a pending entry
// @Description Moves a PENDING entry to APPROVED
// @Tags journal-entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 204 "Entry approved"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Failure 500 {object} map[string]string "Failed to approve journal entry"
// @Router /journal-entries/{id}/approve [post]
func (h *journalHandler) approveEntry(c *gin.Context) {
	h.transition(c, "approve", h.journalService.ApproveEntry)
}

// rejectEntry godoc
// @Summary Reject an entry
// @Description Moves a DRAFT or PENDING entry to REJECTED (terminal)
// @Tags journal-entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 204 "Entry rejected"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Failure 500 {object} map[string]string "Failed to reject journal entry"
// @Router /journal-entries/{id}/reject [post]
func (h *journalHandler) rejectEntry(c *gin.Context) {
	h.transition(c, "reject", h.journalService.RejectEntry)
}

// cancelEntry godoc
// @Summary Cancel a draft entry
// @Description Moves a DRAFT entry to CANCELLED (terminal)
// @Tags journal-entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 204 "Entry cancelled"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Failure 500 {object} map[string]string "Failed to cancel journal entry"
// @Router /journal-entries/{id}/cancel [post]
func (h *journalHandler) cancelEntry(c *gin.Context) {
	h.transition(c, "cancel", h.journalService.CancelEntry)
}

func (h *journalHandler) transition(c *gin.Context, name string, fn func(ctx context.Context, companyID string, entryID string, actor string) error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	companyID, userID, ok := requireIdentity(c)
	if !ok {
		return
	}

	if err := fn(c.Request.Context(), companyID, entryID, userID); err != nil {
		respondServiceError(c, err, "Failed to "+name+" journal entry")
		return
	}

	logger.Info("Journal entry transition applied",
		slog.String("entry_id", entryID),
		slog.String("transition", name))
	c.Status(http.StatusNoContent)
}

// postEntry godoc
// @Summary Post a journal entry
// @Description Runs the posting sequence: validation, period lock, balances, budget, audit
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID"
// @Param   options body dto.PostEntryRequest false "Posting options"
// @Success 200 {object} dto.PostingResult
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Invalid state transition"
// @Failure 422 {object} map[string]string "Budget block threshold exceeded"
// @Failure 423 {object} map[string]string "Fiscal period is locked"
// @Failure 500 {object} map[string]string "Failed to post journal entry"
// @Router /journal-entries/{id}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	var req dto.PostEntryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for PostEntry", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	companyID, userID, ok := requireIdentity(c)
	if !ok {
		return
	}

	result, err := h.journalService.PostEntry(c.Request.Context(), companyID, entryID, userID, req.SkipBudgetUpdate)
	if err != nil {
		respondServiceError(c, err, "Failed to post journal entry")
		return
	}

	logger.Info("Journal entry posted",
		slog.String("entry_id", entryID),
		slog.String("entry_number", result.Entry.EntryNumber),
		slog.Int("warning_count", len(result.Warnings)))
	c.JSON(http.StatusOK, result)
}

// reverseEntry godoc
// @Summary Reverse a posted journal entry
// @Description Posts a mirror-image entry and marks the original REVERSED
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID"
// @Param   reversal body dto.ReverseEntryRequest true "Reversal reason"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Missing reason"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry not posted or already reversed"
// @Failure 423 {object} map[string]string "Fiscal period is locked"
// @Failure 500 {object} map[string]string "Failed to reverse journal entry"
// @Router /journal-entries/{id}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	var req dto.ReverseEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReverseEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, userID, ok := requireIdentity(c)
	if !ok {
		return
	}

	reversing, err := h.journalService.ReverseEntry(c.Request.Context(), companyID, entryID, userID, req.Reason)
	if err != nil {
		respondServiceError(c, err, "Failed to reverse journal entry")
		return
	}

	logger.Info("Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversing_entry_id", reversing.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversing))
}
