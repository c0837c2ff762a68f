package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/theoleuthardt/backlog-manager/internal/config"
	"github.com/theoleuthardt/backlog-manager/internal/domain"
	"github.com/theoleuthardt/backlog-manager/internal/hltb"
	"github.com/theoleuthardt/backlog-manager/internal/service"
)

// ImportHandler handles the CSV import pipeline endpoints: parse,
// import, progress polling, cancellation, and the manual resolution
// flow for unmatched rows.
type ImportHandler struct {
	importService *service.ImportService
	defaults      config.ImportConfig
}

// NewImportHandler creates a new import handler.
// Parameters:
//   - importService: import pipeline service.
//   - defaults: default column mapping when the request omits one.
// Returns:
//   - *ImportHandler: initialized handler.
func NewImportHandler(importService *service.ImportService, defaults config.ImportConfig) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		defaults:      defaults,
	}
}

type parseRequest struct {
	Content string `json:"content" binding:"required"`
}

// Parse handles POST /api/v1/csv/parse. It decodes CSV content without
// side effects so the client can preview rows and pick columns.
func (h *ImportHandler) Parse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	records, err := service.ParseCSVContent(req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "CSV parsing error: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"total":   len(records),
	})
}

type importRequest struct {
	Content        string `json:"content" binding:"required"`
	TitleColumn    string `json:"titleColumn"`
	GenreColumn    string `json:"genreColumn"`
	PlatformColumn string `json:"platformColumn"`
	StatusColumn   string `json:"statusColumn"`
	SessionID      string `json:"sessionId"`
}

// Import handles POST /api/v1/csv/import: decodes the content and runs
// the reconciliation pipeline, returning the final report. When the
// client supplies no session ID one is generated so progress polling
// still works; the token is echoed in the response.
func (h *ImportHandler) Import(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	cfg := domain.ColumnConfig{
		TitleColumn:    defaultColumn(req.TitleColumn, h.defaults.TitleColumn),
		GenreColumn:    defaultColumn(req.GenreColumn, h.defaults.GenreColumn),
		PlatformColumn: defaultColumn(req.PlatformColumn, h.defaults.PlatformColumn),
		StatusColumn:   defaultColumn(req.StatusColumn, h.defaults.StatusColumn),
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	report, err := h.importService.ImportFromCSV(c.Request.Context(), uid, req.Content, cfg, sessionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "CSV import failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": sessionID,
		"report":    report,
	})
}

// Progress handles GET /api/v1/csv/progress/:sessionId. Unknown tokens
// return a zeroed snapshot, matching the registry contract.
func (h *ImportHandler) Progress(c *gin.Context) {
	progress := h.importService.Sessions().Progress(c.Param("sessionId"))
	c.JSON(http.StatusOK, progress)
}

// Cancel handles POST /api/v1/csv/cancel/:sessionId. Cancellation is
// cooperative; the engine observes it between rows.
func (h *ImportHandler) Cancel(c *gin.Context) {
	h.importService.Sessions().RequestCancel(c.Param("sessionId"))
	c.JSON(http.StatusAccepted, gin.H{
		"status": "cancellation requested",
	})
}

// ClearProgress handles DELETE /api/v1/csv/progress/:sessionId,
// dropping session progress and any pending resolution queue.
func (h *ImportHandler) ClearProgress(c *gin.Context) {
	h.importService.ClearSession(c.Param("sessionId"))
	c.JSON(http.StatusOK, gin.H{
		"status": "cleared",
	})
}

// MissingGames handles GET /api/v1/csv/missing/:sessionId, returning
// the resolution queue state for a completed import.
func (h *ImportHandler) MissingGames(c *gin.Context) {
	queue, ok := h.importService.Queue(c.Param("sessionId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No unmatched rows for this session",
		})
		return
	}
	c.JSON(http.StatusOK, queue.Snapshot())
}

type missingSearchRequest struct {
	Query string `json:"query" binding:"required"`
}

// SearchMissing handles POST /api/v1/csv/missing/:sessionId/search:
// a fresh lookup for the current unmatched row.
func (h *ImportHandler) SearchMissing(c *gin.Context) {
	queue, ok := h.importService.Queue(c.Param("sessionId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No unmatched rows for this session",
		})
		return
	}

	var req missingSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	games, err := queue.Search(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, service.ErrQueueClosed) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Lookup failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"games": games,
		"total": len(games),
	})
}

type resolveQueueRequest struct {
	Game hltb.Game `json:"game" binding:"required"`
}

// ResolveMissing handles POST /api/v1/csv/missing/:sessionId/resolve:
// materializes the current unmatched row with the selected candidate.
func (h *ImportHandler) ResolveMissing(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	queue, found := h.importService.Queue(c.Param("sessionId"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No unmatched rows for this session",
		})
		return
	}

	var req resolveQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	entry, err := queue.Resolve(c.Request.Context(), uid, req.Game)
	if err != nil {
		if errors.Is(err, service.ErrQueueClosed) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create entry: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"entry": entry,
		"queue": queue.Snapshot(),
	})
}

// SkipMissing handles POST /api/v1/csv/missing/:sessionId/skip:
// dismisses the current unmatched row without persistence.
func (h *ImportHandler) SkipMissing(c *gin.Context) {
	queue, ok := h.importService.Queue(c.Param("sessionId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No unmatched rows for this session",
		})
		return
	}

	if err := queue.Skip(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, queue.Snapshot())
}

type resolveRequest struct {
	MissingGame domain.MissingGame `json:"missingGame" binding:"required"`
	GameData    hltb.Game          `json:"gameData" binding:"required"`
}

// Resolve handles POST /api/v1/csv/resolve: the one-shot resolution
// path for clients that manage the missing-games list themselves.
func (h *ImportHandler) Resolve(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	entry, err := h.importService.ResolveMissingGame(c.Request.Context(), uid, req.MissingGame, req.GameData)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create entry: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func defaultColumn(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
