package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/theoleuthardt/backlog-manager/internal/service"
	"gorm.io/gorm"
)

// EntryHandler handles backlog entry CRUD and export endpoints.
type EntryHandler struct {
	entryService *service.EntryService
}

// NewEntryHandler creates a new entry handler.
// Parameters:
//   - entryService: entry service instance.
// Returns:
//   - *EntryHandler: initialized handler.
func NewEntryHandler(entryService *service.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// List handles GET /api/v1/entries. An optional status query parameter
// filters by play status.
func (h *EntryHandler) List(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	entries, err := h.entryService.List(c.Request.Context(), uid, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list entries: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   len(entries),
	})
}

// Get handles GET /api/v1/entries/:id.
func (h *EntryHandler) Get(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	entry, err := h.entryService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get entry: " + err.Error(),
		})
		return
	}
	if entry.UserID != uid {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Create handles POST /api/v1/entries.
func (h *EntryHandler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var params service.EntryParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	entry, err := h.entryService.Create(c.Request.Context(), uid, &params)
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create entry: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// Update handles PUT /api/v1/entries/:id.
func (h *EntryHandler) Update(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	existing, err := h.entryService.Get(c.Request.Context(), id)
	if err != nil || existing.UserID != uid {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	var params service.EntryParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	entry, err := h.entryService.Update(c.Request.Context(), id, &params)
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update entry: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Delete handles DELETE /api/v1/entries/:id.
func (h *EntryHandler) Delete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	existing, err := h.entryService.Get(c.Request.Context(), id)
	if err != nil || existing.UserID != uid {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	if err := h.entryService.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete entry: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Export handles GET /api/v1/entries/export, streaming the user's
// backlog as a CSV attachment re-importable with the default column
// mapping.
func (h *EntryHandler) Export(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	entries, err := h.entryService.List(c.Request.Context(), uid, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list entries: " + err.Error(),
		})
		return
	}

	content, err := service.ExportEntriesCSV(entries)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to encode CSV: " + err.Error(),
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="backlog.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(content))
}
