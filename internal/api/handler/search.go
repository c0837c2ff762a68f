package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/theoleuthardt/backlog-manager/internal/hltb"
)

// SearchHandler exposes the HowLongToBeat lookup to the client, used by
// the manual resolution modal and the game creation form.
type SearchHandler struct {
	client *hltb.Client
}

// NewSearchHandler creates a new search handler.
// Parameters:
//   - client: HowLongToBeat client.
// Returns:
//   - *SearchHandler: initialized handler.
func NewSearchHandler(client *hltb.Client) *SearchHandler {
	return &SearchHandler{client: client}
}

// Search handles GET /api/v1/games/search?q=.
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Query parameter 'q' is required",
		})
		return
	}

	games, err := h.client.Search(c.Request.Context(), query)
	if err != nil {
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

// Get handles GET /api/v1/games/:id.
func (h *SearchHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game ID"})
		return
	}

	game, err := h.client.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Lookup failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, game)
}
