package api

import (
	"github.com/gin-gonic/gin"
	"github.com/theoleuthardt/backlog-manager/internal/api/handler"
	"github.com/theoleuthardt/backlog-manager/internal/api/middleware"
	"github.com/theoleuthardt/backlog-manager/internal/config"
	"github.com/theoleuthardt/backlog-manager/internal/hltb"
	"github.com/theoleuthardt/backlog-manager/internal/service"
	"github.com/theoleuthardt/backlog-manager/internal/storage"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	importService *service.ImportService,
	entryService *service.EntryService,
	hltbClient *hltb.Client,
	coverCache storage.ObjectStorage,
	cfg *config.Config,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	importHandler := handler.NewImportHandler(importService, cfg.Import)
	entryHandler := handler.NewEntryHandler(entryService)
	searchHandler := handler.NewSearchHandler(hltbClient)
	imageHandler := handler.NewImageHandler(coverCache)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// CSV import pipeline
		csv := v1.Group("/csv")
		{
			csv.POST("/parse", importHandler.Parse)
			csv.POST("/import", importHandler.Import)
			csv.GET("/progress/:sessionId", importHandler.Progress)
			csv.DELETE("/progress/:sessionId", importHandler.ClearProgress)
			csv.POST("/cancel/:sessionId", importHandler.Cancel)
			csv.GET("/missing/:sessionId", importHandler.MissingGames)
			csv.POST("/missing/:sessionId/search", importHandler.SearchMissing)
			csv.POST("/missing/:sessionId/resolve", importHandler.ResolveMissing)
			csv.POST("/missing/:sessionId/skip", importHandler.SkipMissing)
			csv.POST("/resolve", importHandler.Resolve)
		}

		// Backlog entries
		entries := v1.Group("/entries")
		{
			entries.GET("", entryHandler.List)
			entries.POST("", entryHandler.Create)
			entries.GET("/export", entryHandler.Export)
			entries.GET("/:id", entryHandler.Get)
			entries.PUT("/:id", entryHandler.Update)
			entries.DELETE("/:id", entryHandler.Delete)
		}

		// Game lookup
		games := v1.Group("/games")
		{
			games.GET("/search", searchHandler.Search)
			games.GET("/:id", searchHandler.Get)
		}

		// Cover image proxy
		v1.GET("/image-proxy", imageHandler.Proxy)
	}

	return r
}
