package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openoptions/go-settings-registry/internal/localization"
	"github.com/openoptions/go-settings-registry/services"
)

// maxRequestBodySize caps request bodies; schema imports are the largest
// payloads this API sees and stay far below this.
const maxRequestBodySize = 1 << 20 // 1 MiB

// API holds dependencies for API handlers, primarily the settings registry.
type API struct {
	registry services.SettingsManager
	locales  *localization.Catalog
}

// NewAPI creates a new API handler structure.
func NewAPI(registry services.SettingsManager, locales *localization.Catalog) *API {
	return &API{
		registry: registry,
		locales:  locales,
	}
}

// SetupRoutes defines all the API routes for the settings registry.
func SetupRoutes(router *gin.Engine, registry services.SettingsManager, locales *localization.Catalog) {
	apiHandler := NewAPI(registry, locales)

	router.Use(CORSMiddleware())
	router.Use(RequestSizeLimitMiddleware(maxRequestBodySize))

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	// Background persistence of all registry state
	router.POST("/_persist", apiHandler.PersistHandler)

	// Search analytics dashboard
	router.GET("/analytics", apiHandler.GetAnalyticsHandler)

	// Job management routes
	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", apiHandler.ListJobsHandler)              // List jobs, optionally by status
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)         // Get job status by ID
		jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler) // Get job performance metrics
	}

	// Settings page routes
	pageRoutes := router.Group("/pages")
	{
		pageRoutes.GET("", apiHandler.ListPagesHandler)             // List all pages
		pageRoutes.POST("", apiHandler.RegisterPageHandler)         // Register a new page
		pageRoutes.GET("/_search", apiHandler.SearchPagesHandler)   // Filter and rank pages by query
		pageRoutes.POST("/_import", apiHandler.ImportPagesHandler)  // Bulk merge pages (async)
		pageRoutes.GET("/:pageName", apiHandler.GetPageHandler)     // Get one page with its setting definitions
		pageRoutes.DELETE("/:pageName", apiHandler.DeletePageHandler)
	}

	// Setting value routes
	settingRoutes := router.Group("/settings")
	{
		settingRoutes.POST("/_reset", apiHandler.ResetAllHandler)              // Reset everything to defaults (async)
		settingRoutes.GET("/:section/:key", apiHandler.GetSettingHandler)      // Read a value
		settingRoutes.PUT("/:section/:key", apiHandler.SetSettingHandler)      // Write a value
		settingRoutes.POST("/:section/_reset", apiHandler.ResetSectionHandler) // Reset one section to defaults
	}

	// Input binding routes
	bindingRoutes := router.Group("/bindings")
	{
		bindingRoutes.GET("/:device", apiHandler.ListBindingsHandler)           // List a device's bindings
		bindingRoutes.PUT("/:device/:action", apiHandler.RebindHandler)         // Assign an input to an action
		bindingRoutes.POST("/:device/_reset", apiHandler.ResetBindingsHandler)  // Restore stock bindings
	}

	// Display helper routes
	displayRoutes := router.Group("/display")
	{
		displayRoutes.GET("/resolutions", apiHandler.ListResolutionsHandler)
		displayRoutes.GET("/window-modes", apiHandler.ListWindowModesHandler)
	}

	// Localization routes
	languageRoutes := router.Group("/languages")
	{
		languageRoutes.GET("", apiHandler.ListLanguagesHandler)
		languageRoutes.POST("/_match", apiHandler.MatchLanguageHandler)
	}
}

// HealthCheckHandler reports service liveness.
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// PersistHandler kicks off a background snapshot of all registry state.
func (api *API) PersistHandler(c *gin.Context) {
	jobID, err := api.registry.PersistAsync()
	if err != nil {
		SendJobExecutionError(c, "persist", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"status": "accepted",
		"job_id": jobID,
	})
}
