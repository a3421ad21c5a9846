package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openoptions/go-settings-registry/model"
)

// analyticsProvider is the optional analytics surface of the registry.
type analyticsProvider interface {
	AnalyticsDashboard() model.AnalyticsDashboard
}

// GetAnalyticsHandler returns aggregated search analytics: volume, latency,
// popular queries, and queries that match nothing.
func (api *API) GetAnalyticsHandler(c *gin.Context) {
	if provider, ok := api.registry.(analyticsProvider); ok {
		c.JSON(http.StatusOK, provider.AnalyticsDashboard())
	} else {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Analytics not supported by this registry"})
	}
}
