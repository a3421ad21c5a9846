package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openoptions/go-settings-registry/internal/jobs"
	"github.com/openoptions/go-settings-registry/model"
)

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	job, err := api.registry.GetJob(jobID)
	if err != nil {
		SendJobNotFoundError(c, jobID)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobsHandler handles requests to list jobs, optionally filtered by
// status.
func (api *API) ListJobsHandler(c *gin.Context) {
	statusParam := c.Query("status")

	var statusFilter *model.JobStatus
	if statusParam != "" {
		status := model.JobStatus(statusParam)
		statusFilter = &status
	}

	jobList := api.registry.ListJobs(statusFilter)
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobList,
		"total": len(jobList),
	})
}

// jobMetricsProvider is the optional metrics surface of the registry.
type jobMetricsProvider interface {
	JobMetrics() jobs.JobMetricsData
	JobSuccessRate() float64
}

// GetJobMetricsHandler handles requests to get job performance metrics
func (api *API) GetJobMetricsHandler(c *gin.Context) {
	if provider, ok := api.registry.(jobMetricsProvider); ok {
		// Get metrics (already returns a copy without mutex)
		metrics := provider.JobMetrics()

		response := gin.H{
			"metrics":      metrics,
			"success_rate": provider.JobSuccessRate(),
		}

		c.JSON(http.StatusOK, response)
	} else {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Job metrics not supported by this registry"})
	}
}
