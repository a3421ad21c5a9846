package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openoptions/go-settings-registry/config"
	internalErrors "github.com/openoptions/go-settings-registry/internal/errors"
)

// ListPagesHandler returns all settings pages in registration order.
func (api *API) ListPagesHandler(c *gin.Context) {
	pages := api.registry.ListPages()
	c.JSON(http.StatusOK, gin.H{
		"pages": pages,
		"total": len(pages),
	})
}

// RegisterPageHandler registers a new settings page and seeds defaults for
// its settings.
func (api *API) RegisterPageHandler(c *gin.Context) {
	var page config.PageDef
	if err := c.ShouldBindJSON(&page); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidatePageName(page.Name); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	if err := api.registry.RegisterPage(page); err != nil {
		if errors.Is(err, internalErrors.ErrPageAlreadyExists) {
			SendPageExistsError(c, page.Name)
			return
		}
		if errors.Is(err, internalErrors.ErrInvalidInput) {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, err.Error())
			return
		}
		SendInternalError(c, "page registration", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Page '" + page.Name + "' registered successfully",
	})
}

// GetPageHandler returns one page with its setting definitions.
func (api *API) GetPageHandler(c *gin.Context) {
	pageName := c.Param("pageName")
	if result := ValidatePageName(pageName); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	page, err := api.registry.GetPage(pageName)
	if err != nil {
		if errors.Is(err, internalErrors.ErrPageNotFound) {
			SendPageNotFoundError(c, pageName)
			return
		}
		SendInternalError(c, "page retrieval", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// DeletePageHandler removes a page and the values of its settings.
func (api *API) DeletePageHandler(c *gin.Context) {
	pageName := c.Param("pageName")
	if result := ValidatePageName(pageName); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	if err := api.registry.DeletePage(pageName); err != nil {
		if errors.Is(err, internalErrors.ErrPageNotFound) {
			SendPageNotFoundError(c, pageName)
			return
		}
		SendInternalError(c, "page deletion", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Page '" + pageName + "' deleted successfully",
	})
}

// SearchPagesHandler filters and ranks pages against the q query parameter.
// A blank query returns every page.
func (api *API) SearchPagesHandler(c *gin.Context) {
	query := c.Query("q")
	result := api.registry.SearchPages(query)
	c.JSON(http.StatusOK, result)
}

// schemaImporter is the optional bulk-import surface of the registry.
type schemaImporter interface {
	ImportSchemaAsync(pages []config.PageDef) (string, error)
}

// ImportPagesHandler merges a batch of pages into the schema in the
// background. New pages are appended, existing ones are replaced.
func (api *API) ImportPagesHandler(c *gin.Context) {
	var pages []config.PageDef
	if err := c.ShouldBindJSON(&pages); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if len(pages) == 0 {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "At least one page is required")
		return
	}

	importer, ok := api.registry.(schemaImporter)
	if !ok {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Schema import not supported by this registry"})
		return
	}

	jobID, err := importer.ImportSchemaAsync(pages)
	if err != nil {
		if errors.Is(err, internalErrors.ErrInvalidInput) {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, err.Error())
			return
		}
		SendJobExecutionError(c, "schema import", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "accepted",
		"job_id": jobID,
	})
}
