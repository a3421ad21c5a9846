package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/openoptions/go-settings-registry/internal/errors"
)

// SetSettingRequest is the body of a setting write.
type SetSettingRequest struct {
	Value interface{} `json:"value"`
}

// GetSettingHandler reads the current value of one setting.
func (api *API) GetSettingHandler(c *gin.Context) {
	section := c.Param("section")
	key := c.Param("key")
	if result := ValidateSettingPath(section, key); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	value, err := api.registry.GetValue(section, key)
	if err != nil {
		if errors.Is(err, internalErrors.ErrSettingNotFound) {
			SendSettingNotFoundError(c, section, key)
			return
		}
		SendInternalError(c, "setting retrieval", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"section": section,
		"key":     key,
		"value":   value,
	})
}

// SetSettingHandler validates and stores a new value for one setting. Live
// observers see the change before the response is sent.
func (api *API) SetSettingHandler(c *gin.Context) {
	section := c.Param("section")
	key := c.Param("key")
	if result := ValidateSettingPath(section, key); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	var req SetSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if err := api.registry.SetValue(section, key, req.Value); err != nil {
		if errors.Is(err, internalErrors.ErrSettingNotFound) {
			SendSettingNotFoundError(c, section, key)
			return
		}
		if errors.Is(err, internalErrors.ErrInvalidValue) {
			SendInvalidValueError(c, err)
			return
		}
		SendInternalError(c, "setting update", err)
		return
	}

	value, err := api.registry.GetValue(section, key)
	if err != nil {
		SendInternalError(c, "setting retrieval", err)
		return
	}

	// The stored value is echoed back because writes can be adjusted by the
	// schema, e.g. clamped into a numeric range.
	c.JSON(http.StatusOK, gin.H{
		"section": section,
		"key":     key,
		"value":   value,
	})
}

// ResetSectionHandler restores one section to its schema defaults.
func (api *API) ResetSectionHandler(c *gin.Context) {
	section := c.Param("section")
	if result := ValidateSection(section); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	if err := api.registry.ResetSection(section); err != nil {
		if errors.Is(err, internalErrors.ErrSettingNotFound) {
			SendError(c, http.StatusNotFound, ErrorCodeSettingNotFound,
				"Section '"+section+"' has no settings")
			return
		}
		SendInternalError(c, "section reset", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Section '" + section + "' reset to defaults",
	})
}

// ResetAllHandler restores every setting and binding to defaults in the
// background.
func (api *API) ResetAllHandler(c *gin.Context) {
	jobID, err := api.registry.ResetAllAsync()
	if err != nil {
		SendJobExecutionError(c, "reset", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "accepted",
		"job_id": jobID,
	})
}
