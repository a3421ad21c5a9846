package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MatchLanguageRequest is an ordered language preference list, best first.
type MatchLanguageRequest struct {
	Priorities []string `json:"priorities"`
}

// ListLanguagesHandler returns the available locales in catalog order.
func (api *API) ListLanguagesHandler(c *gin.Context) {
	locales := api.locales.Locales()
	c.JSON(http.StatusOK, gin.H{
		"languages": locales,
		"total":     len(locales),
	})
}

// MatchLanguageHandler resolves a preference list to the closest available
// locale. An empty list resolves to the catalog's fallback.
func (api *API) MatchLanguageHandler(c *gin.Context) {
	var req MatchLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	result, err := api.locales.Match(req.Priorities)
	if err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}
