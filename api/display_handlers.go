package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openoptions/go-settings-registry/internal/display"
)

// resolutionView is one resolution as the UI presents it.
type resolutionView struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Label  string `json:"label"`
	Aspect string `json:"aspect"`
}

// ListResolutionsHandler returns the resolution catalog, largest first, with
// the labels a settings UI would show.
func (api *API) ListResolutionsHandler(c *gin.Context) {
	resolutions := display.StandardResolutions()
	views := make([]resolutionView, len(resolutions))
	for i, res := range resolutions {
		views[i] = resolutionView{
			Width:  res.Width,
			Height: res.Height,
			Label:  res.String(),
			Aspect: res.Aspect(),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"resolutions": views,
		"total":       len(views),
	})
}

// ListWindowModesHandler returns the supported window modes in presentation
// order.
func (api *API) ListWindowModesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"window_modes": display.WindowModes(),
	})
}
