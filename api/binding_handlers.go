package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openoptions/go-settings-registry/internal/bindings"
	internalErrors "github.com/openoptions/go-settings-registry/internal/errors"
)

// RebindRequest is the body of a binding assignment. An empty input unbinds
// the action.
type RebindRequest struct {
	Input string `json:"input"`
}

func parseDeviceParam(c *gin.Context) (bindings.Device, bool) {
	device, err := bindings.ParseDevice(c.Param("device"))
	if err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, err.Error())
		return "", false
	}
	return device, true
}

// ListBindingsHandler returns one device's bindings in display order.
func (api *API) ListBindingsHandler(c *gin.Context) {
	device, ok := parseDeviceParam(c)
	if !ok {
		return
	}

	list, err := api.registry.ListBindings(device)
	if err != nil {
		SendInternalError(c, "binding listing", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"device":   device,
		"bindings": list,
		"total":    len(list),
	})
}

// RebindHandler assigns an input to an action. An input already bound to
// another action on the same device is taken away from that action.
func (api *API) RebindHandler(c *gin.Context) {
	device, ok := parseDeviceParam(c)
	if !ok {
		return
	}

	action := c.Param("action")
	if result := ValidateAction(action); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	var req RebindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if err := api.registry.Rebind(device, action, req.Input); err != nil {
		if errors.Is(err, internalErrors.ErrActionNotFound) {
			SendActionNotFoundError(c, string(device), action)
			return
		}
		SendInternalError(c, "rebinding", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"device": device,
		"action": action,
		"input":  req.Input,
	})
}

// ResetBindingsHandler restores one device's stock bindings.
func (api *API) ResetBindingsHandler(c *gin.Context) {
	device, ok := parseDeviceParam(c)
	if !ok {
		return
	}

	if err := api.registry.ResetBindings(device); err != nil {
		SendInternalError(c, "binding reset", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bindings for '" + string(device) + "' reset to defaults",
	})
}
