package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/client/pkg/httputil"
	"github.com/pocketledger/client/pkg/preferences"
)

// RegisterSettingsRoutes registers the routes for the UI settings with
// the RouterGroup that is passed.
func (co Controller) RegisterSettingsRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsSettings)
	r.GET("", co.GetSettings)
	r.PATCH("", co.UpdateSettings)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Settings
// @Success		204
// @Router			/v1/settings [options]
func OptionsSettings(c *gin.Context) {
	httputil.OptionsGetPatch(c)
}

// @Summary		Get settings
// @Description	Returns the UI settings, the defaults if none have been saved
// @Tags			Settings
// @Produce		json
// @Success		200	{object}	SettingsResponse
// @Failure		500	{object}	httputil.HTTPError
// @Router			/v1/settings [get]
func (co Controller) GetSettings(c *gin.Context) {
	settings, err := co.Preferences.Settings.Load()
	if err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return
	}

	c.JSON(http.StatusOK, SettingsResponse{Data: settings})
}

// @Summary		Update settings
// @Description	Updates the UI settings. Only values to be changed need to be specified.
// @Tags			Settings
// @Accept			json
// @Produce		json
// @Success		200			{object}	SettingsResponse
// @Failure		400			{object}	httputil.HTTPError
// @Param			settings	body		SettingsEditable	true	"Settings"
// @Router			/v1/settings [patch]
func (co Controller) UpdateSettings(c *gin.Context) {
	var update SettingsEditable
	if err := httputil.BindData(c, &update); err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return
	}

	settings, err := co.Preferences.UpdateSettings(func(s *preferences.Settings) {
		if update.Language != nil {
			s.Language = *update.Language
		}
		if update.Theme != nil {
			s.Theme = *update.Theme
		}
		if update.ColorScheme != nil {
			s.ColorScheme = *update.ColorScheme
		}
	})
	if err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return
	}

	c.JSON(http.StatusOK, SettingsResponse{Data: settings})
}
