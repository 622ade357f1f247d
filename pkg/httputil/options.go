package httputil

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// allow answers an OPTIONS request. OPTIONS itself is always allowed.
func allow(c *gin.Context, methods ...string) {
	c.Header("allow", strings.Join(append([]string{http.MethodOptions}, methods...), ", "))
	c.Status(http.StatusNoContent)
	c.Writer.WriteHeaderNow()
}

// OptionsGet is for read-only resources and streams.
func OptionsGet(c *gin.Context) {
	allow(c, http.MethodGet)
}

// OptionsPost is for actions like a push or a pull.
func OptionsPost(c *gin.Context) {
	allow(c, http.MethodPost)
}

func OptionsGetPost(c *gin.Context) {
	allow(c, http.MethodGet, http.MethodPost)
}

func OptionsGetPatch(c *gin.Context) {
	allow(c, http.MethodGet, http.MethodPatch)
}

func OptionsGetPatchDelete(c *gin.Context) {
	allow(c, http.MethodGet, http.MethodPatch, http.MethodDelete)
}
