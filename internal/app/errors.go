package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wanshop/storefront/internal/domain"
	"github.com/wanshop/storefront/internal/pkg"
)

// renderError sends an error response appropriate for the client: the JSON
// envelope for clients that ask for JSON only, an error page for browsers.
func renderError(c *gin.Context, err *domain.AppError) {
	accept := strings.ToLower(c.GetHeader("Accept"))
	if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
		pkg.Error(c, err)
		return
	}
	if !acceptsHTML(c) {
		pkg.Error(c, err)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			code := domain.HTTPStatusCode(err)
			c.Data(code, "text/plain; charset=utf-8", []byte(fmt.Sprintf("%d %s", code, http.StatusText(code))))
		}
	}()
	pkg.ErrorPage(c, err)
}

// acceptsHTML matches text/html, */* (browser default), and empty Accept headers.
func acceptsHTML(c *gin.Context) bool {
	accept := strings.ToLower(c.GetHeader("Accept"))
	return strings.Contains(accept, "text/html") ||
		strings.Contains(accept, "*/*") ||
		strings.TrimSpace(accept) == ""
}
