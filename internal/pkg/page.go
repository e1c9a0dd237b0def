package pkg

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanshop/storefront/internal/domain"
	"github.com/wanshop/storefront/internal/middleware"
	"github.com/wanshop/storefront/internal/route"
)

// NavigationKey is the gin.Context key holding the route.Navigation of the
// current page request.
const NavigationKey = "navigation"

// errorPages lists the status codes that have a dedicated errors/<code>.html.
var errorPages = map[int]bool{
	http.StatusBadRequest:          true,
	http.StatusNotFound:            true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusGatewayTimeout:      true,
}

// Navigation returns the navigation stored by the route dispatcher.
func Navigation(c *gin.Context) (route.Navigation, bool) {
	v, ok := c.Get(NavigationKey)
	if !ok {
		return route.Navigation{}, false
	}
	nav, ok := v.(route.Navigation)
	return nav, ok
}

// Page renders the named page template with data plus the values every
// layout needs: the CSRF token, request ID, current path and the navigation
// (including the scroll position to restore).
func Page(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CSRFToken"] = middleware.GetCSRFToken(c)
	data["RequestID"] = middleware.GetRequestID(c)
	data["Path"] = c.Request.URL.Path

	nav, ok := Navigation(c)
	if !ok {
		nav = route.Navigation{Requested: c.Request.URL.Path, Path: c.Request.URL.Path, Scroll: route.ScrollTop}
	}
	data["Nav"] = nav
	data["Scroll"] = nav.Scroll

	c.HTML(status, name, data)
}

// ErrorPage renders the error page matching err's status.
func ErrorPage(c *gin.Context, err error) {
	err = FromAPI(err)
	_ = c.Error(err)

	status := domain.HTTPStatusCode(err)
	msg := "internal error"
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	tmplStatus := status
	if !errorPages[tmplStatus] {
		tmplStatus = http.StatusInternalServerError
	}
	Page(c, status, fmt.Sprintf("errors/%d.html", tmplStatus), gin.H{
		"Title":   http.StatusText(status),
		"Message": msg,
	})
}

// Fail answers browsers with an error page and other clients with the JSON
// error envelope.
func Fail(c *gin.Context, err error) {
	if middleware.AcceptsHTML(c) {
		ErrorPage(c, err)
		return
	}
	_ = c.Error(err)
	Error(c, err)
}

// InvalidForm reports a form binding failure: browsers get the 400 page,
// other clients the per-field validation envelope.
func InvalidForm(c *gin.Context, err error, form any) {
	_ = c.Error(err)
	if middleware.AcceptsHTML(c) {
		ErrorPage(c, domain.NewAppError(domain.CodeValidation, "invalid form", err))
		return
	}
	c.JSON(http.StatusBadRequest, validationBody(err, form))
}
