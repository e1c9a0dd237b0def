package app

import (
	"github.com/gin-gonic/gin"

	"github.com/wanshop/storefront/internal/route"
)

// Module defines the contract for a self-registering page module.
//
// Views binds route-table views to handlers; the dispatcher mounts them on
// the table's paths. RegisterRoutes adds any extra routes (form targets)
// to the CSRF-protected page group.
type Module interface {
	Views() map[route.View]gin.HandlerFunc
	RegisterRoutes(pages *gin.RouterGroup)
}
