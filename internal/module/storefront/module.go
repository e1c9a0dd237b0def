package storefront

import (
	"github.com/gin-gonic/gin"

	"github.com/wanshop/storefront/internal/route"
)

// Module implements the app.Module interface for the public shop pages.
type Module struct {
	pages *PageHandler
}

// NewModule creates a Module. Panics if ph is nil.
func NewModule(ph *PageHandler) *Module {
	if ph == nil {
		panic("storefront.NewModule: page handler must not be nil")
	}
	return &Module{pages: ph}
}

// Views binds the shop route-table views to their handlers.
func (m *Module) Views() map[route.View]gin.HandlerFunc {
	return map[route.View]gin.HandlerFunc{
		route.ViewFabricsClearance: m.pages.ClearancePage,
		route.ViewFabricsShow:      m.pages.FabricsPage,
		route.ViewProductsShow:     m.pages.ProductsPage,
	}
}

// RegisterRoutes is a no-op: every shop page is reached through the route table.
func (m *Module) RegisterRoutes(*gin.RouterGroup) {}
