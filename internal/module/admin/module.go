package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/wanshop/storefront/internal/route"
)

// Module implements the app.Module interface for the back-office pages.
type Module struct {
	pages   *PageHandler
	uploads *UploadHandler
}

// NewModule creates a Module with the given handlers.
// Panics if either handler is nil.
func NewModule(ph *PageHandler, uh *UploadHandler) *Module {
	if ph == nil {
		panic("admin.NewModule: page handler must not be nil")
	}
	if uh == nil {
		panic("admin.NewModule: upload handler must not be nil")
	}
	return &Module{pages: ph, uploads: uh}
}

// Views binds the admin route-table views to their handlers.
func (m *Module) Views() map[route.View]gin.HandlerFunc {
	return map[route.View]gin.HandlerFunc{
		route.ViewAdminFabrics:  m.pages.FabricsPage,
		route.ViewAdminProducts: m.pages.ProductsPage,
		route.ViewAdminOrders:   m.pages.OrdersPage,
	}
}

// RegisterRoutes registers the upload form targets.
func (m *Module) RegisterRoutes(pages *gin.RouterGroup) {
	pages.POST("/admin/fabrics/:id/upload", m.uploads.UploadFabric)
	pages.POST("/admin/products/:id/upload", m.uploads.UploadProduct)
}
