package catalog

import (
	"github.com/gin-gonic/gin"

	"github.com/wanshop/storefront/internal/route"
)

// Module mounts the admin catalog JSON API. It binds no table views.
type Module struct {
	handler *Handler
}

// NewModule creates a Module. Panics if h is nil.
func NewModule(h *Handler) *Module {
	if h == nil {
		panic("catalog.NewModule: handler must not be nil")
	}
	return &Module{handler: h}
}

// Views returns no bindings; the catalog API renders no pages.
func (m *Module) Views() map[route.View]gin.HandlerFunc {
	return nil
}

// RegisterRoutes registers the /admin/api routes on the CSRF-protected group.
func (m *Module) RegisterRoutes(pages *gin.RouterGroup) {
	api := pages.Group("/admin/api")

	api.POST("/fabrics", m.handler.CreateFabric)
	api.GET("/fabrics/:id", m.handler.GetFabric)
	api.PUT("/fabrics/:id", m.handler.UpdateFabric)
	api.DELETE("/fabrics/:id", m.handler.DeleteFabric)
	api.PUT("/fabrics/:id/images", m.handler.ReplaceFabricImages)

	api.GET("/categories", m.handler.ListCategories)
	api.POST("/categories", m.handler.CreateCategory)
	api.PUT("/categories/:id", m.handler.UpdateCategory)
	api.DELETE("/categories/:id", m.handler.DeleteCategory)

	api.POST("/products", m.handler.CreateProduct)
	api.GET("/products/:id", m.handler.GetProduct)
	api.PUT("/products/:id", m.handler.UpdateProduct)
	api.DELETE("/products/:id", m.handler.DeleteProduct)
	api.PUT("/products/:id/images", m.handler.ReplaceProductImages)

	api.POST("/orders", m.handler.CreateOrder)
	api.GET("/orders/:id", m.handler.GetOrder)
	api.PUT("/orders/:id", m.handler.UpdateOrder)
	api.DELETE("/orders/:id", m.handler.DeleteOrder)
}
