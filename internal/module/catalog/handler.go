package catalog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wanshop/storefront/internal/domain"
	"github.com/wanshop/storefront/internal/pkg"
)

// Handler serves the admin catalog JSON API. Every write goes through the
// backend; nothing is stored here.
type Handler struct {
	svc *Service
}

// NewHandler creates a Handler with the given service.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, pkg.Response{
		Code:    http.StatusCreated,
		Message: "success",
		Data:    data,
	})
}

// --- fabrics ---

// CreateFabric handles POST /admin/api/fabrics.
func (h *Handler) CreateFabric(c *gin.Context) {
	var req FabricRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	fabric, err := h.svc.CreateFabric(c.Request.Context(), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	created(c, fabric)
}

// GetFabric handles GET /admin/api/fabrics/:id.
func (h *Handler) GetFabric(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	fabric, err := h.svc.GetFabric(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, fabric)
}

// UpdateFabric handles PUT /admin/api/fabrics/:id.
func (h *Handler) UpdateFabric(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req FabricRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	fabric, err := h.svc.UpdateFabric(c.Request.Context(), id, req)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, fabric)
}

// DeleteFabric handles DELETE /admin/api/fabrics/:id.
func (h *Handler) DeleteFabric(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteFabric(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}

// ReplaceFabricImages handles PUT /admin/api/fabrics/:id/images?kind=image|work.
func (h *Handler) ReplaceFabricImages(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ImageListRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	result, err := h.svc.ReplaceFabricImages(c.Request.Context(), id, c.Query("kind"), req.URLs)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, result)
}

// --- categories ---

// ListCategories handles GET /admin/api/categories.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, categories)
}

// CreateCategory handles POST /admin/api/categories.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	category, err := h.svc.CreateCategory(c.Request.Context(), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	created(c, category)
}

// UpdateCategory handles PUT /admin/api/categories/:id.
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req CategoryRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	category, err := h.svc.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, category)
}

// DeleteCategory handles DELETE /admin/api/categories/:id.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteCategory(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}

// --- products ---

// CreateProduct handles POST /admin/api/products.
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	product, err := h.svc.CreateProduct(c.Request.Context(), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	created(c, product)
}

// GetProduct handles GET /admin/api/products/:id.
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	product, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, product)
}

// UpdateProduct handles PUT /admin/api/products/:id.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ProductRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	product, err := h.svc.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, product)
}

// DeleteProduct handles DELETE /admin/api/products/:id.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteProduct(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}

// ReplaceProductImages handles PUT /admin/api/products/:id/images.
func (h *Handler) ReplaceProductImages(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ImageListRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	result, err := h.svc.ReplaceProductImages(c.Request.Context(), id, req.URLs)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, result)
}

// --- orders ---

// CreateOrder handles POST /admin/api/orders.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	order, err := h.svc.CreateOrder(c.Request.Context(), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	created(c, order)
}

// GetOrder handles GET /admin/api/orders/:id.
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	order, err := h.svc.GetOrder(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, order)
}

// UpdateOrder handles PUT /admin/api/orders/:id.
func (h *Handler) UpdateOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateOrderRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	order, err := h.svc.UpdateOrder(c.Request.Context(), id, req)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, order)
}

// DeleteOrder handles DELETE /admin/api/orders/:id.
func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteOrder(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}

// pathID parses the :id parameter, answering 400 when it is not a
// positive integer.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, "invalid id", err))
		return 0, false
	}
	return uint(id), true
}
