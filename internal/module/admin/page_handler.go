package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wanshop/storefront/internal/domain"
	"github.com/wanshop/storefront/internal/pkg"
)

var fabricSorts = map[string]pkg.Compare[domain.Fabric]{
	"id":         pkg.ByField(func(f domain.Fabric) uint { return f.ID }),
	"name":       pkg.ByField(func(f domain.Fabric) string { return f.Name }),
	"price":      pkg.ByField(func(f domain.Fabric) float64 { return f.DisplayPrice() }),
	"created_at": pkg.ByField(func(f domain.Fabric) int64 { return f.CreatedAt.UnixNano() }),
}

var fabricFilters = map[string]pkg.Match[domain.Fabric]{
	"q":      pkg.ContainsFold(func(f domain.Fabric) string { return f.Name }),
	"origin": pkg.ContainsFold(func(f domain.Fabric) string { return f.Origin }),
	"clearance": func(f domain.Fabric, v string) bool {
		want, err := strconv.ParseBool(v)
		return err == nil && f.OnClearance == want
	},
}

var productSorts = map[string]pkg.Compare[domain.Product]{
	"id":    pkg.ByField(func(p domain.Product) uint { return p.ID }),
	"name":  pkg.ByField(func(p domain.Product) string { return p.Name }),
	"price": pkg.ByField(func(p domain.Product) float64 { return p.DisplayPrice() }),
}

var productFilters = map[string]pkg.Match[domain.Product]{
	"q": pkg.ContainsFold(func(p domain.Product) string { return p.Name }),
	"category": func(p domain.Product, v string) bool {
		id, err := strconv.ParseUint(v, 10, 64)
		return err == nil && uint64(p.CategoryID) == id
	},
}

var orderSorts = map[string]pkg.Compare[domain.Order]{
	"id":         pkg.ByField(func(o domain.Order) uint { return o.ID }),
	"customer":   pkg.ByField(func(o domain.Order) string { return o.CustomerName }),
	"total":      pkg.ByField(func(o domain.Order) float64 { return o.Total() }),
	"created_at": pkg.ByField(func(o domain.Order) int64 { return o.CreatedAt.UnixNano() }),
}

var orderFilters = map[string]pkg.Match[domain.Order]{
	"q":       pkg.ContainsFold(func(o domain.Order) string { return o.CustomerName }),
	"status":  func(o domain.Order, v string) bool { return o.OrderStatus == v },
	"payment": func(o domain.Order, v string) bool { return o.PaymentStatus == v },
}

// PageHandler renders the admin list pages.
type PageHandler struct {
	backend Backend
}

// NewPageHandler creates a PageHandler backed by b.
func NewPageHandler(b Backend) *PageHandler {
	return &PageHandler{backend: b}
}

// FabricsPage renders the fabric table.
// GET /admin/fabrics
func (h *PageHandler) FabricsPage(c *gin.Context) {
	fabrics, err := h.backend.ListFabrics(c.Request.Context())
	if err != nil {
		pkg.ErrorPage(c, err)
		return
	}

	req := pkg.ParsePageRequest(c)
	fabrics = pkg.Filter(fabrics, req, fabricFilters)
	pkg.Sort(fabrics, req, fabricSorts)
	result, err := pkg.Paginate(c.Request.Context(), fabrics, req)
	if err != nil {
		pkg.ErrorPage(c, err)
		return
	}

	pkg.Page(c, http.StatusOK, "admin/fabrics.html", gin.H{
		"Title":      "Fabrics",
		"Fabrics":    result.Items,
		"Pagination": result,
		"Query":      req,
		"BaseURL":    "/admin/fabrics",
		"Flash":      flash(c),
	})
}

// ProductsPage renders the product table with category names resolved.
// GET /admin/products
func (h *PageHandler) ProductsPage(c *gin.Context) {
	ctx := c.Request.Context()

	products, err := h.backend.ListProducts(ctx)
	if err != nil {
		pkg.ErrorPage(c, err)
		return
	}
	categories, err := h.backend.ListCategories(ctx)
	if err != nil {
		pkg.ErrorPage(c, err)
		return
	}

	names := make(map[uint]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}

	req := pkg.ParsePageRequest(c)
	products = pkg.Filter(products, req, productFilters)
	pkg.Sort(products, req, productSorts)
	result, err := pkg.Paginate(c.Request.Context(), products, req)
	if err != nil {
		pkg.ErrorPage(c, err)
		return
	}

	pkg.Page(c, http.StatusOK, "admin/products.html", gin.H{
		"Title":         "Products",
		"Products":      result.Items,
		"Categories":    categories,
		"CategoryNames": names,
		"Pagination":    result,
		"Query":         req,
		"BaseURL":       "/admin/products",
		"Flash":         flash(c),
	})
}

// OrdersPage renders the order table.
// GET /admin/orders
func (h *PageHandler) OrdersPage(c *gin.Context) {
	orders, err := h.backend.ListOrders(c.Request.Context())
	if err != nil {
		pkg.ErrorPage(c, err)
		return
	}

	req := pkg.ParsePageRequest(c)
	orders = pkg.Filter(orders, req, orderFilters)
	pkg.Sort(orders, req, orderSorts)
	result, err := pkg.Paginate(c.Request.Context(), orders, req)
	if err != nil {
		pkg.ErrorPage(c, err)
		return
	}

	pkg.Page(c, http.StatusOK, "admin/orders.html", gin.H{
		"Title":      "Orders",
		"Orders":     result.Items,
		"Pagination": result,
		"Query":      req,
		"BaseURL":    "/admin/orders",
	})
}

// flash reads the one-shot upload outcome carried in the redirect query.
func flash(c *gin.Context) string {
	n, err := strconv.Atoi(c.Query("uploaded"))
	if err != nil || n < 0 {
		return ""
	}
	if n == 1 {
		return "1 file uploaded"
	}
	return strconv.Itoa(n) + " files uploaded"
}
