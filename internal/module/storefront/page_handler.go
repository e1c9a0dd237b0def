package storefront

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wanshop/storefront/internal/domain"
	"github.com/wanshop/storefront/internal/pkg"
)

var fabricFilters = map[string]pkg.Match[domain.Fabric]{
	"q":      pkg.ContainsFold(func(f domain.Fabric) string { return f.Name }),
	"origin": pkg.ContainsFold(func(f domain.Fabric) string { return f.Origin }),
}

var fabricSorts = map[string]pkg.Compare[domain.Fabric]{
	"id":    pkg.ByField(func(f domain.Fabric) uint { return f.ID }),
	"name":  pkg.ByField(func(f domain.Fabric) string { return f.Name }),
	"price": pkg.ByField(func(f domain.Fabric) float64 { return f.DisplayPrice() }),
}

// PageHandler renders the public shop pages.
type PageHandler struct {
	backend Backend
}

// NewPageHandler creates a PageHandler backed by b.
func NewPageHandler(b Backend) *PageHandler {
	return &PageHandler{backend: b}
}

// ClearancePage lists fabrics on clearance.
// GET /fabrics/clearance
func (h *PageHandler) ClearancePage(c *gin.Context) {
	fabrics, err := h.backend.ClearanceFabrics(c.Request.Context())
	if err != nil {
		pkg.ErrorPage(c, err)
		return
	}

	sortIfRequested(c, fabrics)

	pkg.Page(c, http.StatusOK, "storefront/clearance.html", gin.H{
		"Title":   "Clearance",
		"Fabrics": fabrics,
	})
}

// FabricsPage shows the full fabric catalog.
// GET /fabrics/show
func (h *PageHandler) FabricsPage(c *gin.Context) {
	fabrics, err := h.backend.PublicFabrics(c.Request.Context())
	if err != nil {
		pkg.ErrorPage(c, err)
		return
	}

	req := pkg.ParsePageRequest(c)
	fabrics = pkg.Filter(fabrics, req, fabricFilters)
	sortIfRequested(c, fabrics)

	pkg.Page(c, http.StatusOK, "storefront/fabrics.html", gin.H{
		"Title":   "Fabrics",
		"Fabrics": fabrics,
		"Search":  req.Filter["q"],
	})
}

// ProductsPage shows the products of one category, chosen with
// ?category=<id> and defaulting to the first category.
// GET /products/show
func (h *PageHandler) ProductsPage(c *gin.Context) {
	ctx := c.Request.Context()

	categories, err := h.backend.PublicCategories(ctx)
	if err != nil {
		pkg.ErrorPage(c, err)
		return
	}

	selected, ok := selectCategory(categories, c.Query("category"))
	if !ok {
		pkg.ErrorPage(c, domain.NewAppError(domain.CodeNotFound, "category not found", nil))
		return
	}

	products := []domain.Product{}
	if selected != nil {
		products, err = h.backend.ProductsByCategory(ctx, selected.ID)
		if err != nil {
			pkg.ErrorPage(c, err)
			return
		}
	}

	pkg.Page(c, http.StatusOK, "storefront/products.html", gin.H{
		"Title":      "Products",
		"Categories": categories,
		"Selected":   selected,
		"Products":   products,
	})
}

// sortIfRequested keeps the backend order unless ?sort= is given.
func sortIfRequested(c *gin.Context, fabrics []domain.Fabric) {
	if c.Query("sort") == "" {
		return
	}
	pkg.Sort(fabrics, pkg.ParsePageRequest(c), fabricSorts)
}

// selectCategory picks the category named by raw, or the first one when raw
// is empty. It reports false when raw names no known category.
func selectCategory(categories []domain.Category, raw string) (*domain.Category, bool) {
	if raw == "" {
		if len(categories) == 0 {
			return nil, true
		}
		return &categories[0], true
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	for i := range categories {
		if uint64(categories[i].ID) == id {
			return &categories[i], true
		}
	}
	return nil, false
}
