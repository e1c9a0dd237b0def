package storefront

import (
	"context"

	"github.com/wanshop/storefront/internal/apiclient"
	"github.com/wanshop/storefront/internal/domain"
)

// Backend is the subset of the public catalog API the shop pages use.
type Backend interface {
	ClearanceFabrics(ctx context.Context) ([]domain.Fabric, error)
	PublicFabrics(ctx context.Context) ([]domain.Fabric, error)
	PublicCategories(ctx context.Context) ([]domain.Category, error)
	ProductsByCategory(ctx context.Context, categoryID uint) ([]domain.Product, error)
}

var _ Backend = (*apiclient.Client)(nil)
