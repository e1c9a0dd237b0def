package admin

import (
	"context"

	"github.com/wanshop/storefront/internal/apiclient"
	"github.com/wanshop/storefront/internal/domain"
)

// Backend is the subset of the catalog API the admin pages use.
// *apiclient.Client implements it.
type Backend interface {
	ListFabrics(ctx context.Context) ([]domain.Fabric, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)

	UploadFabricImages(ctx context.Context, id uint, kind apiclient.FabricImageKind, files []apiclient.File) (*domain.UploadResult, error)
	AppendFabricImages(ctx context.Context, id uint, kind apiclient.FabricImageKind, urls []string) (*domain.AppendResult, error)
	UploadProductImages(ctx context.Context, id uint, files []apiclient.File) (*domain.UploadResult, error)
	AppendProductImages(ctx context.Context, id uint, urls []string) (*domain.AppendResult, error)
}

var _ Backend = (*apiclient.Client)(nil)
