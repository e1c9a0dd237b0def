package catalog

import (
	"context"
	"strings"

	"github.com/wanshop/storefront/internal/apiclient"
	"github.com/wanshop/storefront/internal/domain"
)

// Defaults the backend applies to omitted fields; sent explicitly because
// the web tier always posts every field.
const (
	defaultFabricOrigin  = "台灣"
	defaultOrderStatus   = "尚未處理"
	defaultPaymentStatus = "貨到付款"
	defaultItemState     = "空白"
)

// Backend is the part of the backend client the catalog API writes through.
type Backend interface {
	GetFabric(ctx context.Context, id uint) (*domain.Fabric, error)
	CreateFabric(ctx context.Context, in domain.FabricInput) (*domain.Fabric, error)
	UpdateFabric(ctx context.Context, id uint, in domain.FabricInput) (*domain.Fabric, error)
	DeleteFabric(ctx context.Context, id uint) error
	ReplaceFabricImages(ctx context.Context, id uint, kind apiclient.FabricImageKind, urls []string) (*domain.ReplaceResult, error)

	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id uint, in domain.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uint) error

	GetProduct(ctx context.Context, id uint) (*domain.Product, error)
	CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uint, in domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	ReplaceProductImages(ctx context.Context, id uint, urls []string) (*domain.ReplaceResult, error)

	GetOrder(ctx context.Context, id uint) (*domain.Order, error)
	CreateOrder(ctx context.Context, in domain.NewOrder) (*domain.Order, error)
	UpdateOrder(ctx context.Context, id uint, in domain.OrderInput) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id uint) error
}

var _ Backend = (*apiclient.Client)(nil)

// Service normalizes catalog input and writes it through the backend.
type Service struct {
	backend Backend
}

// NewService creates a Service backed by b.
func NewService(b Backend) *Service {
	return &Service{backend: b}
}

// GetFabric returns one fabric.
func (s *Service) GetFabric(ctx context.Context, id uint) (*domain.Fabric, error) {
	return s.backend.GetFabric(ctx, id)
}

// CreateFabric validates and creates a fabric.
func (s *Service) CreateFabric(ctx context.Context, req FabricRequest) (*domain.Fabric, error) {
	in, err := fabricInput(req)
	if err != nil {
		return nil, err
	}
	return s.backend.CreateFabric(ctx, in)
}

// UpdateFabric validates and replaces a fabric's fields.
func (s *Service) UpdateFabric(ctx context.Context, id uint, req FabricRequest) (*domain.Fabric, error) {
	in, err := fabricInput(req)
	if err != nil {
		return nil, err
	}
	return s.backend.UpdateFabric(ctx, id, in)
}

// DeleteFabric removes a fabric.
func (s *Service) DeleteFabric(ctx context.Context, id uint) error {
	return s.backend.DeleteFabric(ctx, id)
}

// ReplaceFabricImages swaps the fabric's image or work list for urls.
func (s *Service) ReplaceFabricImages(ctx context.Context, id uint, kind string, urls []string) (*domain.ReplaceResult, error) {
	k := apiclient.FabricImageKind(kind)
	if kind == "" {
		k = apiclient.FabricImage
	}
	if !k.Valid() {
		return nil, domain.NewAppError(domain.CodeValidation, "kind must be image or work", nil)
	}
	return s.backend.ReplaceFabricImages(ctx, id, k, cleanURLs(urls))
}

// ListCategories returns every category.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.backend.ListCategories(ctx)
}

// CreateCategory validates and creates a category.
func (s *Service) CreateCategory(ctx context.Context, req CategoryRequest) (*domain.Category, error) {
	name, err := requireName(req.Name, "name")
	if err != nil {
		return nil, err
	}
	return s.backend.CreateCategory(ctx, domain.CategoryInput{Name: name})
}

// UpdateCategory validates and renames a category.
func (s *Service) UpdateCategory(ctx context.Context, id uint, req CategoryRequest) (*domain.Category, error) {
	name, err := requireName(req.Name, "name")
	if err != nil {
		return nil, err
	}
	return s.backend.UpdateCategory(ctx, id, domain.CategoryInput{Name: name})
}

// DeleteCategory removes a category.
func (s *Service) DeleteCategory(ctx context.Context, id uint) error {
	return s.backend.DeleteCategory(ctx, id)
}

// GetProduct returns one product.
func (s *Service) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	return s.backend.GetProduct(ctx, id)
}

// CreateProduct validates and creates a product.
func (s *Service) CreateProduct(ctx context.Context, req ProductRequest) (*domain.Product, error) {
	in, err := productInput(req)
	if err != nil {
		return nil, err
	}
	return s.backend.CreateProduct(ctx, in)
}

// UpdateProduct validates and replaces a product's fields.
func (s *Service) UpdateProduct(ctx context.Context, id uint, req ProductRequest) (*domain.Product, error) {
	in, err := productInput(req)
	if err != nil {
		return nil, err
	}
	return s.backend.UpdateProduct(ctx, id, in)
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	return s.backend.DeleteProduct(ctx, id)
}

// ReplaceProductImages swaps the product's image list for urls.
func (s *Service) ReplaceProductImages(ctx context.Context, id uint, urls []string) (*domain.ReplaceResult, error) {
	return s.backend.ReplaceProductImages(ctx, id, cleanURLs(urls))
}

// GetOrder returns one order with its items.
func (s *Service) GetOrder(ctx context.Context, id uint) (*domain.Order, error) {
	return s.backend.GetOrder(ctx, id)
}

// CreateOrder validates and creates an order. The backend prices each item.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	header, err := orderInput(req.CustomerName, req.Description, req.OrderStatus, req.PaymentStatus)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		state := strings.TrimSpace(it.State)
		if state == "" {
			state = defaultItemState
		}
		items = append(items, domain.OrderItemInput{
			ProductID:   it.ProductID,
			FabricID:    it.FabricID,
			State:       state,
			Adjustment:  it.Adjustment,
			Description: strings.TrimSpace(it.Description),
		})
	}

	return s.backend.CreateOrder(ctx, domain.NewOrder{OrderInput: header, Items: items})
}

// UpdateOrder validates and replaces an order header. Items are unchanged.
func (s *Service) UpdateOrder(ctx context.Context, id uint, req UpdateOrderRequest) (*domain.Order, error) {
	header, err := orderInput(req.CustomerName, req.Description, req.OrderStatus, req.PaymentStatus)
	if err != nil {
		return nil, err
	}
	return s.backend.UpdateOrder(ctx, id, header)
}

// DeleteOrder removes an order.
func (s *Service) DeleteOrder(ctx context.Context, id uint) error {
	return s.backend.DeleteOrder(ctx, id)
}

func fabricInput(req FabricRequest) (domain.FabricInput, error) {
	name, err := requireName(req.Name, "name")
	if err != nil {
		return domain.FabricInput{}, err
	}
	origin := strings.TrimSpace(req.Origin)
	if origin == "" {
		origin = defaultFabricOrigin
	}
	return domain.FabricInput{
		Name:           name,
		Origin:         origin,
		Price:          req.Price,
		Size:           strings.TrimSpace(req.Size),
		Description:    strings.TrimSpace(req.Description),
		OnClearance:    req.OnClearance,
		ClearancePrice: req.ClearancePrice,
	}, nil
}

func productInput(req ProductRequest) (domain.ProductInput, error) {
	name, err := requireName(req.Name, "name")
	if err != nil {
		return domain.ProductInput{}, err
	}
	return domain.ProductInput{
		Name:        name,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Size:        strings.TrimSpace(req.Size),
		Description: strings.TrimSpace(req.Description),
		PromoPrice:  req.PromoPrice,
	}, nil
}

func orderInput(customer, description, orderStatus, paymentStatus string) (domain.OrderInput, error) {
	name, err := requireName(customer, "customer_name")
	if err != nil {
		return domain.OrderInput{}, err
	}
	in := domain.OrderInput{
		CustomerName:  name,
		Description:   strings.TrimSpace(description),
		OrderStatus:   strings.TrimSpace(orderStatus),
		PaymentStatus: strings.TrimSpace(paymentStatus),
	}
	if in.OrderStatus == "" {
		in.OrderStatus = defaultOrderStatus
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = defaultPaymentStatus
	}
	return in, nil
}

// requireName rejects values that are blank once trimmed.
func requireName(v, field string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", domain.NewAppError(domain.CodeValidation, field+" is required", nil)
	}
	return v, nil
}

// cleanURLs trims urls and drops blanks, keeping order.
func cleanURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}
