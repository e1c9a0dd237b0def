package apiclient

import (
	"context"
	"fmt"

	"github.com/wanshop/storefront/internal/domain"
)

// ListProducts returns every product.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.Get(ctx, "/products/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct returns one product.
func (c *Client) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	var out domain.Product
	if err := c.Get(ctx, fmt.Sprintf("/products/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct creates a product. The backend answers 400 for an unknown category.
func (c *Client) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	var out domain.Product
	if err := c.Post(ctx, "/products/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct replaces the writable fields of a product.
func (c *Client) UpdateProduct(ctx context.Context, id uint, in domain.ProductInput) (*domain.Product, error) {
	var out domain.Product
	if err := c.Put(ctx, fmt.Sprintf("/products/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct deletes a product.
func (c *Client) DeleteProduct(ctx context.Context, id uint) error {
	return c.Delete(ctx, fmt.Sprintf("/products/%d", id), nil)
}

// AppendProductImages attaches urls to a product, skipping those already present.
func (c *Client) AppendProductImages(ctx context.Context, id uint, urls []string) (*domain.AppendResult, error) {
	var out domain.AppendResult
	if err := c.Post(ctx, fmt.Sprintf("/products/%d/images", id), nonNil(urls), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReplaceProductImages replaces a product's pictures with urls.
func (c *Client) ReplaceProductImages(ctx context.Context, id uint, urls []string) (*domain.ReplaceResult, error) {
	var out domain.ReplaceResult
	if err := c.Put(ctx, fmt.Sprintf("/products/%d/images", id), nonNil(urls), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadProductImages stores files for a product and returns their public URLs.
func (c *Client) UploadProductImages(ctx context.Context, id uint, files []File) (*domain.UploadResult, error) {
	return c.Upload(ctx, fmt.Sprintf("upload/products/%d", id), files)
}

// ListCategories returns every category.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.Get(ctx, "/categories/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	var out domain.Category
	if err := c.Post(ctx, "/categories/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCategory renames a category.
func (c *Client) UpdateCategory(ctx context.Context, id uint, in domain.CategoryInput) (*domain.Category, error) {
	var out domain.Category
	if err := c.Put(ctx, fmt.Sprintf("/categories/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory deletes a category and its products.
func (c *Client) DeleteCategory(ctx context.Context, id uint) error {
	return c.Delete(ctx, fmt.Sprintf("/categories/%d", id), nil)
}
