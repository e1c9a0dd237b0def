package apiclient

import (
	"context"
	"fmt"

	"github.com/wanshop/storefront/internal/domain"
)

// ClearanceFabrics returns fabrics currently on clearance.
func (c *Client) ClearanceFabrics(ctx context.Context) ([]domain.Fabric, error) {
	var out []domain.Fabric
	if err := c.Get(ctx, "/public/fabrics/clearance", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PublicFabrics returns the public fabric catalog.
func (c *Client) PublicFabrics(ctx context.Context) ([]domain.Fabric, error) {
	var out []domain.Fabric
	if err := c.Get(ctx, "/public/fabrics", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PublicCategories returns the categories shown on the storefront.
func (c *Client) PublicCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.Get(ctx, "/public/categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductsByCategory returns the products of one category.
func (c *Client) ProductsByCategory(ctx context.Context, categoryID uint) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.Get(ctx, fmt.Sprintf("/public/products/by_category/%d", categoryID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health pings the backend's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.Get(ctx, "/health", &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return fmt.Errorf("backend health status %q", out.Status)
	}
	return nil
}
