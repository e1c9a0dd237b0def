package apiclient

import (
	"context"
	"fmt"

	"github.com/wanshop/storefront/internal/domain"
)

// ListOrders returns every order with its items.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.Get(ctx, "/orders/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOrder returns one order.
func (c *Client) GetOrder(ctx context.Context, id uint) (*domain.Order, error) {
	var out domain.Order
	if err := c.Get(ctx, fmt.Sprintf("/orders/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrder creates an order; the backend prices each item.
func (c *Client) CreateOrder(ctx context.Context, in domain.NewOrder) (*domain.Order, error) {
	if in.Items == nil {
		in.Items = []domain.OrderItemInput{}
	}
	var out domain.Order
	if err := c.Post(ctx, "/orders/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrder replaces an order's header fields. Items are not touched.
func (c *Client) UpdateOrder(ctx context.Context, id uint, in domain.OrderInput) (*domain.Order, error) {
	var out domain.Order
	if err := c.Put(ctx, fmt.Sprintf("/orders/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteOrder deletes an order and its items.
func (c *Client) DeleteOrder(ctx context.Context, id uint) error {
	return c.Delete(ctx, fmt.Sprintf("/orders/%d", id), nil)
}
