package apiclient

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wanshop/storefront/internal/domain"
)

// FabricImageKind selects which picture list an upload lands in.
type FabricImageKind string

const (
	FabricImage FabricImageKind = "image"
	FabricWork  FabricImageKind = "work"
)

// Valid reports whether k is a kind the backend accepts.
func (k FabricImageKind) Valid() bool {
	return k == FabricImage || k == FabricWork
}

// ListFabrics returns every fabric.
func (c *Client) ListFabrics(ctx context.Context) ([]domain.Fabric, error) {
	var out []domain.Fabric
	if err := c.Get(ctx, "/fabrics/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetFabric returns one fabric.
func (c *Client) GetFabric(ctx context.Context, id uint) (*domain.Fabric, error) {
	var out domain.Fabric
	if err := c.Get(ctx, fmt.Sprintf("/fabrics/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateFabric creates a fabric.
func (c *Client) CreateFabric(ctx context.Context, in domain.FabricInput) (*domain.Fabric, error) {
	var out domain.Fabric
	if err := c.Post(ctx, "/fabrics/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateFabric replaces the writable fields of a fabric. Pictures are left alone.
func (c *Client) UpdateFabric(ctx context.Context, id uint, in domain.FabricInput) (*domain.Fabric, error) {
	var out domain.Fabric
	if err := c.Put(ctx, fmt.Sprintf("/fabrics/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFabric deletes a fabric and its pictures.
func (c *Client) DeleteFabric(ctx context.Context, id uint) error {
	return c.Delete(ctx, fmt.Sprintf("/fabrics/%d", id), nil)
}

// AppendFabricImages attaches urls to a fabric's list of the given kind,
// skipping urls already present.
func (c *Client) AppendFabricImages(ctx context.Context, id uint, kind FabricImageKind, urls []string) (*domain.AppendResult, error) {
	var out domain.AppendResult
	if err := c.Post(ctx, fabricImagesPath(id, kind), nonNil(urls), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReplaceFabricImages replaces a fabric's list of the given kind with urls,
// de-duplicated in order.
func (c *Client) ReplaceFabricImages(ctx context.Context, id uint, kind FabricImageKind, urls []string) (*domain.ReplaceResult, error) {
	var out domain.ReplaceResult
	if err := c.Put(ctx, fabricImagesPath(id, kind), nonNil(urls), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadFabricImages stores files for a fabric and returns their public URLs.
// The files are not attached until AppendFabricImages is called.
func (c *Client) UploadFabricImages(ctx context.Context, id uint, kind FabricImageKind, files []File) (*domain.UploadResult, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("invalid fabric image kind %q", kind)
	}
	q := url.Values{"kind": {string(kind)}}
	return c.Upload(ctx, fmt.Sprintf("upload/fabrics/%d?%s", id, q.Encode()), files)
}

func fabricImagesPath(id uint, kind FabricImageKind) string {
	if kind == FabricWork {
		return fmt.Sprintf("/fabrics/%d/works", id)
	}
	return fmt.Sprintf("/fabrics/%d/images", id)
}

// nonNil keeps a nil slice from encoding as JSON null; the backend requires a list.
func nonNil(urls []string) []string {
	if urls == nil {
		return []string{}
	}
	return urls
}
