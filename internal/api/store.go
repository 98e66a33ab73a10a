package api

import (
	"context"
	"fmt"

	"github.com/oxmanage/console/internal/models"
)

// GetStoreSettings returns the storefront identity (subdomain, custom domain).
func (c *Client) GetStoreSettings(ctx context.Context) (*models.StoreSettings, error) {
	var settings models.StoreSettings
	if err := c.get(ctx, "/store/settings/", nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// ListStoreProducts fetches the storefront product catalogue.
func (c *Client) ListStoreProducts(ctx context.Context) ([]models.StoreProduct, error) {
	return getList[models.StoreProduct](ctx, c, "/store/products/", nil)
}

// ListStoreOrders fetches orders placed through the storefront.
func (c *Client) ListStoreOrders(ctx context.Context) ([]models.StoreOrder, error) {
	return getList[models.StoreOrder](ctx, c, "/store/orders/", nil)
}

// GetStorePolicy fetches the terms or privacy text.
func (c *Client) GetStorePolicy(ctx context.Context, kind string) (*models.StorePolicy, error) {
	var policy models.StorePolicy
	if err := c.get(ctx, fmt.Sprintf("/store/policies/%s/", kind), nil, &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}

// UpdateStorePolicy replaces the terms or privacy text.
func (c *Client) UpdateStorePolicy(ctx context.Context, kind, content string) (*models.StorePolicy, error) {
	var policy models.StorePolicy
	body := map[string]string{"content": content}
	if err := c.patch(ctx, fmt.Sprintf("/store/policies/%s/", kind), body, &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}

// ListDNSRecords fetches the custom-domain DNS records.
func (c *Client) ListDNSRecords(ctx context.Context) ([]models.DNSRecord, error) {
	return getList[models.DNSRecord](ctx, c, "/store/domain/records/", nil)
}
