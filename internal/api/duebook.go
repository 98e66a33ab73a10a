package api

import (
	"context"
	"net/url"

	"github.com/oxmanage/console/internal/models"
)

// ListDueCustomers fetches the due-book. The date filter mode is a backend
// concept; the client passes it through unchanged.
func (c *Client) ListDueCustomers(ctx context.Context, filters models.DueBookFilters) ([]models.DueCustomer, error) {
	query := url.Values{}
	if filters.Search != "" {
		query.Set("search", filters.Search)
	}
	if filters.DateFilterType != "" && filters.DateFilterType != models.DueFilterAll {
		query.Set("date_filter_type", filters.DateFilterType)
	}
	if filters.DateFilterType == models.DueFilterCustom && filters.CustomDate != "" {
		query.Set("custom_date", filters.CustomDate)
	}

	if len(query) == 0 {
		query = nil
	}

	return getList[models.DueCustomer](ctx, c, "/duebook/customers/", query)
}
