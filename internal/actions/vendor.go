package actions

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"multivendor-client/internal/models"
	"multivendor-client/internal/store"
	"multivendor-client/internal/util"
)

type categoriesResponse struct {
	Categories []models.Category `json:"categories"`
}

// FetchVendor loads a vendor storefront and the given page of its reviews
func (a *Actions) FetchVendor(id int64, objectType string, page int) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "VendorActions.Fetch")
		defer span.End()

		if objectType == "" {
			objectType = DiscussionVendor
		}

		d.Dispatch(models.NewEvent(models.EventTypeFetchVendorRequest, nil))

		var vendor models.Vendor
		if err := a.api.Get(ctx, fmt.Sprintf("/sra_vendors/%d/", id), nil, &vendor); err != nil {
			return a.fail(d, models.EventTypeFetchVendorFail, "VendorActions.Fetch", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeFetchVendorSuccess, vendor))

		if vendor.DiscussionType != models.DiscussionDisabled {
			if err := d.Do(ctx, a.FetchDiscussion(id, page, objectType)); err != nil {
				a.logger.Debug("Vendor discussion unavailable", zap.Int64("company_id", id), zap.Error(err))
			}
		}
		return nil
	}
}

// VendorCategories loads the categories a vendor sells in
func (a *Actions) VendorCategories(companyID int64) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "VendorActions.Categories")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeVendorCategoriesRequest, nil))

		query := url.Values{
			"company_ids":    {strconv.FormatInt(companyID, 10)},
			"items_per_page": {"500"},
		}
		var resp categoriesResponse
		if err := a.api.Get(ctx, "/sra_categories/", query, &resp); err != nil {
			return a.fail(d, models.EventTypeVendorCategoriesFail, "VendorActions.Categories", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeVendorCategoriesSuccess, resp.Categories))
		return nil
	}
}

// VendorProducts loads one page of a vendor's products into the product list.
// The list is keyed by the vendor, so its category id is the company id.
func (a *Actions) VendorProducts(companyID int64, page int, sort models.ProductSort) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "VendorActions.Products")
		defer span.End()

		if page < 1 {
			page = 1
		}
		query := url.Values{
			"page":        {strconv.Itoa(page)},
			"company_id":  {strconv.FormatInt(companyID, 10)},
			"get_filters": {"true"},
		}
		if sort.SortBy != "" {
			query.Set("sort_by", sort.SortBy)
		}
		if sort.SortOrder != "" {
			query.Set("sort_order", sort.SortOrder)
		}

		d.Dispatch(models.NewEvent(models.EventTypeFetchProductsRequest, nil))

		var list models.ProductList
		if err := a.api.Get(ctx, "/sra_products", query, &list); err != nil {
			return a.fail(d, models.EventTypeFetchProductsFail, "VendorActions.Products", err)
		}
		list.Params.CategoryID = list.Params.CompanyID
		d.Dispatch(models.NewEvent(models.EventTypeFetchProductsSuccess, list))
		return nil
	}
}
