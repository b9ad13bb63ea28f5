package actions

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"multivendor-client/internal/models"
	"multivendor-client/internal/store"
	"multivendor-client/internal/util"
)

// Discussion subject types
const (
	DiscussionProduct = "P"
	DiscussionVendor  = "M"
)

// DiscussionPost is the body of POST /sra_discussion
type DiscussionPost struct {
	ObjectType  string `json:"object_type"`
	ObjectID    int64  `json:"object_id"`
	Name        string `json:"name"`
	Message     string `json:"message"`
	RatingValue int    `json:"rating_value,omitempty"`
}

// FetchProduct loads the product detail and then its discussion, unless
// discussions are disabled for it
func (a *Actions) FetchProduct(pid int64) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "ProductsActions.Fetch")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeFetchOneProductRequest, nil))

		var product models.Product
		if err := a.api.Get(ctx, fmt.Sprintf("/sra_products/%d", pid), nil, &product); err != nil {
			return a.fail(d, models.EventTypeFetchOneProductFail, "ProductsActions.Fetch", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeFetchOneProductSuccess, product))

		if product.DiscussionType != models.DiscussionDisabled {
			if err := d.Do(ctx, a.FetchDiscussion(pid, 1, DiscussionProduct)); err != nil {
				a.logger.Debug("Product discussion unavailable", zap.Int64("product_id", pid), zap.Error(err))
			}
		}
		return nil
	}
}

// RecalculatePrice prices a product for the selected option variants
// (option id to variant id) and amount. A response to an older request for
// the same product is dropped.
func (a *Actions) RecalculatePrice(pid int64, amount int, selected map[string]int64) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "ProductsActions.RecalculatePrice")
		defer span.End()

		seq := d.Sequencer()
		key := store.ProductPriceKey(pid)
		tag := seq.Issue(key)

		d.Dispatch(models.NewEvent(models.EventTypeRecalculatePriceRequest, nil))

		query := url.Values{"amount": {strconv.Itoa(amount)}}
		for optionID, variantID := range selected {
			query.Set("selected_options["+optionID+"]", strconv.FormatInt(variantID, 10))
		}

		var product models.Product
		err := a.api.Get(ctx, fmt.Sprintf("/sra_products/%d/", pid), query, &product)
		if seq.Discard(key, tag) {
			return nil
		}
		if err != nil {
			return a.fail(d, models.EventTypeRecalculatePriceFail, "ProductsActions.RecalculatePrice", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeRecalculatePriceSuccess, product))
		return nil
	}
}

// Search queries products across vendors. Page size defaults to 50.
func (a *Actions) Search(params url.Values) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "ProductsActions.Search")
		defer span.End()

		query := url.Values{"items_per_page": {"50"}}
		for k, v := range params {
			query[k] = v
		}

		d.Dispatch(models.NewEvent(models.EventTypeSearchProductsRequest, nil))

		var list models.ProductList
		if err := a.api.Get(ctx, "/productvendors", query, &list); err != nil {
			return a.fail(d, models.EventTypeSearchProductsFail, "ProductsActions.Search", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeSearchProductsSuccess, list))
		return nil
	}
}

// FetchByCategory loads one page of a category, including subcategories.
// companyID narrows it to one vendor when non-zero.
func (a *Actions) FetchByCategory(categoryID int64, page int, companyID int64, extra url.Values) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "ProductsActions.FetchByCategory")
		defer span.End()

		if page < 1 {
			page = 1
		}
		query := url.Values{
			"page":           {strconv.Itoa(page)},
			"subcats":        {"Y"},
			"items_per_page": {"10"},
			"get_filters":    {"true"},
			"company_id":     {""},
		}
		if companyID != 0 {
			query.Set("company_id", strconv.FormatInt(companyID, 10))
		}
		for k, v := range extra {
			query[k] = v
		}

		d.Dispatch(models.NewEvent(models.EventTypeFetchProductsRequest, nil))

		var list models.ProductList
		if err := a.api.Get(ctx, fmt.Sprintf("/categories/%d/sra_products", categoryID), query, &list); err != nil {
			return a.fail(d, models.EventTypeFetchProductsFail, "ProductsActions.FetchByCategory", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeFetchProductsSuccess, list))
		return nil
	}
}

func (a *Actions) ChangeSort(sort models.ProductSort) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		d.Dispatch(models.NewEvent(models.EventTypeChangeProductsSort, sort))
		return nil
	}
}

// ChangeProductAmount sets the quantity chosen on the product screen
func (a *Actions) ChangeProductAmount(amount int) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		d.Dispatch(models.NewEvent(models.EventTypeChangeProductsAmount, amount))
		return nil
	}
}

// DiscussionID keys the thread of a subject, e.g. "p_12" or "m_3"
func DiscussionID(objectType string, id int64) string {
	return strings.ToLower(objectType) + "_" + strconv.FormatInt(id, 10)
}

func (a *Actions) FetchDiscussion(id int64, page int, objectType string) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "ProductsActions.FetchDiscussion")
		defer span.End()

		if page < 1 {
			page = 1
		}
		if objectType == "" {
			objectType = DiscussionProduct
		}

		d.Dispatch(models.NewEvent(models.EventTypeFetchDiscussionRequest, nil))

		query := url.Values{
			"object_type":  {objectType},
			"object_id":    {strconv.FormatInt(id, 10)},
			"params[page]": {strconv.Itoa(page)},
		}
		var resp models.DiscussionResponse
		if err := a.api.Get(ctx, "/sra_discussion/", query, &resp); err != nil {
			return a.fail(d, models.EventTypeFetchDiscussionFail, "ProductsActions.FetchDiscussion", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeFetchDiscussionSuccess, models.DiscussionPage{
			ID:         DiscussionID(objectType, id),
			Page:       page,
			Discussion: resp,
		}))
		return nil
	}
}

// PostDiscussion submits a review and reloads the first page of its thread
func (a *Actions) PostDiscussion(post DiscussionPost) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "ProductsActions.PostDiscussion")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypePostDiscussionRequest, nil))
		if err := a.api.Post(ctx, "/sra_discussion", post, nil); err != nil {
			return a.fail(d, models.EventTypePostDiscussionFail, "ProductsActions.PostDiscussion", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypePostDiscussionSuccess, nil))
		a.notify(d, models.NotificationSuccess, "Thank you for your post.",
			a.tr.T("Your post will be checked before it gets published."), false)

		return d.Do(ctx, a.FetchDiscussion(post.ObjectID, 1, post.ObjectType))
	}
}
