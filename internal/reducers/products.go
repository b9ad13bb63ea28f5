package reducers

import (
	"sort"
	"strconv"

	"multivendor-client/internal/models"
)

func InitialProductDetail() models.ProductDetail {
	return models.ProductDetail{
		Fetching:       true,
		Amount:         1,
		QtyStep:        1,
		SelectedAmount: 1,
		Options:        []models.ProductOption{},
	}
}

// Products reduces the category/vendor product listing
func Products(state models.ProductList, e models.Event) models.ProductList {
	switch e.EventType {
	case models.EventTypeFetchProductsRequest:
		state.Fetching = true
		return state
	case models.EventTypeFetchProductsSuccess:
		if p, ok := e.Payload.(models.ProductList); ok {
			return pagedProducts(state, p)
		}
		return state
	case models.EventTypeFetchProductsFail:
		state.Fetching = false
		return state
	case models.EventTypeChangeProductsSort:
		if p, ok := e.Payload.(models.ProductSort); ok {
			state.SortBy = p.SortBy
			state.SortOrder = p.SortOrder
		}
		return state
	default:
		return state
	}
}

// Search reduces search results
func Search(state models.ProductList, e models.Event) models.ProductList {
	switch e.EventType {
	case models.EventTypeSearchProductsRequest:
		state.Fetching = true
		return state
	case models.EventTypeSearchProductsSuccess:
		if p, ok := e.Payload.(models.ProductList); ok {
			return pagedProducts(state, p)
		}
		return state
	case models.EventTypeSearchProductsFail:
		state.Fetching = false
		return state
	default:
		return state
	}
}

// pagedProducts replaces the items on the first page and appends after that
func pagedProducts(state models.ProductList, p models.ProductList) models.ProductList {
	var items []models.Product
	if p.Params.Page.Int() <= 1 {
		items = append([]models.Product{}, p.Items...)
	} else {
		items = make([]models.Product, 0, len(state.Items)+len(p.Items))
		items = append(items, state.Items...)
		items = append(items, p.Items...)
	}

	state.Items = items
	state.Params = p.Params
	state.Filters = p.Filters
	state.HasMore = len(items) < p.Params.TotalItems.Int()
	state.Fetching = false
	return state
}

// ProductDetail reduces the currently viewed product
func ProductDetail(state models.ProductDetail, e models.Event) models.ProductDetail {
	switch e.EventType {
	case models.EventTypeFetchOneProductRequest:
		state.Fetching = true
		state.Options = []models.ProductOption{}
		state.Amount = 1
		state.QtyStep = 1
		state.SelectedAmount = 1
		state.Product.ListDiscountPrc = 0
		state.Product.DiscountPrc = 0
		return state

	case models.EventTypeFetchOneProductSuccess:
		p, ok := e.Payload.(models.Product)
		if !ok {
			return state
		}
		return detailFrom(p)

	case models.EventTypeRecalculatePriceSuccess:
		p, ok := e.Payload.(models.Product)
		if !ok {
			return state
		}
		next := detailFrom(p)
		next.SelectedAmount = state.SelectedAmount
		return next

	case models.EventTypeFetchOneProductFail:
		state.Fetching = false
		return state

	case models.EventTypeChangeProductsAmount:
		if n, ok := e.Payload.(int); ok {
			state.SelectedAmount = n
		}
		return state

	default:
		return state
	}
}

func detailFrom(p models.Product) models.ProductDetail {
	step := p.QtyStep.Int()
	if step <= 0 {
		step = 1
	}
	amount := p.Amount.Int()
	if amount < 0 {
		amount = 0
	}
	return models.ProductDetail{
		Product:        p,
		Options:        sortedOptions(p.ProductOptions),
		QtyStep:        step,
		Amount:         amount,
		SelectedAmount: step,
		Fetching:       false,
	}
}

// sortedOptions orders options by numeric key, then lexically for the rest
func sortedOptions(opts models.Dict[models.ProductOption]) []models.ProductOption {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})

	out := make([]models.ProductOption, 0, len(keys))
	for _, k := range keys {
		out = append(out, opts[k])
	}
	return out
}
