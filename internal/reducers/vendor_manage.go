package reducers

import "multivendor-client/internal/models"

func InitialVendorProducts() models.VendorProducts {
	return models.VendorProducts{
		Items:          []models.Product{},
		Loading:        true,
		HasMore:        true,
		LoadingCurrent: true,
	}
}

func VendorManageProducts(state models.VendorProducts, e models.Event) models.VendorProducts {
	switch e.EventType {
	case models.EventTypeVendorProductsRequest:
		state.Loading = true
		return state

	case models.EventTypeVendorProductsSuccess:
		p, ok := e.Payload.(models.ProductsPage)
		if !ok {
			return state
		}
		if p.Page <= 1 {
			state.Items = append([]models.Product{}, p.Items...)
		} else {
			items := make([]models.Product, 0, len(state.Items)+len(p.Items))
			items = append(items, state.Items...)
			state.Items = append(items, p.Items...)
		}
		state.Page = p.Page
		state.HasMore = p.HasMore
		state.Loading = false
		return state

	case models.EventTypeVendorProductsFail:
		state.Loading = false
		return state

	case models.EventTypeVendorProductRequest:
		state.LoadingCurrent = true
		return state

	case models.EventTypeVendorProductSuccess, models.EventTypeVendorCreateProductSuccess:
		if p, ok := e.Payload.(models.Product); ok {
			state.Current = p
		}
		state.LoadingCurrent = false
		return state

	case models.EventTypeVendorUpdateProductSuccess:
		p, ok := e.Payload.(models.Product)
		if !ok {
			return state
		}
		state.Current = p
		items := append([]models.Product{}, state.Items...)
		for i := range items {
			if items[i].ProductID == p.ProductID {
				items[i] = p
			}
		}
		state.Items = items
		return state

	case models.EventTypeVendorDeleteProductSuccess:
		id, ok := e.Payload.(int)
		if !ok {
			return state
		}
		items := make([]models.Product, 0, len(state.Items))
		for _, it := range state.Items {
			if it.ProductID.Int() != id {
				items = append(items, it)
			}
		}
		state.Items = items
		if state.Current.ProductID.Int() == id {
			state.Current = models.Product{}
		}
		return state

	case models.EventTypeVendorProductFail:
		state.LoadingCurrent = false
		return state

	case models.EventTypeVendorChangeCategory:
		cats, ok := e.Payload.([]models.Category)
		if !ok {
			return state
		}
		ids := make([]models.FlexInt, 0, len(cats))
		for _, c := range cats {
			ids = append(ids, c.CategoryID)
		}
		state.Current.CategoryIDs = ids
		return state

	case models.EventTypeAuthLogout:
		return InitialVendorProducts()

	default:
		return state
	}
}

// VendorManageCategories holds the category picker used while editing a product
func VendorManageCategories(state models.CategorySelection, e models.Event) models.CategorySelection {
	switch e.EventType {
	case models.EventTypeVendorCategoriesListRequest:
		state.Loading = true
		return state

	case models.EventTypeVendorCategoriesListSuccess:
		if cats, ok := e.Payload.([]models.Category); ok {
			state.Items = cats
		}
		state.Loading = false
		return state

	case models.EventTypeVendorCategoriesListFail:
		state.Loading = false
		return state

	case models.EventTypeVendorCategoriesToggle:
		p, ok := e.Payload.(models.CategoryToggle)
		if !ok {
			return state
		}
		selected := make([]models.Category, 0, len(state.Selected)+1)
		found := false
		for _, c := range state.Selected {
			if c.CategoryID == p.Category.CategoryID {
				found = true
				continue
			}
			selected = append(selected, c)
		}
		if !found {
			selected = append(selected, p.Category)
		}
		state.Selected = selected
		return state

	case models.EventTypeVendorCategoriesClear:
		state.Selected = nil
		return state

	default:
		return state
	}
}
