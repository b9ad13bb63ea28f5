package actions

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"multivendor-client/internal/apiclient"
	"multivendor-client/internal/models"
	"multivendor-client/internal/store"
	"multivendor-client/internal/util"
)

// VendorProductForm is the editable part of a vendor's product
type VendorProductForm struct {
	Product         string   `json:"product" validate:"required"`
	Price           float64  `json:"price" validate:"gte=0"`
	Amount          int      `json:"amount" validate:"gte=0"`
	FullDescription string   `json:"full_description,omitempty"`
	Status          string   `json:"status,omitempty"`
	CategoryIDs     []int64  `json:"category_ids,omitempty"`
	Images          []string `json:"images,omitempty"`
}

type vendorOrdersResponse struct {
	Orders []models.Order `json:"orders"`
}

type vendorOrderResponse struct {
	Order models.Order `json:"order"`
}

type vendorProductsResponse struct {
	Products []models.Product `json:"products"`
}

type productCreated struct {
	ProductID models.FlexInt `json:"product_id"`
}

// FetchVendorOrders loads the page after page of the vendor's orders. The
// list has more pages while pages come back non-empty.
func (a *Actions) FetchVendorOrders(page int) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "VendorManage.FetchOrders")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeVendorOrdersRequest, nil))
		next := page + 1

		var resp vendorOrdersResponse
		query := url.Values{"page": {strconv.Itoa(next)}}
		if err := a.api.Get(ctx, "/sra_vendor_orders", query, &resp); err != nil {
			return a.fail(d, models.EventTypeVendorOrdersFail, "VendorManage.FetchOrders", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeVendorOrdersSuccess, models.OrdersPage{
			Items:   resp.Orders,
			Page:    next,
			HasMore: len(resp.Orders) != 0,
		}))
		return nil
	}
}

func (a *Actions) FetchVendorOrder(id int64) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "VendorManage.FetchOrder")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeVendorOrderRequest, nil))

		var resp vendorOrderResponse
		err := a.api.Get(ctx, fmt.Sprintf("/sra_vendor_orders/%d", id), nil, &resp)
		switch {
		case err == nil && resp.Order.OrderID == 0:
			a.notify(d, models.NotificationInfo, "Information", a.tr.T("Order not found."), false)
			return a.fail(d, models.EventTypeVendorOrderFail, "VendorManage.FetchOrder", apiclient.NotFound("order"))
		case err != nil:
			a.notify(d, models.NotificationInfo, "Error", a.tr.T(errorText(err)), false)
			return a.fail(d, models.EventTypeVendorOrderFail, "VendorManage.FetchOrder", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeVendorOrderSuccess, resp.Order))
		return nil
	}
}

// UpdateOrderStatus moves a vendor order to a new status
func (a *Actions) UpdateOrderStatus(id int64, status string) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "VendorManage.UpdateStatus")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeVendorOrderStatusRequest, nil))

		body := map[string]string{"status": status}
		if err := a.api.Put(ctx, fmt.Sprintf("/sra_vendor_orders/%d", id), body, nil); err != nil {
			a.notify(d, models.NotificationInfo, "Error", a.tr.T(errorText(err)), false)
			return a.fail(d, models.EventTypeVendorOrderStatusFail, "VendorManage.UpdateStatus", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeVendorOrderStatusSuccess, models.OrderStatusChange{
			OrderID: id,
			Status:  status,
		}))
		a.notify(d, models.NotificationSuccess, "Success", a.tr.T("Status has been changed."), false)
		return nil
	}
}

// FetchVendorProducts loads the page after page of the vendor's products
func (a *Actions) FetchVendorProducts(page int) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "VendorManage.FetchProducts")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeVendorProductsRequest, nil))
		next := page + 1

		var resp vendorProductsResponse
		query := url.Values{"page": {strconv.Itoa(next)}}
		if err := a.api.Get(ctx, "/sra_vendor_products", query, &resp); err != nil {
			return a.fail(d, models.EventTypeVendorProductsFail, "VendorManage.FetchProducts", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeVendorProductsSuccess, models.ProductsPage{
			Items:   resp.Products,
			Page:    next,
			HasMore: len(resp.Products) != 0,
		}))
		return nil
	}
}

func (a *Actions) FetchVendorProduct(id int64) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "VendorManage.FetchProduct")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeVendorProductRequest, nil))

		var product models.Product
		err := a.api.Get(ctx, fmt.Sprintf("/sra_vendor_products/%d", id), nil, &product)
		if err == nil && product.ProductID == 0 {
			err = apiclient.NotFound("product")
		}
		if err != nil {
			return a.fail(d, models.EventTypeVendorProductFail, "VendorManage.FetchProduct", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeVendorProductSuccess, product))
		return nil
	}
}

// CreateVendorProduct creates a product with the images chosen in the picker
// and loads it as the current product
func (a *Actions) CreateVendorProduct(form VendorProductForm) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "VendorManage.CreateProduct")
		defer span.End()

		if picked := d.State().ImagePicker.Selected; len(picked) > 0 {
			form.Images = append(append([]string{}, form.Images...), picked...)
		}

		d.Dispatch(models.NewEvent(models.EventTypeVendorCreateProductRequest, nil))

		var created productCreated
		err := a.api.Post(ctx, "/sra_vendor_products", form, &created)
		if err == nil && created.ProductID == 0 {
			err = apiclient.Schema("product was not created", nil)
		}
		if err != nil {
			a.notify(d, models.NotificationWarning, "Error", errorText(err), false)
			return a.fail(d, models.EventTypeVendorCreateProductFail, "VendorManage.CreateProduct", err)
		}

		d.Dispatch(models.NewEvent(models.EventTypeVendorCreateProductSuccess, formProduct(created.ProductID, form)))
		d.Dispatch(models.NewEvent(models.EventTypeImagePickerClear, nil))
		a.notify(d, models.NotificationSuccess, "Success", a.tr.T("The product was created."), true)
		return nil
	}
}

func (a *Actions) UpdateVendorProduct(id int64, form VendorProductForm) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "VendorManage.UpdateProduct")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeVendorUpdateProductRequest, nil))

		if err := a.api.Put(ctx, fmt.Sprintf("/sra_vendor_products/%d", id), form, nil); err != nil {
			a.notify(d, models.NotificationWarning, "Error", errorText(err), false)
			return a.fail(d, models.EventTypeVendorUpdateProductFail, "VendorManage.UpdateProduct", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeVendorUpdateProductSuccess, formProduct(models.FlexInt(id), form)))
		a.notify(d, models.NotificationSuccess, "Success", a.tr.T("The product was updated."), false)
		return nil
	}
}

func (a *Actions) DeleteVendorProduct(id int) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "VendorManage.DeleteProduct")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeVendorDeleteProductRequest, nil))

		if err := a.api.Delete(ctx, fmt.Sprintf("/sra_vendor_products/%d", id), nil); err != nil {
			a.notify(d, models.NotificationWarning, "Error", errorText(err), false)
			return a.fail(d, models.EventTypeVendorDeleteProductFail, "VendorManage.DeleteProduct", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeVendorDeleteProductSuccess, id))
		a.notify(d, models.NotificationSuccess, "Success", a.tr.T("The product was deleted."), false)
		return nil
	}
}

// ChangeProductCategory sets the categories of the product being edited
func (a *Actions) ChangeProductCategory(categories []models.Category) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		d.Dispatch(models.NewEvent(models.EventTypeVendorChangeCategory, categories))
		return nil
	}
}

// FetchCategories loads the children of parent for the category picker; 0
// loads the top level
func (a *Actions) FetchCategories(parent int64) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "VendorManage.FetchCategories")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeVendorCategoriesListRequest, nil))

		query := url.Values{
			"parent_category_id": {strconv.FormatInt(parent, 10)},
			"items_per_page":     {"500"},
		}
		var resp categoriesResponse
		if err := a.api.Get(ctx, "/sra_categories/", query, &resp); err != nil {
			return a.fail(d, models.EventTypeVendorCategoriesListFail, "VendorManage.FetchCategories", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeVendorCategoriesListSuccess, resp.Categories))
		return nil
	}
}

func (a *Actions) ToggleCategory(c models.Category) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		d.Dispatch(models.NewEvent(models.EventTypeVendorCategoriesToggle, models.CategoryToggle{Category: c}))
		return nil
	}
}

func (a *Actions) ClearCategories() store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		d.Dispatch(models.NewEvent(models.EventTypeVendorCategoriesClear, nil))
		return nil
	}
}

func formProduct(id models.FlexInt, form VendorProductForm) models.Product {
	p := models.Product{
		ProductID:       id,
		Product:         form.Product,
		Price:           models.FlexFloat(form.Price),
		Amount:          models.FlexInt(form.Amount),
		FullDescription: form.FullDescription,
		Status:          form.Status,
	}
	for _, cid := range form.CategoryIDs {
		p.CategoryIDs = append(p.CategoryIDs, models.FlexInt(cid))
	}
	return p
}
