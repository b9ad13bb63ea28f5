package actions

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"multivendor-client/internal/i18n"
	"multivendor-client/internal/models"
	"multivendor-client/internal/persist"
	"multivendor-client/internal/store"
	"multivendor-client/internal/util"
)

// InitApp restores the persisted state, makes sure the device has an id and
// loads the remote language variables over the bundled ones. Only a broken
// dispatch fails it; storage and translation problems are logged.
func (a *Actions) InitApp() store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "AppActions.Init")
		defer span.End()

		if a.snapshots != nil {
			snap, err := a.snapshots.Load(ctx)
			switch {
			case errors.Is(err, persist.ErrNotFound):
			case err != nil:
				a.logger.Warn("Ignoring persisted state", zap.Error(err))
			default:
				d.Dispatch(models.NewEvent(models.EventTypeRestoreState, snap))
			}
		}

		session := d.State().Auth
		if session.Token != "" {
			a.api.SetToken(session.Token)
		}
		if session.UUID == "" {
			d.Dispatch(models.NewEvent(models.EventTypeDeviceIDAssigned, uuid.NewString()))
		}

		a.loadTranslations(ctx)
		return nil
	}
}

func (a *Actions) loadTranslations(ctx context.Context) {
	query := url.Values{
		"name":      {"mobile_app.mobile_"},
		"lang_code": {a.tr.Lang()},
	}
	var resp i18n.Translations
	if err := a.api.Get(ctx, "/sra_translations/", query, &resp); err != nil {
		a.logger.Warn("Using bundled translations", zap.String("lang", a.tr.Lang()), zap.Error(err))
		return
	}
	a.tr.Merge(resp.Table())
}

// ShowNotification queues a message for the screens
func (a *Actions) ShowNotification(kind, title, text string, closeLastModal bool) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		a.notify(d, kind, title, a.tr.T(text), closeLastModal)
		return nil
	}
}

func (a *Actions) HideNotification(id string) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		d.Dispatch(models.NewEvent(models.EventTypeNotificationHide, id))
		return nil
	}
}

// PopNotification removes and returns the oldest queued notification. Pops
// are serialised so concurrent callers never receive the same notification.
func (a *Actions) PopNotification(d store.Dispatcher) (models.Notification, bool) {
	a.popMu.Lock()
	defer a.popMu.Unlock()

	items := d.State().Notifications.Items
	if len(items) == 0 {
		return models.Notification{}, false
	}
	n := items[0]
	d.Dispatch(models.NewEvent(models.EventTypeNotificationHide, n.ID))
	return n, true
}

// ToggleImages adds each uri to the picker selection, or removes it when it is
// already selected
func (a *Actions) ToggleImages(uris []string) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		d.Dispatch(models.NewEvent(models.EventTypeImagePickerToggle, append([]string{}, uris...)))
		return nil
	}
}

func (a *Actions) ClearImages() store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		d.Dispatch(models.NewEvent(models.EventTypeImagePickerClear, nil))
		return nil
	}
}

func (a *Actions) FetchWishList() store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "WishListActions.Fetch")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeWishListFetchRequest, nil))

		var list models.WishList
		if err := a.api.Get(ctx, "/sra_wish_list", nil, &list); err != nil {
			return a.fail(d, models.EventTypeWishListFetchFail, "WishListActions.Fetch", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeWishListFetchSuccess, list))
		return nil
	}
}

// AddToWishList saves products to the wish list and reloads it
func (a *Actions) AddToWishList(item CartItem) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "WishListActions.Add")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeWishListAddRequest, nil))

		if err := a.api.Post(ctx, "/sra_wish_list", item, nil); err != nil {
			return a.fail(d, models.EventTypeWishListAddFail, "WishListActions.Add", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeWishListAddSuccess, nil))
		a.notify(d, models.NotificationSuccess, "Wish list", a.tr.T("The product was added to your Wish list."), true)
		return d.Do(ctx, a.FetchWishList())
	}
}

func (a *Actions) RemoveFromWishList(cartID string) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "WishListActions.Remove")
		defer span.End()

		if err := a.api.Delete(ctx, fmt.Sprintf("/sra_wish_list/%s", url.PathEscape(cartID)), nil); err != nil {
			return a.fail(d, models.EventTypeWishListRemoveFail, "WishListActions.Remove", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeWishListRemove, models.WishListChange{CartID: cartID}))
		return nil
	}
}

func (a *Actions) ClearWishList() store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "WishListActions.Clear")
		defer span.End()

		if err := a.api.Delete(ctx, "/sra_wish_list/", nil); err != nil {
			return a.fail(d, models.EventTypeWishListRemoveFail, "WishListActions.Clear", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeWishListClear, nil))
		return nil
	}
}

// FetchLayouts loads the blocks of the home screen
func (a *Actions) FetchLayouts() store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "LayoutsActions.Fetch")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeLayoutsRequest, nil))

		query := url.Values{"location": {"index.index"}}
		var layouts models.Layouts
		if err := a.api.Get(ctx, "/sra_bm_layouts", query, &layouts); err != nil {
			return a.fail(d, models.EventTypeLayoutsFail, "LayoutsActions.Fetch", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeLayoutsSuccess, layouts.Blocks))
		return nil
	}
}
