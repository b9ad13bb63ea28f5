package reducers

import (
	"maps"

	"multivendor-client/internal/models"
)

// Notifications keeps the queue in arrival order
func Notifications(state models.Notifications, e models.Event) models.Notifications {
	switch e.EventType {
	case models.EventTypeNotificationShow:
		n, ok := e.Payload.(models.Notification)
		if !ok {
			return state
		}
		items := make([]models.Notification, 0, len(state.Items)+1)
		items = append(items, state.Items...)
		state.Items = append(items, n)
		return state

	case models.EventTypeNotificationHide:
		id, ok := e.Payload.(string)
		if !ok {
			return state
		}
		items := make([]models.Notification, 0, len(state.Items))
		for _, n := range state.Items {
			if n.ID != id {
				items = append(items, n)
			}
		}
		state.Items = items
		return state

	default:
		return state
	}
}

func InitialProfile() models.Profile {
	return models.Profile{}
}

func Profile(state models.Profile, e models.Event) models.Profile {
	switch e.EventType {
	case models.EventTypeFetchProfileRequest,
		models.EventTypeFetchProfileFieldsReq,
		models.EventTypeUpdateProfileRequest:
		state.Fetching = true
		return state

	case models.EventTypeFetchProfileSuccess, models.EventTypeFetchProfileFieldsOK:
		p, ok := e.Payload.(models.Profile)
		if !ok {
			return state
		}
		p.Fetching = false
		return p

	case models.EventTypeFetchProfileFail,
		models.EventTypeFetchProfileFieldsFail,
		models.EventTypeUpdateProfileSuccess,
		models.EventTypeUpdateProfileFail:
		state.Fetching = false
		return state

	case models.EventTypeAuthLogout:
		return InitialProfile()

	case models.EventTypeRestoreState:
		if snap, ok := e.Payload.(models.Snapshot); ok && snap.Profile != nil {
			restored := *snap.Profile
			restored.Fetching = false
			return restored
		}
		return state

	default:
		return state
	}
}

// ImagePicker toggles each URI in the payload in or out of the selection
func ImagePicker(state models.ImageSelection, e models.Event) models.ImageSelection {
	switch e.EventType {
	case models.EventTypeImagePickerToggle:
		uris, ok := e.Payload.([]string)
		if !ok {
			return state
		}
		selected := append([]string{}, state.Selected...)
		for _, uri := range uris {
			idx := -1
			for i, s := range selected {
				if s == uri {
					idx = i
					break
				}
			}
			if idx >= 0 {
				selected = append(selected[:idx], selected[idx+1:]...)
			} else {
				selected = append(selected, uri)
			}
		}
		state.Selected = selected
		return state

	case models.EventTypeImagePickerClear:
		return models.ImageSelection{}

	default:
		return state
	}
}

func WishList(state models.WishList, e models.Event) models.WishList {
	switch e.EventType {
	case models.EventTypeWishListFetchRequest, models.EventTypeWishListAddRequest:
		state.Fetching = true
		return state

	case models.EventTypeWishListFetchSuccess:
		if p, ok := e.Payload.(models.WishList); ok {
			state.Products = p.Products
		}
		state.Fetching = false
		return state

	case models.EventTypeWishListFetchFail,
		models.EventTypeWishListAddSuccess,
		models.EventTypeWishListAddFail,
		models.EventTypeWishListRemoveFail:
		state.Fetching = false
		return state

	case models.EventTypeWishListRemove:
		p, ok := e.Payload.(models.WishListChange)
		if !ok {
			return state
		}
		if _, found := state.Products[p.CartID]; !found {
			return state
		}
		products := maps.Clone(state.Products)
		delete(products, p.CartID)
		state.Products = products
		return state

	case models.EventTypeWishListClear, models.EventTypeAuthLogout:
		return models.WishList{}

	default:
		return state
	}
}

func Layouts(state models.Layouts, e models.Event) models.Layouts {
	switch e.EventType {
	case models.EventTypeLayoutsRequest:
		state.Fetching = true
		return state
	case models.EventTypeLayoutsSuccess:
		if blocks, ok := e.Payload.([]models.LayoutBlock); ok {
			state.Blocks = blocks
		}
		state.Fetching = false
		return state
	case models.EventTypeLayoutsFail:
		state.Fetching = false
		return state
	default:
		return state
	}
}
