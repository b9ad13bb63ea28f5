package reducers

import (
	"maps"

	"multivendor-client/internal/models"
)

func Vendors(state models.VendorState, e models.Event) models.VendorState {
	switch e.EventType {
	case models.EventTypeFetchVendorRequest:
		state.Fetching = true
		return state
	case models.EventTypeFetchVendorSuccess:
		v, ok := e.Payload.(models.Vendor)
		if !ok {
			return state
		}
		items := maps.Clone(state.Items)
		if items == nil {
			items = map[string]models.Vendor{}
		}
		id := v.CompanyID.String()
		items[id] = v
		state.Items = items
		state.CurrentID = id
		state.Fetching = false
		return state
	case models.EventTypeFetchVendorFail:
		state.Fetching = false
		return state
	default:
		return state
	}
}

func VendorCategories(state models.CategoryList, e models.Event) models.CategoryList {
	switch e.EventType {
	case models.EventTypeVendorCategoriesRequest:
		state.Fetching = true
		return state
	case models.EventTypeVendorCategoriesSuccess:
		if items, ok := e.Payload.([]models.Category); ok {
			state.Items = items
		}
		state.Fetching = false
		return state
	case models.EventTypeVendorCategoriesFail:
		state.Fetching = false
		return state
	default:
		return state
	}
}

// Discussion reduces paged threads keyed by subject
func Discussion(state models.DiscussionState, e models.Event) models.DiscussionState {
	switch e.EventType {
	case models.EventTypeFetchDiscussionRequest:
		state.Fetching = true
		return state

	case models.EventTypeFetchDiscussionSuccess:
		p, ok := e.Payload.(models.DiscussionPage)
		if !ok {
			return state
		}
		thread := state.Items[p.ID]

		var posts []models.Post
		if p.Page <= 1 {
			posts = append([]models.Post{}, p.Discussion.Posts...)
		} else {
			posts = make([]models.Post, 0, len(thread.Posts)+len(p.Discussion.Posts))
			posts = append(posts, thread.Posts...)
			posts = append(posts, p.Discussion.Posts...)
		}

		thread.Posts = posts
		thread.Page = p.Page
		thread.AverageRating = p.Discussion.AverageRating
		thread.TotalItems = p.Discussion.Search.TotalItems.Int()
		thread.HasMore = thread.TotalItems > len(posts)
		thread.Disabled = p.Discussion.Disabled

		items := maps.Clone(state.Items)
		if items == nil {
			items = map[string]models.Thread{}
		}
		items[p.ID] = thread
		state.Items = items
		state.Fetching = false
		return state

	case models.EventTypeFetchDiscussionFail:
		state.Fetching = false
		return state

	default:
		return state
	}
}
