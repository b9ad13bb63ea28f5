package reducers

import "multivendor-client/internal/models"

// State is the whole client state tree. Each field is owned by exactly one
// reducer below.
type State struct {
	Auth             models.Session
	Cart             models.CartState
	Products         models.ProductList
	Search           models.ProductList
	ProductDetail    models.ProductDetail
	Vendors          models.VendorState
	VendorCategories models.CategoryList
	Discussion       models.DiscussionState
	Orders           models.OrderList
	Notifications    models.Notifications
	Profile          models.Profile
	ImagePicker      models.ImageSelection
	WishList         models.WishList
	Layouts          models.Layouts

	VendorManageOrders     models.OrderList
	VendorManageProducts   models.VendorProducts
	VendorManageCategories models.CategorySelection
}

// Initial returns the state every slice starts from
func Initial() State {
	return State{
		Auth:                   InitialAuth(),
		Cart:                   InitialCart(),
		Products:               models.ProductList{},
		Search:                 models.ProductList{},
		ProductDetail:          InitialProductDetail(),
		Vendors:                models.VendorState{},
		VendorCategories:       models.CategoryList{},
		Discussion:             models.DiscussionState{},
		Orders:                 InitialOrders(),
		Notifications:          models.Notifications{},
		Profile:                InitialProfile(),
		ImagePicker:            models.ImageSelection{},
		WishList:               models.WishList{},
		Layouts:                models.Layouts{},
		VendorManageOrders:     InitialOrders(),
		VendorManageProducts:   InitialVendorProducts(),
		VendorManageCategories: models.CategorySelection{},
	}
}

// Root applies e to every slice
func Root(s State, e models.Event) State {
	return State{
		Auth:             Auth(s.Auth, e),
		Cart:             Cart(s.Cart, e),
		Products:         Products(s.Products, e),
		Search:           Search(s.Search, e),
		ProductDetail:    ProductDetail(s.ProductDetail, e),
		Vendors:          Vendors(s.Vendors, e),
		VendorCategories: VendorCategories(s.VendorCategories, e),
		Discussion:       Discussion(s.Discussion, e),
		Orders:           Orders(s.Orders, e),
		Notifications:    Notifications(s.Notifications, e),
		Profile:          Profile(s.Profile, e),
		ImagePicker:      ImagePicker(s.ImagePicker, e),
		WishList:         WishList(s.WishList, e),
		Layouts:          Layouts(s.Layouts, e),

		VendorManageOrders:     VendorManageOrders(s.VendorManageOrders, e),
		VendorManageProducts:   VendorManageProducts(s.VendorManageProducts, e),
		VendorManageCategories: VendorManageCategories(s.VendorManageCategories, e),
	}
}

// Durable returns the slices that survive a restart
func (s State) Durable() models.Snapshot {
	auth, cart, profile := s.Auth, s.Cart, s.Profile
	return models.Snapshot{
		Version: models.SnapshotVersion,
		Auth:    &auth,
		Cart:    &cart,
		Profile: &profile,
	}
}
