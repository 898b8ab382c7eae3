package models

// ResultSetRequest is the payload for creating a result set (a booking in
// progress) on the booking backend.
type ResultSetRequest struct {
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Destination string  `json:"destination"`
	Persons     int     `json:"persons"`
	RoomType    string  `json:"room_type"`
	Price       float64 `json:"price"`
}

// ResultSetResponse is the backend's reply to a result set creation.
type ResultSetResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// AddOnRequest attaches a purchasable add-on to an existing result set.
type AddOnRequest struct {
	ResultSetID    string  `json:"result_set_id"`
	SKUID          string  `json:"sku_id"`
	Price          float64 `json:"price"`
	ProductDetails string  `json:"product_details"`
}

// AddOnResponse is the backend's reply to an add-on request.
type AddOnResponse struct {
	Status string `json:"status"`
}

// Cart holds the backend's view of a result set's contents. The shape is
// backend-defined, so it is kept as a loose document.
type Cart map[string]any

// CheckoutResponse carries the payment handoff for a result set.
type CheckoutResponse struct {
	Status      string `json:"status"`
	CheckoutURL string `json:"checkout_url"`
}
