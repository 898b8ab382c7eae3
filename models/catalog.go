package models

// Property is one bookable hotel property from the content feed.
type Property struct {
	Name    string `json:"name"`
	OWSCode string `json:"owsCode"`
	Region  string `json:"region"`
}

// PropertyFeed mirrors the remote property list response.
type PropertyFeed struct {
	Regions []struct {
		Title      string `json:"title"`
		Properties []struct {
			Name    string `json:"name"`
			OWSCode string `json:"owsCode"`
		} `json:"properties"`
	} `json:"regions"`
}

// ProductPrice is one priced variant of a catalog product.
type ProductPrice struct {
	Subtitle string  `json:"subtitle"`
	Amount   float64 `json:"amount"`
	Type     string  `json:"type"`
}

// Product is a dining or experience item offered at a property.
type Product struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	SKU         string         `json:"sku"`
	Prices      []ProductPrice `json:"prices"`
}

// ProductFeed mirrors the dining/experiences availability feed response.
type ProductFeed struct {
	Categories []struct {
		Name     string    `json:"name"`
		Products []Product `json:"products"`
	} `json:"categories"`
}

// AvailabilityEntry is one available date parsed from the calendar feed.
type AvailabilityEntry struct {
	Date         string `json:"date"`
	RoomTypeCode string `json:"roomTypeCode"`
	RatePlanCode string `json:"ratePlanCode"`
}

// CalendarFeed mirrors the reservation calendar response.
type CalendarFeed struct {
	CalendarResult []struct {
		Calendar []struct {
			RoomTypeCode string `json:"roomTypeCode"`
			RatePlanCode string `json:"ratePlanCode"`
			Availability []struct {
				Date string `json:"date"`
			} `json:"availability"`
		} `json:"calendar"`
	} `json:"calendarResult"`
}
