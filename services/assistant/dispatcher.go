package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/Infoya/FourSeasonsPOC/models"
	"github.com/Infoya/FourSeasonsPOC/services/gateway"
	"github.com/Infoya/FourSeasonsPOC/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Values that look like an OWS property code rather than a property name.
var propertyCodePattern = regexp.MustCompile(`^[A-Z]{3,6}\d*$`)

// Dispatcher executes the tool calls requested by the assistant runtime.
// Every branch recovers failures into a structured output so a single
// failing call never starves the rest of its batch: the runtime requires
// one output per call before it can proceed.
type Dispatcher struct {
	Booking gateway.BookingGateway
	Catalog gateway.CatalogGateway

	// DemoFallback turns a connection failure on booking creation into a
	// synthetic success with a mock identifier. Opt-in: mixing mock and
	// real bookings silently is a correctness risk.
	DemoFallback bool

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (d *Dispatcher) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// DispatchBatch answers every tool call in a requires_action batch, in
// order. Calls are handled sequentially so the identifier guard observes
// a booking creation before any dependent call is reconciled.
func (d *Dispatcher) DispatchBatch(ctx context.Context, calls []ToolCall, turn *TurnContext) []ToolOutput {
	outputs := make([]ToolOutput, 0, len(calls))
	for _, call := range calls {
		outputs = append(outputs, d.Dispatch(ctx, call, turn))
	}
	return outputs
}

// Dispatch executes one tool call and always returns a structured output.
func (d *Dispatcher) Dispatch(ctx context.Context, call ToolCall, turn *TurnContext) ToolOutput {
	logger := utils.GetLogger()
	logger.Debug("Dispatching tool call", zap.String("name", call.Name), zap.String("callId", call.ID))

	var payload any
	switch call.Name {
	case "get_properties":
		payload = d.listProperties(ctx)
	case "check_availability":
		payload = d.checkAvailability(ctx, call.Arguments)
	case "create_booking":
		payload = d.createBooking(ctx, call.Arguments, turn)
	case "add_addon":
		payload = d.addAddOn(ctx, call.Arguments, turn)
	case "get_cart":
		payload = d.getCart(ctx, call.Arguments, turn)
	case "checkout":
		payload = d.checkout(ctx, call.Arguments, turn)
	case "get_dining_options":
		payload = d.getProducts(ctx, call.Arguments, "dining")
	case "get_experience_options":
		payload = d.getProducts(ctx, call.Arguments, "experiences")
	default:
		payload = errorPayload(fmt.Sprintf("unsupported operation %q", call.Name))
	}

	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal tool output", zap.String("name", call.Name), zap.Error(err))
		data = []byte(`{"status":"error","error":"failed to encode tool output"}`)
	}
	return ToolOutput{ToolCallID: call.ID, Output: string(data)}
}

func errorPayload(msg string) map[string]any {
	return map[string]any{"status": "error", "error": msg}
}

func unavailablePayload(msg string) map[string]any {
	return map[string]any{"status": "Unavailable", "error": msg}
}

// validateDateRange enforces that the stay starts today or later and ends
// strictly after it starts. The returned payload names the invalid date
// and the earliest acceptable value so the runtime can self-correct.
func (d *Dispatcher) validateDateRange(startDate, endDate string) map[string]any {
	// Today is the calendar day in the clock's own zone. Truncating the
	// instant would shift the date across midnight for non-UTC clocks.
	y, m, day := d.now().Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)

	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return map[string]any{
			"status":              "error",
			"error":               fmt.Sprintf("invalid start_date %q, expected YYYY-MM-DD", startDate),
			"earliest_valid_date": today.Format(dateLayout),
		}
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return map[string]any{
			"status":              "error",
			"error":               fmt.Sprintf("invalid end_date %q, expected YYYY-MM-DD", endDate),
			"earliest_valid_date": start.AddDate(0, 0, 1).Format(dateLayout),
		}
	}

	if start.Before(today) {
		return map[string]any{
			"status":              "error",
			"error":               fmt.Sprintf("start_date %s is in the past", startDate),
			"earliest_valid_date": today.Format(dateLayout),
		}
	}
	if !end.After(start) {
		return map[string]any{
			"status":              "error",
			"error":               fmt.Sprintf("end_date %s must be after start_date %s", endDate, startDate),
			"earliest_valid_date": start.AddDate(0, 0, 1).Format(dateLayout),
		}
	}
	return nil
}

func (d *Dispatcher) listProperties(ctx context.Context) any {
	properties, err := d.Catalog.FetchProperties(ctx)
	if err != nil {
		return errorPayload("could not load property list: " + err.Error())
	}
	return map[string]any{"status": "success", "properties": properties}
}

type availabilityArgs struct {
	PropertyCode string `json:"property_code"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

func (d *Dispatcher) checkAvailability(ctx context.Context, rawArgs string) any {
	var args availabilityArgs
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return errorPayload("invalid check_availability arguments: " + err.Error())
	}
	if args.PropertyCode == "" {
		return errorPayload("check_availability requires property_code")
	}
	if invalid := d.validateDateRange(args.StartDate, args.EndDate); invalid != nil {
		return invalid
	}

	entries, err := d.Catalog.CheckAvailability(ctx, args.PropertyCode)
	if err != nil {
		return unavailablePayload("availability check failed: " + err.Error())
	}
	return map[string]any{"status": "success", "available_dates": entries}
}

type createBookingArgs struct {
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	PropertyName string  `json:"property_name"`
	Destination  string  `json:"destination"`
	Guests       int     `json:"guests"`
	RoomType     string  `json:"room_type"`
	Price        float64 `json:"price"`
}

func (d *Dispatcher) createBooking(ctx context.Context, rawArgs string, turn *TurnContext) any {
	logger := utils.GetLogger()

	var args createBookingArgs
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return errorPayload("invalid create_booking arguments: " + err.Error())
	}
	if invalid := d.validateDateRange(args.StartDate, args.EndDate); invalid != nil {
		return invalid
	}

	destination := args.PropertyName
	if destination == "" {
		destination = args.Destination
	}
	if destination == "" {
		return errorPayload("create_booking requires property_name or destination")
	}

	// The runtime sometimes hands back an OWS code where a property name
	// belongs; resolve it against the catalog instead of rejecting.
	if propertyCodePattern.MatchString(destination) {
		if prop, err := d.Catalog.ResolveProperty(ctx, destination); err == nil {
			logger.Debug("Substituted property code with name",
				zap.String("code", destination), zap.String("name", prop.Name))
			destination = prop.Name
		}
	}

	guests := args.Guests
	if guests <= 0 {
		guests = 1
	}
	price := args.Price
	if price <= 0 {
		price = 10000.0
	}

	resp, err := d.Booking.PostResultSet(ctx, models.ResultSetRequest{
		StartDate:   args.StartDate,
		EndDate:     args.EndDate,
		Destination: destination,
		Persons:     guests,
		RoomType:    args.RoomType,
		Price:       price,
	})
	if err != nil {
		if d.DemoFallback && gateway.IsConnectionFailure(err) {
			mockID := "demo-" + uuid.New().String()
			turn.ObserveBookingCreated(mockID)
			logger.Warn("Booking backend unreachable, issuing mock result set",
				zap.String("id", mockID), zap.Error(err))
			return map[string]any{
				"status": "success",
				"id":     mockID,
				"note":   "demo mode: booking backend unreachable, this is a mock result set",
			}
		}
		return errorPayload("booking creation failed: " + err.Error())
	}

	turn.ObserveBookingCreated(resp.ID)
	return map[string]any{"status": resp.Status, "id": resp.ID, "destination": destination}
}

type addAddOnArgs struct {
	ResultSetID    string  `json:"result_set_id"`
	SKUID          string  `json:"sku_id"`
	Price          float64 `json:"price"`
	ProductDetails string  `json:"product_details"`
}

func (d *Dispatcher) addAddOn(ctx context.Context, rawArgs string, turn *TurnContext) any {
	var args addAddOnArgs
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return errorPayload("invalid add_addon arguments: " + err.Error())
	}
	if args.SKUID == "" {
		return errorPayload("add_addon requires sku_id")
	}

	resultSetID := turn.ReconcileResultSetID(args.ResultSetID)
	if resultSetID == "" {
		return errorPayload("add_addon requires result_set_id; no booking exists yet")
	}

	resp, err := d.Booking.PostAddOns(ctx, models.AddOnRequest{
		ResultSetID:    resultSetID,
		SKUID:          args.SKUID,
		Price:          args.Price,
		ProductDetails: args.ProductDetails,
	})
	if err != nil {
		return errorPayload("add-on failed: " + err.Error())
	}

	out := map[string]any{"status": resp.Status, "result_set_id": resultSetID}

	// Re-fetch the cart eagerly so the runtime can present updated cart
	// state without another round trip.
	if cart, err := d.Booking.GetCart(ctx, resultSetID); err == nil {
		out["cart"] = cart
	} else {
		utils.GetLogger().Warn("Cart refresh after add-on failed", zap.Error(err))
	}
	return out
}

type resultSetArgs struct {
	ResultSetID string `json:"result_set_id"`
}

func (d *Dispatcher) getCart(ctx context.Context, rawArgs string, turn *TurnContext) any {
	var args resultSetArgs
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return errorPayload("invalid get_cart arguments: " + err.Error())
	}

	resultSetID := turn.ReconcileResultSetID(args.ResultSetID)
	if resultSetID == "" {
		return errorPayload("get_cart requires result_set_id; no booking exists yet")
	}

	cart, err := d.Booking.GetCart(ctx, resultSetID)
	if err != nil {
		return errorPayload("cart fetch failed: " + err.Error())
	}
	return map[string]any{"status": "success", "result_set_id": resultSetID, "cart": cart}
}

func (d *Dispatcher) checkout(ctx context.Context, rawArgs string, turn *TurnContext) any {
	var args resultSetArgs
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return errorPayload("invalid checkout arguments: " + err.Error())
	}

	resultSetID := turn.ReconcileResultSetID(args.ResultSetID)
	if resultSetID == "" {
		return errorPayload("checkout requires result_set_id; no booking exists yet")
	}

	resp, err := d.Booking.Checkout(ctx, resultSetID)
	if err != nil {
		return errorPayload("checkout failed: " + err.Error())
	}
	return map[string]any{
		"status":        resp.Status,
		"result_set_id": resultSetID,
		"checkout_url":  resp.CheckoutURL,
	}
}

type propertyArgs struct {
	PropertyCode string `json:"property_code"`
}

func (d *Dispatcher) getProducts(ctx context.Context, rawArgs string, category string) any {
	var args propertyArgs
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return errorPayload("invalid arguments: " + err.Error())
	}
	if args.PropertyCode == "" {
		return errorPayload("property_code is required")
	}

	var feed *models.ProductFeed
	var err error
	if category == "dining" {
		feed, err = d.Catalog.FetchDining(ctx, args.PropertyCode)
	} else {
		feed, err = d.Catalog.FetchExperiences(ctx, args.PropertyCode)
	}
	if err != nil {
		return unavailablePayload(category + " feed failed: " + err.Error())
	}
	return map[string]any{"status": "success", "category": category, "catalog": feed}
}
