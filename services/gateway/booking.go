package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Infoya/FourSeasonsPOC/models"
	"github.com/Infoya/FourSeasonsPOC/utils"

	"go.uber.org/zap"
)

// DefaultBookingGateway implements BookingGateway against the booking
// backend's JSON-over-HTTP API.
type DefaultBookingGateway struct {
	BaseURL string
	Client  *http.Client
}

// NewBookingGateway builds a gateway with a bounded per-call timeout.
func NewBookingGateway(baseURL string, timeout time.Duration) *DefaultBookingGateway {
	return &DefaultBookingGateway{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (g *DefaultBookingGateway) postJSON(ctx context.Context, op, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: marshal payload: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return newTransportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(op, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newDecodeError(op, err)
	}
	return nil
}

func (g *DefaultBookingGateway) getJSON(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return newTransportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(op, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newDecodeError(op, err)
	}
	return nil
}

// PostResultSet creates a new result set (booking in progress).
func (g *DefaultBookingGateway) PostResultSet(ctx context.Context, req models.ResultSetRequest) (*models.ResultSetResponse, error) {
	logger := utils.GetLogger()
	var out models.ResultSetResponse
	if err := g.postJSON(ctx, "resultSet", "/resultSet", req, &out); err != nil {
		return nil, err
	}
	logger.Info("Created result set", zap.String("id", out.ID), zap.String("destination", req.Destination))
	return &out, nil
}

// PostAddOns attaches an add-on to an existing result set.
func (g *DefaultBookingGateway) PostAddOns(ctx context.Context, req models.AddOnRequest) (*models.AddOnResponse, error) {
	var out models.AddOnResponse
	if err := g.postJSON(ctx, "addOns", "/addOns", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCart fetches the current contents of a result set.
func (g *DefaultBookingGateway) GetCart(ctx context.Context, resultSetID string) (models.Cart, error) {
	var out models.Cart
	if err := g.getJSON(ctx, "cart", "/cart/"+resultSetID, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Checkout requests the payment handoff for a result set.
func (g *DefaultBookingGateway) Checkout(ctx context.Context, resultSetID string) (*models.CheckoutResponse, error) {
	var out models.CheckoutResponse
	if err := g.getJSON(ctx, "checkout", "/checkout/"+resultSetID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
