package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Infoya/FourSeasonsPOC/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostResultSetSendsContractPayload(t *testing.T) {
	var got models.ResultSetRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/resultSet", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(models.ResultSetResponse{Status: "success", ID: "rs-1"})
	}))
	defer srv.Close()

	g := NewBookingGateway(srv.URL, time.Second)
	resp, err := g.PostResultSet(context.Background(), models.ResultSetRequest{
		StartDate:   "2026-02-01",
		EndDate:     "2026-02-05",
		Destination: "Four Seasons Resort Maldives",
		Persons:     2,
		RoomType:    "villa",
		Price:       10000,
	})
	require.NoError(t, err)

	assert.Equal(t, "rs-1", resp.ID)
	assert.Equal(t, "Four Seasons Resort Maldives", got.Destination)
	assert.Equal(t, 2, got.Persons)
}

func TestBookingGatewayConnectionFailureIsTransport(t *testing.T) {
	g := NewBookingGateway("http://127.0.0.1:1", 200*time.Millisecond)

	_, err := g.PostResultSet(context.Background(), models.ResultSetRequest{})
	require.Error(t, err)
	assert.True(t, IsConnectionFailure(err))
}

func TestBookingGatewayNonOKStatusIsShaped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewBookingGateway(srv.URL, time.Second)
	_, err := g.PostAddOns(context.Background(), models.AddOnRequest{ResultSetID: "rs-1", SKUID: "SKU1"})
	require.Error(t, err)

	ge, ok := err.(*GatewayError)
	require.True(t, ok)
	assert.Equal(t, KindStatus, ge.Kind)
	assert.Equal(t, http.StatusBadGateway, ge.Status)
	assert.False(t, IsConnectionFailure(err))
}

func TestGetCartAndCheckoutPaths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cart/rs-1":
			json.NewEncoder(w).Encode(map[string]any{"items": []string{"villa"}})
		case "/checkout/rs-1":
			json.NewEncoder(w).Encode(models.CheckoutResponse{Status: "success", CheckoutURL: "https://pay.example/rs-1"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	g := NewBookingGateway(srv.URL, time.Second)

	cart, err := g.GetCart(context.Background(), "rs-1")
	require.NoError(t, err)
	assert.Contains(t, cart, "items")

	checkout, err := g.Checkout(context.Background(), "rs-1")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/rs-1", checkout.CheckoutURL)
}
