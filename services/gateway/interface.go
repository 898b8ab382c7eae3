package gateway

import (
	"context"

	"github.com/Infoya/FourSeasonsPOC/models"
)

// BookingGateway wraps the booking backend's four operations.
type BookingGateway interface {
	PostResultSet(ctx context.Context, req models.ResultSetRequest) (*models.ResultSetResponse, error)
	PostAddOns(ctx context.Context, req models.AddOnRequest) (*models.AddOnResponse, error)
	GetCart(ctx context.Context, resultSetID string) (models.Cart, error)
	Checkout(ctx context.Context, resultSetID string) (*models.CheckoutResponse, error)
}

// CatalogGateway wraps the read-only hotel content feeds.
type CatalogGateway interface {
	FetchProperties(ctx context.Context) ([]models.Property, error)
	ResolveProperty(ctx context.Context, nameOrCode string) (*models.Property, error)
	FetchDining(ctx context.Context, owsCode string) (*models.ProductFeed, error)
	FetchExperiences(ctx context.Context, owsCode string) (*models.ProductFeed, error)
	CheckAvailability(ctx context.Context, owsCode string) ([]models.AvailabilityEntry, error)
}
