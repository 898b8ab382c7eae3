package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Infoya/FourSeasonsPOC/models"
	"github.com/Infoya/FourSeasonsPOC/utils"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const propertiesCacheKey = "catalog:properties"

// DefaultCatalogGateway implements CatalogGateway against the hotel
// content feeds. Property lists change rarely, so they are cached
// in-process with a TTL.
type DefaultCatalogGateway struct {
	FeedURL        string // product availability feeds (dining, experiences)
	ReservationURL string // property list and calendar availability
	Currency       string
	Client         *http.Client
	cache          *gocache.Cache
}

// NewCatalogGateway builds a catalog gateway with a bounded per-call
// timeout and a 30 minute property cache.
func NewCatalogGateway(feedURL, reservationURL, currency string, timeout time.Duration) *DefaultCatalogGateway {
	return &DefaultCatalogGateway{
		FeedURL:        feedURL,
		ReservationURL: reservationURL,
		Currency:       currency,
		Client:         &http.Client{Timeout: timeout},
		cache:          gocache.New(30*time.Minute, 10*time.Minute),
	}
}

func (g *DefaultCatalogGateway) getJSON(ctx context.Context, op, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
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

// FetchProperties returns the flattened property list, served from cache
// when fresh.
func (g *DefaultCatalogGateway) FetchProperties(ctx context.Context) ([]models.Property, error) {
	if cached, ok := g.cache.Get(propertiesCacheKey); ok {
		return cached.([]models.Property), nil
	}

	var feed models.PropertyFeed
	if err := g.getJSON(ctx, "properties", g.ReservationURL+"/content/en/properties", &feed); err != nil {
		return nil, err
	}

	var properties []models.Property
	for _, region := range feed.Regions {
		for _, prop := range region.Properties {
			properties = append(properties, models.Property{
				Name:    prop.Name,
				OWSCode: prop.OWSCode,
				Region:  region.Title,
			})
		}
	}

	g.cache.Set(propertiesCacheKey, properties, gocache.DefaultExpiration)
	utils.GetLogger().Debug("Refreshed property catalog", zap.Int("count", len(properties)))
	return properties, nil
}

// ResolveProperty finds a property by name or OWS code, case-insensitive.
// A partial name match is accepted so "Maldives" resolves the full
// property name.
func (g *DefaultCatalogGateway) ResolveProperty(ctx context.Context, nameOrCode string) (*models.Property, error) {
	properties, err := g.FetchProperties(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(nameOrCode))
	if needle == "" {
		return nil, fmt.Errorf("resolve property: empty name or code")
	}

	for i := range properties {
		if strings.EqualFold(properties[i].OWSCode, needle) || strings.EqualFold(properties[i].Name, needle) {
			return &properties[i], nil
		}
	}
	for i := range properties {
		if strings.Contains(strings.ToLower(properties[i].Name), needle) {
			return &properties[i], nil
		}
	}
	return nil, fmt.Errorf("resolve property: no property matches %q", nameOrCode)
}

func (g *DefaultCatalogGateway) fetchProducts(ctx context.Context, owsCode, categoryID string) (*models.ProductFeed, error) {
	q := url.Values{}
	q.Set("language", "en")
	q.Set("owsCode", owsCode)
	q.Set("categoryId", categoryID)
	q.Set("currencyCode", g.Currency)
	q.Set("sourceName", "Web - Shopping")
	q.Set("version", "4")

	var feed models.ProductFeed
	rawURL := g.FeedURL + "/product/availability?" + q.Encode()
	if err := g.getJSON(ctx, categoryID, rawURL, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// FetchDining returns the dining catalog for a property.
func (g *DefaultCatalogGateway) FetchDining(ctx context.Context, owsCode string) (*models.ProductFeed, error) {
	return g.fetchProducts(ctx, owsCode, "dining")
}

// FetchExperiences returns the local experiences catalog for a property.
func (g *DefaultCatalogGateway) FetchExperiences(ctx context.Context, owsCode string) (*models.ProductFeed, error) {
	return g.fetchProducts(ctx, owsCode, "experiences")
}

// CheckAvailability returns the parsed availability calendar for a
// property.
func (g *DefaultCatalogGateway) CheckAvailability(ctx context.Context, owsCode string) ([]models.AvailabilityEntry, error) {
	q := url.Values{}
	q.Set("propertySelection", "SINGLE")
	q.Set("hotelCityCode", owsCode)

	var feed models.CalendarFeed
	rawURL := g.ReservationURL + "/tretail/calendar/availability?" + q.Encode()
	if err := g.getJSON(ctx, "availability", rawURL, &feed); err != nil {
		return nil, err
	}

	var entries []models.AvailabilityEntry
	for _, result := range feed.CalendarResult {
		for _, cal := range result.Calendar {
			for _, avail := range cal.Availability {
				entries = append(entries, models.AvailabilityEntry{
					Date:         avail.Date,
					RoomTypeCode: cal.RoomTypeCode,
					RatePlanCode: cal.RatePlanCode,
				})
			}
		}
	}
	return entries, nil
}

// FetchGlobalSettings loads booking metadata at startup. The shape is
// backend-defined and only logged, so it is kept loose.
func (g *DefaultCatalogGateway) FetchGlobalSettings(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := g.getJSON(ctx, "globalsettings", g.ReservationURL+"/content/en/globalsettings", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchBookingFlow loads the booking flow metadata at startup.
func (g *DefaultCatalogGateway) FetchBookingFlow(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := g.getJSON(ctx, "bookingflow", g.ReservationURL+"/tretail/content/bookingflow", &out); err != nil {
		return nil, err
	}
	return out, nil
}
