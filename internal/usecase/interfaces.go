package usecase

import (
	"context"

	"github.com/xavierca1/leadgrid/internal/infra/integration/places"
)

// PlacesProvider is the discovery side of the Places integration client.
type PlacesProvider interface {
	TextSearch(ctx context.Context, query, pageToken string) ([]places.PlaceSummary, string, error)
	Details(ctx context.Context, placeID string) (*places.PlaceDetails, error)
	ClassifyWebsite(ctx context.Context, siteURL string) string
}
