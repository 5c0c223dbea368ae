package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"

	geojson "github.com/paulmach/go.geojson"
)

// GeoJSONBoundarySource implements ports.BoundarySource over a GeoJSON
// FeatureCollection of country shapes.
type GeoJSONBoundarySource struct {
	location string
	client   *http.Client
}

// NewGeoJSONBoundarySource creates a boundary source reading location, a
// path or URL.
func NewGeoJSONBoundarySource(location string, client *http.Client) *GeoJSONBoundarySource {
	if client == nil {
		client = DefaultClient
	}
	return &GeoJSONBoundarySource{location: location, client: client}
}

// Location returns the path or URL being read.
func (s *GeoJSONBoundarySource) Location() string { return s.location }

// Boundaries fetches and decodes the collection.
func (s *GeoJSONBoundarySource) Boundaries(ctx context.Context) (*geojson.FeatureCollection, error) {
	rc, err := open(ctx, s.client, s.location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read boundaries: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode boundaries: %w", err)
	}
	return fc, nil
}
