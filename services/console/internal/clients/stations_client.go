package clients

import (
	"context"
	"net/http"
	"net/url"

	"stationdesk/services/console/internal/models"
)

// StationsClient calls the /stations endpoints.
type StationsClient struct {
	base *BaseClient
}

// NewStationsClient returns client.
func NewStationsClient(base *BaseClient) *StationsClient {
	return &StationsClient{base: base}
}

func stationPath(id string) string {
	return "/stations/" + url.PathEscape(id)
}

// ListStations fetches stations matching filters.
func (c *StationsClient) ListStations(ctx context.Context, filters models.StationFilters) ([]models.Station, error) {
	path := "/stations"
	if q := filters.Query(); q != "" {
		path += "?" + q
	}
	var stations []models.Station
	if err := c.base.DoJSON(ctx, "stations.list", http.MethodGet, path, nil, &stations); err != nil {
		return nil, err
	}
	if stations == nil {
		stations = []models.Station{}
	}
	return stations, nil
}

// GetStation fetches one station.
func (c *StationsClient) GetStation(ctx context.Context, id string) (*models.Station, error) {
	var station models.Station
	if err := c.base.DoJSON(ctx, "stations.get", http.MethodGet, stationPath(id), nil, &station); err != nil {
		return nil, err
	}
	return &station, nil
}

// CreateStation submits a new station.
func (c *StationsClient) CreateStation(ctx context.Context, in models.StationInput) (*models.Station, error) {
	var station models.Station
	if err := c.base.DoJSON(ctx, "stations.create", http.MethodPost, "/stations", in, &station); err != nil {
		return nil, err
	}
	return &station, nil
}

// UpdateStation submits a partial update.
func (c *StationsClient) UpdateStation(ctx context.Context, id string, patch models.StationPatch) (*models.Station, error) {
	var station models.Station
	if err := c.base.DoJSON(ctx, "stations.update", http.MethodPut, stationPath(id), patch, &station); err != nil {
		return nil, err
	}
	return &station, nil
}

// DeleteStation removes a station.
func (c *StationsClient) DeleteStation(ctx context.Context, id string) error {
	return c.base.DoJSON(ctx, "stations.delete", http.MethodDelete, stationPath(id), nil, nil)
}
