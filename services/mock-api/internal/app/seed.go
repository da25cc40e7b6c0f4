package app

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"stationdesk/services/mock-api/internal/models"
	"stationdesk/services/mock-api/internal/service"
)

type seedStation struct {
	Name          string  `yaml:"name"`
	Address       string  `yaml:"address"`
	Lat           float64 `yaml:"lat"`
	Lng           float64 `yaml:"lng"`
	Status        string  `yaml:"status"`
	PowerOutput   float64 `yaml:"powerOutput"`
	ConnectorType string  `yaml:"connectorType"`
}

// loadSeedStations reads a YAML list of stations.
func loadSeedStations(path string) ([]seedStation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	var out []seedStation
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("seed: parse %s: %w", path, err)
	}
	return out, nil
}

func seedStations(ctx context.Context, svc *service.StationsService, owner service.Actor, seeds []seedStation) error {
	for i, s := range seeds {
		s := s
		fields := models.StationFields{
			Name:          &s.Name,
			Address:       &s.Address,
			Location:      &models.Location{Lat: s.Lat, Lng: s.Lng},
			Status:        &s.Status,
			PowerOutput:   &s.PowerOutput,
			ConnectorType: &s.ConnectorType,
		}
		if _, err := svc.Create(ctx, owner, fields); err != nil {
			return fmt.Errorf("seed: station %d (%s): %w", i, s.Name, err)
		}
	}
	return nil
}
