package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"stationdesk/services/mock-api/internal/models"
	"stationdesk/services/mock-api/internal/repository"
)

var (
	// ErrForbidden is returned when the caller neither owns the station nor is an admin.
	ErrForbidden = errors.New("stations: not allowed to modify this station")
	// ErrNotFound is returned for unknown station ids.
	ErrNotFound = errors.New("stations: station not found")
)

// Actor identifies the authenticated caller.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) canModify(s *models.Station) bool {
	return a.Role == models.RoleAdmin || s.Owner == a.UserID
}

// StationRepository defines storage contract used by the service.
type StationRepository interface {
	List(ctx context.Context, filter models.StationFilter) ([]models.Station, error)
	Get(ctx context.Context, id string) (*models.Station, error)
	Create(ctx context.Context, station *models.Station) error
	Update(ctx context.Context, station *models.Station) error
	Delete(ctx context.Context, id string) error
}

// StationsService implements station CRUD with ownership rules.
type StationsService struct {
	repo   StationRepository
	logger *zap.Logger
}

// NewStationsService builds StationsService.
func NewStationsService(repo StationRepository, logger *zap.Logger) *StationsService {
	return &StationsService{repo: repo, logger: logger}
}

// List returns stations matching filter.
func (s *StationsService) List(ctx context.Context, filter models.StationFilter) ([]models.Station, error) {
	if filter.MinPower != nil && filter.MaxPower != nil && *filter.MinPower > *filter.MaxPower {
		return nil, invalid("minPower cannot exceed maxPower")
	}
	return s.repo.List(ctx, filter)
}

// Get returns one station.
func (s *StationsService) Get(ctx context.Context, id string) (*models.Station, error) {
	station, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrStationNotFound) {
		return nil, ErrNotFound
	}
	return station, err
}

// Create validates fields and stores a station owned by actor. Every field is required.
func (s *StationsService) Create(ctx context.Context, actor Actor, fields models.StationFields) (*models.Station, error) {
	if fields.Name == nil || fields.Location == nil || fields.Address == nil ||
		fields.Status == nil || fields.PowerOutput == nil || fields.ConnectorType == nil {
		return nil, invalid("Please provide all required fields")
	}
	station := &models.Station{Owner: actor.UserID}
	if err := apply(station, fields); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, station); err != nil {
		return nil, err
	}
	s.logger.Info("station created", zap.String("station_id", station.ID), zap.String("owner", station.Owner))
	return station, nil
}

// Update applies the present fields of a partial update.
func (s *StationsService) Update(ctx context.Context, actor Actor, id string, fields models.StationFields) (*models.Station, error) {
	station, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.canModify(station) {
		return nil, ErrForbidden
	}
	if err := apply(station, fields); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, station); err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.logger.Info("station updated", zap.String("station_id", id), zap.String("by", actor.UserID))
	return station, nil
}

// Delete removes a station.
func (s *StationsService) Delete(ctx context.Context, actor Actor, id string) error {
	station, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.canModify(station) {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.logger.Info("station deleted", zap.String("station_id", id), zap.String("by", actor.UserID))
	return nil
}

// apply copies present fields onto station, rejecting invalid values before mutating anything.
func apply(station *models.Station, f models.StationFields) error {
	if f.Name != nil && strings.TrimSpace(*f.Name) == "" {
		return invalid("Name is required")
	}
	if f.Address != nil && strings.TrimSpace(*f.Address) == "" {
		return invalid("Address is required")
	}
	if f.Location != nil && (f.Location.Lat < -90 || f.Location.Lat > 90 || f.Location.Lng < -180 || f.Location.Lng > 180) {
		return invalid("Location is out of range")
	}
	if f.Status != nil && !models.ValidStatus(*f.Status) {
		return invalid("Invalid status %q", *f.Status)
	}
	if f.ConnectorType != nil && !models.ValidConnectorType(*f.ConnectorType) {
		return invalid("Invalid connector type %q", *f.ConnectorType)
	}
	if f.PowerOutput != nil && *f.PowerOutput <= 0 {
		return invalid("Power output must be positive")
	}

	if f.Name != nil {
		station.Name = strings.TrimSpace(*f.Name)
	}
	if f.Address != nil {
		station.Address = strings.TrimSpace(*f.Address)
	}
	if f.Location != nil {
		station.Location = *f.Location
	}
	if f.Status != nil {
		station.Status = *f.Status
	}
	if f.ConnectorType != nil {
		station.ConnectorType = *f.ConnectorType
	}
	if f.PowerOutput != nil {
		station.PowerOutput = *f.PowerOutput
	}
	return nil
}
