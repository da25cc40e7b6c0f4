package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"stationdesk/services/mock-api/internal/models"
)

// ErrStationNotFound represents missing stations.
var ErrStationNotFound = errors.New("station not found")

// StationRepository keeps stations in memory in insertion order.
type StationRepository struct {
	mu       sync.RWMutex
	stations []models.Station
}

// NewStationRepository returns repository instance.
func NewStationRepository() *StationRepository {
	return &StationRepository{}
}

// List returns stations matching filter, oldest first.
func (r *StationRepository) List(_ context.Context, filter models.StationFilter) ([]models.Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Station, 0, len(r.stations))
	for _, s := range r.stations {
		if filter.Match(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Get fetches a station by id.
func (r *StationRepository) Get(_ context.Context, id string) (*models.Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.index(id); i >= 0 {
		s := r.stations[i]
		return &s, nil
	}
	return nil, ErrStationNotFound
}

// Create assigns id and timestamps and inserts the station.
func (r *StationRepository) Create(_ context.Context, station *models.Station) error {
	now := time.Now().UTC()
	station.ID = uuid.NewString()
	station.CreatedAt = now
	station.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.stations = append(r.stations, *station)
	return nil
}

// Update replaces the stored station with the same id and bumps UpdatedAt.
func (r *StationRepository) Update(_ context.Context, station *models.Station) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(station.ID)
	if i < 0 {
		return ErrStationNotFound
	}
	station.CreatedAt = r.stations[i].CreatedAt
	station.UpdatedAt = time.Now().UTC()
	r.stations[i] = *station
	return nil
}

// Delete removes a station by id.
func (r *StationRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return ErrStationNotFound
	}
	r.stations = append(r.stations[:i], r.stations[i+1:]...)
	return nil
}

func (r *StationRepository) index(id string) int {
	for i, s := range r.stations {
		if s.ID == id {
			return i
		}
	}
	return -1
}
