package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"stationdesk/services/console/internal/clients"
	"stationdesk/services/console/internal/models"
	"stationdesk/services/console/internal/notify"
	"stationdesk/services/console/internal/opstate"
)

// Station store operation names.
const (
	OpFetchStations    = "fetchStations"
	OpFetchStationByID = "fetchStationById"
	OpCreateStation    = "createStation"
	OpUpdateStation    = "updateStation"
	OpDeleteStation    = "deleteStation"
)

// StationsAPI is the remote contract used by StationStore.
type StationsAPI interface {
	ListStations(ctx context.Context, filters models.StationFilters) ([]models.Station, error)
	GetStation(ctx context.Context, id string) (*models.Station, error)
	CreateStation(ctx context.Context, in models.StationInput) (*models.Station, error)
	UpdateStation(ctx context.Context, id string, patch models.StationPatch) (*models.Station, error)
	DeleteStation(ctx context.Context, id string) error
}

// StationStoreOptions tunes StationStore.
type StationStoreOptions struct {
	// MergeWrites inserts or replaces created/updated stations in the local collection.
	// Off by default: callers re-fetch to see their writes.
	MergeWrites bool
}

// StationStore mirrors the last fetched station collection and the station being viewed.
type StationStore struct {
	mu         sync.RWMutex
	stations   []models.Station
	current    *models.Station
	fetchSeq   uint64
	appliedSeq uint64

	api      StationsAPI
	notifier notify.Notifier
	calls    *opstate.Tracker
	opts     StationStoreOptions
	logger   *zap.Logger
}

// NewStationStore builds an empty store.
func NewStationStore(api StationsAPI, notifier notify.Notifier, opts StationStoreOptions, logger *zap.Logger) *StationStore {
	return &StationStore{
		stations: []models.Station{},
		api:      api,
		notifier: notifier,
		calls:    opstate.NewTracker(0),
		opts:     opts,
		logger:   logger.Named("stations"),
	}
}

func (s *StationStore) fail(c *opstate.Call, err error, fallback string) {
	message := clients.MessageOf(err, fallback)
	s.logger.Info("station call failed", zap.String("operation", c.Snapshot().Operation), zap.Error(err))
	c.Fail(message)
	s.notifier.Error(message)
}

// FetchStations replaces the collection with the filtered server list and returns it.
// On failure the collection is kept and an empty slice is returned.
func (s *StationStore) FetchStations(ctx context.Context, filters models.StationFilters) []models.Station {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.mu.Unlock()
	c := s.calls.Begin(ctx, OpFetchStations)

	stations, err := s.api.ListStations(ctx, filters)
	if err != nil {
		s.fail(c, err, "Failed to fetch stations")
		return []models.Station{}
	}

	s.mu.Lock()
	// an older fetch resolving late must not replace a newer result
	if seq > s.appliedSeq {
		s.appliedSeq = seq
		s.stations = append([]models.Station(nil), stations...)
	}
	s.mu.Unlock()

	c.Succeed()
	return append([]models.Station(nil), stations...)
}

// FetchStationByID loads one station into the current slot and returns it, or nil on failure.
func (s *StationStore) FetchStationByID(ctx context.Context, id string) *models.Station {
	c := s.calls.Begin(ctx, OpFetchStationByID)

	station, err := s.api.GetStation(ctx, strings.TrimSpace(id))
	if err != nil {
		s.fail(c, err, "Failed to fetch station details")
		return nil
	}

	s.mu.Lock()
	current := *station
	s.current = &current
	s.mu.Unlock()

	c.Succeed()
	return station
}

// CreateStation submits a new station and returns the server record, or nil on failure.
func (s *StationStore) CreateStation(ctx context.Context, in models.StationInput) *models.Station {
	c := s.calls.Begin(ctx, OpCreateStation)

	if err := in.Validate(); err != nil {
		s.fail(c, err, "Failed to create station")
		return nil
	}

	station, err := s.api.CreateStation(ctx, in)
	if err != nil {
		s.fail(c, err, "Failed to create station")
		return nil
	}

	if s.opts.MergeWrites {
		s.merge(*station)
	}
	c.Succeed()
	s.notifier.Success("Charging station created successfully")
	return station
}

// UpdateStation submits a partial update and returns the server record, or nil on failure.
func (s *StationStore) UpdateStation(ctx context.Context, id string, patch models.StationPatch) *models.Station {
	c := s.calls.Begin(ctx, OpUpdateStation)

	if err := patch.Validate(); err != nil {
		s.fail(c, err, "Failed to update station")
		return nil
	}

	station, err := s.api.UpdateStation(ctx, strings.TrimSpace(id), patch)
	if err != nil {
		s.fail(c, err, "Failed to update station")
		return nil
	}

	if s.opts.MergeWrites {
		s.merge(*station)
	}
	c.Succeed()
	s.notifier.Success("Charging station updated successfully")
	return station
}

// merge inserts or replaces station by id, and refreshes the current slot when it matches.
func (s *StationStore) merge(station models.Station) {
	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := false
	for i := range s.stations {
		if s.stations[i].ID == station.ID {
			s.stations[i] = station
			replaced = true
			break
		}
	}
	if !replaced {
		s.stations = append(s.stations, station)
	}
	if s.current != nil && s.current.ID == station.ID {
		current := station
		s.current = &current
	}
}

// DeleteStation removes the station remotely and then locally. The collection is untouched on failure.
func (s *StationStore) DeleteStation(ctx context.Context, id string) bool {
	c := s.calls.Begin(ctx, OpDeleteStation)
	id = strings.TrimSpace(id)

	if err := s.api.DeleteStation(ctx, id); err != nil {
		s.fail(c, err, "Failed to delete station")
		return false
	}

	s.mu.Lock()
	kept := make([]models.Station, 0, len(s.stations))
	for _, st := range s.stations {
		if st.ID != id {
			kept = append(kept, st)
		}
	}
	s.stations = kept
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.mu.Unlock()

	c.Succeed()
	s.notifier.Success("Charging station deleted successfully")
	return true
}

// Stations returns a copy of the local collection.
func (s *StationStore) Stations() []models.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Station{}, s.stations...)
}

// Current returns a copy of the station being viewed, or nil.
func (s *StationStore) Current() *models.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

// Find returns a copy of the locally known station with id.
func (s *StationStore) Find(id string) (models.Station, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.stations {
		if st.ID == id {
			return st, true
		}
	}
	return models.Station{}, false
}

// Reset drops all local state, e.g. after the session ends.
func (s *StationStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stations = []models.Station{}
	s.current = nil
	s.appliedSeq = s.fetchSeq
}

// Status reports loading/error across this store's calls.
func (s *StationStore) Status() Status {
	return Status{Loading: s.calls.Loading(), Error: s.calls.Error()}
}

// Calls returns per-call history.
func (s *StationStore) Calls() []opstate.Snapshot {
	return s.calls.Calls()
}

