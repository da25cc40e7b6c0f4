package models

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StationStatus is the operational state of a charging station.
type StationStatus string

const (
	StatusActive      StationStatus = "active"
	StatusInactive    StationStatus = "inactive"
	StatusMaintenance StationStatus = "maintenance"
)

// StationStatuses lists every accepted status in display order.
var StationStatuses = []StationStatus{StatusActive, StatusInactive, StatusMaintenance}

// Valid reports whether s is one of the enumerated statuses.
func (s StationStatus) Valid() bool {
	for _, v := range StationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ConnectorType is the plug standard offered by a station.
type ConnectorType string

const (
	ConnectorType1   ConnectorType = "Type 1"
	ConnectorType2   ConnectorType = "Type 2"
	ConnectorCCS     ConnectorType = "CCS"
	ConnectorCHAdeMO ConnectorType = "CHAdeMO"
	ConnectorTesla   ConnectorType = "Tesla"
)

// ConnectorTypes lists every accepted connector type in display order.
var ConnectorTypes = []ConnectorType{ConnectorType1, ConnectorType2, ConnectorCCS, ConnectorCHAdeMO, ConnectorTesla}

// Valid reports whether c is one of the enumerated connector types.
func (c ConnectorType) Valid() bool {
	for _, v := range ConnectorTypes {
		if c == v {
			return true
		}
	}
	return false
}

// Location is a WGS84 coordinate.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid checks coordinate ranges.
func (l Location) Valid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

// Station is one physical charging point as stored by the remote API.
type Station struct {
	ID            string        `json:"_id"`
	Name          string        `json:"name"`
	Location      Location      `json:"location"`
	Address       string        `json:"address"`
	Status        StationStatus `json:"status"`
	PowerOutput   float64       `json:"powerOutput"`
	ConnectorType ConnectorType `json:"connectorType"`
	Owner         string        `json:"owner"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// StationInput carries the client-supplied fields of a new station.
// Identifier, owner and timestamps are assigned by the server.
type StationInput struct {
	Name          string        `json:"name"`
	Location      Location      `json:"location"`
	Address       string        `json:"address"`
	Status        StationStatus `json:"status"`
	PowerOutput   float64       `json:"powerOutput"`
	ConnectorType ConnectorType `json:"connectorType"`
}

// Validate checks required fields and enumerations.
func (in StationInput) Validate() error {
	var errs []error
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if strings.TrimSpace(in.Address) == "" {
		errs = append(errs, errors.New("address is required"))
	}
	if !in.Location.Valid() {
		errs = append(errs, errors.New("location is out of range"))
	}
	if !in.Status.Valid() {
		errs = append(errs, fmt.Errorf("invalid status %q", in.Status))
	}
	if !in.ConnectorType.Valid() {
		errs = append(errs, fmt.Errorf("invalid connector type %q", in.ConnectorType))
	}
	if in.PowerOutput <= 0 {
		errs = append(errs, errors.New("power output must be positive"))
	}
	return errors.Join(errs...)
}

// StationPatch is a partial update; nil fields are left untouched by the server.
type StationPatch struct {
	Name          *string        `json:"name,omitempty"`
	Location      *Location      `json:"location,omitempty"`
	Address       *string        `json:"address,omitempty"`
	Status        *StationStatus `json:"status,omitempty"`
	PowerOutput   *float64       `json:"powerOutput,omitempty"`
	ConnectorType *ConnectorType `json:"connectorType,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p StationPatch) Empty() bool {
	return p.Name == nil && p.Location == nil && p.Address == nil &&
		p.Status == nil && p.PowerOutput == nil && p.ConnectorType == nil
}

// Validate checks the fields that are present.
func (p StationPatch) Validate() error {
	var errs []error
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if p.Address != nil && strings.TrimSpace(*p.Address) == "" {
		errs = append(errs, errors.New("address must not be empty"))
	}
	if p.Location != nil && !p.Location.Valid() {
		errs = append(errs, errors.New("location is out of range"))
	}
	if p.Status != nil && !p.Status.Valid() {
		errs = append(errs, fmt.Errorf("invalid status %q", *p.Status))
	}
	if p.ConnectorType != nil && !p.ConnectorType.Valid() {
		errs = append(errs, fmt.Errorf("invalid connector type %q", *p.ConnectorType))
	}
	if p.PowerOutput != nil && *p.PowerOutput <= 0 {
		errs = append(errs, errors.New("power output must be positive"))
	}
	return errors.Join(errs...)
}

// Apply returns a copy of s with the patch applied.
func (p StationPatch) Apply(s Station) Station {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Location != nil {
		s.Location = *p.Location
	}
	if p.Address != nil {
		s.Address = *p.Address
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.PowerOutput != nil {
		s.PowerOutput = *p.PowerOutput
	}
	if p.ConnectorType != nil {
		s.ConnectorType = *p.ConnectorType
	}
	return s
}

// StationFilters narrows GET /stations. Zero values mean "not set".
type StationFilters struct {
	Status        StationStatus
	ConnectorType ConnectorType
	MinPower      *float64
	MaxPower      *float64
}

// Query encodes the set filters in a fixed order: status, connectorType, minPower, maxPower.
// Unset filters are omitted entirely.
func (f StationFilters) Query() string {
	var parts []string
	add := func(key, value string) {
		parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(value))
	}
	if f.Status != "" {
		add("status", string(f.Status))
	}
	if f.ConnectorType != "" {
		add("connectorType", string(f.ConnectorType))
	}
	if f.MinPower != nil {
		add("minPower", formatNumber(*f.MinPower))
	}
	if f.MaxPower != nil {
		add("maxPower", formatNumber(*f.MaxPower))
	}
	return strings.Join(parts, "&")
}

// ParseStationFilters reads filters from a query string, ignoring blank values.
func ParseStationFilters(values url.Values) (StationFilters, error) {
	var f StationFilters
	if v := strings.TrimSpace(values.Get("status")); v != "" {
		f.Status = StationStatus(v)
	}
	if v := strings.TrimSpace(values.Get("connectorType")); v != "" {
		f.ConnectorType = ConnectorType(v)
	}
	for key, dst := range map[string]**float64{"minPower": &f.MinPower, "maxPower": &f.MaxPower} {
		v := strings.TrimSpace(values.Get(key))
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return StationFilters{}, fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = &n
	}
	return f, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Float64 is a helper for building optional numeric filters and patches.
func Float64(v float64) *float64 { return &v }

// String is a helper for building patches.
func String(v string) *string { return &v }
