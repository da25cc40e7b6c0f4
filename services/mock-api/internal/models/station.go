package models

import "time"

// Accepted station statuses and connector types.
var (
	Statuses       = []string{"active", "inactive", "maintenance"}
	ConnectorTypes = []string{"Type 1", "Type 2", "CCS", "CHAdeMO", "Tesla"}
)

// Location is a WGS84 coordinate.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Station represents a charging station record.
type Station struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Location      Location  `json:"location"`
	Address       string    `json:"address"`
	Status        string    `json:"status"`
	PowerOutput   float64   `json:"powerOutput"`
	ConnectorType string    `json:"connectorType"`
	Owner         string    `json:"owner"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// StationFields is the writable part of a station. Nil fields are absent from the request.
type StationFields struct {
	Name          *string   `json:"name"`
	Location      *Location `json:"location"`
	Address       *string   `json:"address"`
	Status        *string   `json:"status"`
	PowerOutput   *float64  `json:"powerOutput"`
	ConnectorType *string   `json:"connectorType"`
}

// StationFilter narrows a station listing. Zero values mean "any".
type StationFilter struct {
	Status        string
	ConnectorType string
	MinPower      *float64
	MaxPower      *float64
}

// Match reports whether s passes the filter.
func (f StationFilter) Match(s Station) bool {
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.ConnectorType != "" && s.ConnectorType != f.ConnectorType {
		return false
	}
	if f.MinPower != nil && s.PowerOutput < *f.MinPower {
		return false
	}
	if f.MaxPower != nil && s.PowerOutput > *f.MaxPower {
		return false
	}
	return true
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// ValidStatus reports whether v is an accepted status.
func ValidStatus(v string) bool { return contains(Statuses, v) }

// ValidConnectorType reports whether v is an accepted connector type.
func ValidConnectorType(v string) bool { return contains(ConnectorTypes, v) }
