package models

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStationFiltersQueryOmitsUnsetKeys(t *testing.T) {
	cases := []struct {
		name    string
		filters StationFilters
		want    string
	}{
		{"empty", StationFilters{}, ""},
		{"status and min power", StationFilters{Status: StatusActive, MinPower: Float64(50)}, "status=active&minPower=50"},
		{"connector only", StationFilters{ConnectorType: ConnectorType2}, "connectorType=Type+2"},
		{"zero min power is still set", StationFilters{MinPower: Float64(0)}, "minPower=0"},
		{"all", StationFilters{
			Status:        StatusMaintenance,
			ConnectorType: ConnectorCCS,
			MinPower:      Float64(22.5),
			MaxPower:      Float64(150),
		}, "status=maintenance&connectorType=CCS&minPower=22.5&maxPower=150"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filters.Query())
		})
	}
}

func TestParseStationFiltersRoundTrip(t *testing.T) {
	values, err := url.ParseQuery("status=active&minPower=50&maxPower=&connectorType=")
	require.NoError(t, err)

	f, err := ParseStationFilters(values)
	require.NoError(t, err)
	assert.Equal(t, "status=active&minPower=50", f.Query())

	_, err = ParseStationFilters(url.Values{"minPower": {"fast"}})
	assert.Error(t, err)
}

func TestStationInputValidate(t *testing.T) {
	valid := StationInput{
		Name:          "Depot",
		Location:      Location{Lat: 52.52, Lng: 13.4},
		Address:       "Alexanderplatz 1",
		Status:        StatusActive,
		PowerOutput:   50,
		ConnectorType: ConnectorCCS,
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.Status = "broken"
	bad.ConnectorType = "Type 3"
	bad.Location.Lat = 120
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status")
	assert.Contains(t, err.Error(), "invalid connector type")
	assert.Contains(t, err.Error(), "location")
}

func TestStationPatchApply(t *testing.T) {
	status := StatusInactive
	patch := StationPatch{Status: &status, PowerOutput: Float64(11)}
	require.NoError(t, patch.Validate())
	assert.False(t, patch.Empty())

	got := patch.Apply(Station{ID: "s1", Name: "A", Status: StatusActive, PowerOutput: 22})
	assert.Equal(t, "s1", got.ID)
	assert.Equal(t, "A", got.Name)
	assert.Equal(t, StatusInactive, got.Status)
	assert.Equal(t, 11.0, got.PowerOutput)

	bogus := ConnectorType("Schuko")
	assert.Error(t, StationPatch{ConnectorType: &bogus}.Validate())
	assert.True(t, StationPatch{}.Empty())
}

func TestUserComplete(t *testing.T) {
	u := &User{ID: "1", Name: "A", Email: "a@b.com", Role: "admin", Token: "tok"}
	assert.True(t, u.Complete())
	assert.True(t, u.IsAdmin())

	u.Token = ""
	assert.False(t, u.Complete())

	var missing *User
	assert.False(t, missing.Complete())
	assert.False(t, missing.IsAdmin())
	assert.False(t, (&User{Role: "operator"}).IsAdmin())
}
