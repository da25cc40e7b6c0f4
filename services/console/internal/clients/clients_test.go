package clients

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationdesk/services/console/internal/models"
)

type recorded struct {
	method string
	uri    string
	auth   string
	ctype  string
	body   string
}

func newTestServer(t *testing.T, status int, response string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{
			method: r.Method,
			uri:    r.URL.RequestURI(),
			auth:   r.Header.Get("Authorization"),
			ctype:  r.Header.Get("Content-Type"),
			body:   string(body),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestLoginUnwrapsDataEnvelope(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK,
		`{"data":{"_id":"1","name":"A","email":"a@b.com","role":"admin","token":"tok"}}`)

	client := NewAuthClient(NewBaseClient(srv.URL+"/", NewDefaultHTTPClient(time.Second), nil))
	user, err := client.Login(context.Background(), models.LoginRequest{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)

	assert.Equal(t, &models.User{ID: "1", Name: "A", Email: "a@b.com", Role: "admin", Token: "tok"}, user)
	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/auth/login", call.uri)
	assert.Equal(t, "application/json", call.ctype)
	assert.Empty(t, call.auth, "anonymous request must not carry a token")

	var sent models.LoginRequest
	require.NoError(t, json.Unmarshal([]byte(call.body), &sent))
	assert.Equal(t, "a@b.com", sent.Email)
}

func TestBearerTokenInjected(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `{"data":[]}`)

	base := NewBaseClient(srv.URL, http.DefaultClient, TokenFunc(func() string { return "tok" }))
	stations, err := NewStationsClient(base).ListStations(context.Background(), models.StationFilters{
		Status:   models.StatusActive,
		MinPower: models.Float64(50),
	})
	require.NoError(t, err)
	assert.Empty(t, stations)
	assert.NotNil(t, stations)

	require.Len(t, *calls, 1)
	assert.Equal(t, "Bearer tok", (*calls)[0].auth)
	assert.Equal(t, "/stations?status=active&minPower=50", (*calls)[0].uri)
}

func TestErrorMessageExtraction(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message field", http.StatusUnauthorized, `{"message":"Invalid credentials"}`, "Invalid credentials"},
		{"error field", http.StatusBadRequest, `{"error":"email and password are required"}`, "email and password are required"},
		{"nested error", http.StatusConflict, `{"error":{"message":"duplicate"}}`, "duplicate"},
		{"plain text", http.StatusBadGateway, "upstream down\n", "upstream down"},
		{"no body", http.StatusInternalServerError, "", "request failed with status code 500"},
		{"json without message", http.StatusNotFound, `{"success":false}`, "request failed with status code 404"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tc.status, tc.body)
			client := NewStationsClient(NewBaseClient(srv.URL, http.DefaultClient, nil))

			_, err := client.GetStation(context.Background(), "abc")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.want, MessageOf(err, "fallback"))
		})
	}
}

func TestPlainTextMessageCutOnRuneBoundary(t *testing.T) {
	// 199 ASCII bytes push the 200th rune into the middle of a multibyte sequence
	body := strings.Repeat("x", 199) + strings.Repeat("é", 50)
	srv, _ := newTestServer(t, http.StatusBadGateway, body)
	client := NewStationsClient(NewBaseClient(srv.URL, http.DefaultClient, nil))

	_, err := client.GetStation(context.Background(), "abc")
	require.Error(t, err)

	msg := MessageOf(err, "fallback")
	assert.True(t, utf8.ValidString(msg))
	assert.Equal(t, 200, utf8.RuneCountInString(msg))
	assert.True(t, strings.HasSuffix(msg, "é"))
}

func TestMissingDataField(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"station":{}}`)
	client := NewStationsClient(NewBaseClient(srv.URL, http.DefaultClient, nil))

	_, err := client.GetStation(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrMissingData)
}

func TestDeleteIgnoresBody(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `{"success":true}`)
	client := NewStationsClient(NewBaseClient(srv.URL, http.DefaultClient, nil))

	require.NoError(t, client.DeleteStation(context.Background(), "a/b"))
	assert.Equal(t, http.MethodDelete, (*calls)[0].method)
	assert.Equal(t, "/stations/a%2Fb", (*calls)[0].uri)
}

func TestUpdateSendsOnlyPatchedFields(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `{"data":{"_id":"s1","status":"maintenance"}}`)
	client := NewStationsClient(NewBaseClient(srv.URL, http.DefaultClient, nil))

	status := models.StatusMaintenance
	station, err := client.UpdateStation(context.Background(), "s1", models.StationPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.StatusMaintenance, station.Status)
	assert.JSONEq(t, `{"status":"maintenance"}`, (*calls)[0].body)
	assert.Equal(t, http.MethodPut, (*calls)[0].method)
}

func TestTransportErrorMessage(t *testing.T) {
	client := NewStationsClient(NewBaseClient("http://127.0.0.1:1", NewDefaultHTTPClient(time.Second), nil))

	_, err := client.ListStations(context.Background(), models.StationFilters{})
	require.Error(t, err)
	assert.Contains(t, MessageOf(err, "fallback"), "stations.list")
	assert.Equal(t, "fallback", MessageOf(nil, "fallback"))
}
