package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"stationdesk/services/mock-api/internal/http/handlers"
	"stationdesk/services/mock-api/internal/password"
	"stationdesk/services/mock-api/internal/repository"
	"stationdesk/services/mock-api/internal/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zap.NewNop()
	tokens := service.NewTokenService("router-secret", time.Hour)
	authSvc := service.NewAuthService(repository.NewUserRepository(), password.NewBcrypt(bcrypt.MinCost), tokens, logger)
	stationsSvc := service.NewStationsService(repository.NewStationRepository(), logger)

	srv := httptest.NewServer(NewRouter(Routes{
		Auth:     handlers.NewAuthHandlers(authSvc, logger),
		Stations: handlers.NewStationsHandlers(stationsSvc, logger),
		Health:   handlers.NewHealthHandler(),
		Tokens:   tokens,
		Logger:   logger,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, token string, body any) (int, gjson.Result) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var raw bytes.Buffer
	_, err = raw.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, gjson.ParseBytes(raw.Bytes())
}

func register(t *testing.T, srv *httptest.Server, name, email string) string {
	t.Helper()
	status, body := call(t, srv, http.MethodPost, "/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, status, body.Raw)
	return body.Get("data.token").String()
}

func station(name string, power float64) map[string]any {
	return map[string]any{
		"name":          name,
		"location":      map[string]float64{"lat": 48.1, "lng": 11.6},
		"address":       "Somewhere 1",
		"status":        "active",
		"powerOutput":   power,
		"connectorType": "Type 2",
	}
}

func TestAuthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	status, body := call(t, srv, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Grace", "email": "grace@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, status)
	for _, field := range []string{"_id", "name", "email", "role", "token"} {
		assert.NotEmpty(t, body.Get("data."+field).String(), field)
	}
	assert.Equal(t, "user", body.Get("data.role").String())

	status, body = call(t, srv, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Grace", "email": "grace@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User already exists", body.Get("message").String())

	status, body = call(t, srv, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "grace@example.com", "password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password", body.Get("message").String())

	status, body = call(t, srv, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "grace@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body.Get("data.token").String())
}

func TestStationWritesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	status, body := call(t, srv, http.MethodPost, "/stations", "", station("A", 22))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, body.Get("message").String())

	status, _ = call(t, srv, http.MethodPost, "/stations", "garbage", station("A", 22))
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = call(t, srv, http.MethodGet, "/stations", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Get("data").IsArray())
}

func TestStationLifecycle(t *testing.T) {
	srv := newTestServer(t)
	alice := register(t, srv, "Alice", "alice@example.com")
	bob := register(t, srv, "Bob", "bob@example.com")

	status, body := call(t, srv, http.MethodPost, "/stations", alice, station("Fast", 150))
	require.Equal(t, http.StatusCreated, status, body.Raw)
	id := body.Get("data._id").String()
	require.NotEmpty(t, id)
	_, _ = call(t, srv, http.MethodPost, "/stations", alice, station("Slow", 11))

	status, body = call(t, srv, http.MethodGet, "/stations?status=active&minPower=50", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body.Get("data").Array(), 1)
	assert.Equal(t, "Fast", body.Get("data.0.name").String())

	status, body = call(t, srv, http.MethodGet, "/stations?connectorType=Type+2&maxPower=20", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Slow", body.Get("data.0.name").String())

	status, body = call(t, srv, http.MethodGet, "/stations?minPower=lots", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "minPower must be a number", body.Get("message").String())

	status, _ = call(t, srv, http.MethodPut, "/stations/"+id, bob, map[string]string{"status": "inactive"})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = call(t, srv, http.MethodPut, "/stations/"+id, alice, map[string]string{"status": "maintenance"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "maintenance", body.Get("data.status").String())
	assert.Equal(t, "Fast", body.Get("data.name").String())

	status, _ = call(t, srv, http.MethodDelete, "/stations/"+id, alice, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = call(t, srv, http.MethodGet, "/stations/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Charging station not found", body.Get("message").String())
}

func TestHealthAndCORS(t *testing.T) {
	srv := newTestServer(t)

	status, body := call(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body.Get("status").String())

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/stations", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://console.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
