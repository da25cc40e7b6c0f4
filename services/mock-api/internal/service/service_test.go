package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"stationdesk/services/mock-api/internal/models"
	"stationdesk/services/mock-api/internal/password"
	"stationdesk/services/mock-api/internal/repository"
)

func newAuth(t *testing.T) (*AuthService, *TokenService) {
	t.Helper()
	tokens := NewTokenService("test-secret", time.Hour)
	svc := NewAuthService(repository.NewUserRepository(), password.NewBcrypt(bcrypt.MinCost), tokens, zap.NewNop())
	return svc, tokens
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("secret", time.Minute)

	raw, err := tokens.GenerateToken("u-1", models.RoleAdmin)
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestTokenRejectsOtherSecretAndExpiry(t *testing.T) {
	issuer := NewTokenService("secret", time.Minute)
	raw, err := issuer.GenerateToken("u-1", models.RoleUser)
	require.NoError(t, err)

	_, err = NewTokenService("other", time.Minute).ValidateToken(raw)
	assert.Error(t, err)

	expired := NewTokenService("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, err = expired.GenerateToken("u-1", models.RoleUser)
	require.NoError(t, err)
	_, err = issuer.ValidateToken(raw)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = issuer.GenerateToken("", models.RoleUser)
	assert.Error(t, err)
}

func TestRegisterAndLogin(t *testing.T) {
	svc, tokens := newAuth(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "  Ada ", "Ada@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", reg.Name)
	assert.Equal(t, "ada@example.com", reg.Email)
	assert.Equal(t, models.RoleUser, reg.Role)
	assert.NotEmpty(t, reg.ID)

	claims, err := tokens.ValidateToken(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, claims.UserID)

	login, err := svc.Login(ctx, "ADA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, login.ID)

	_, err = svc.Login(ctx, "ada@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Register(ctx, "Ada again", "ada@example.com", "secret2")
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuth(t)
	cases := map[string][3]string{
		"blank name":     {" ", "a@example.com", "secret1"},
		"bad email":      {"A", "not-an-email", "secret1"},
		"short password": {"A", "a@example.com", "12345"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), in[0], in[1], in[2])
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Message)
		})
	}
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()

	first, err := svc.EnsureAdmin(ctx, "Admin", "admin@example.com", "changeme")
	require.NoError(t, err)
	second, err := svc.EnsureAdmin(ctx, "Admin", "admin@example.com", "changeme")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	login, err := svc.Login(ctx, "admin@example.com", "changeme")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, login.Role)
}

func ptr[T any](v T) *T { return &v }

func fullFields() models.StationFields {
	return models.StationFields{
		Name:          ptr("Depot"),
		Location:      &models.Location{Lat: 52.5, Lng: 13.4},
		Address:       ptr("1 Main St"),
		Status:        ptr("active"),
		PowerOutput:   ptr(50.0),
		ConnectorType: ptr("CCS"),
	}
}

func TestStationsOwnership(t *testing.T) {
	svc := NewStationsService(repository.NewStationRepository(), zap.NewNop())
	ctx := context.Background()
	owner := Actor{UserID: "owner", Role: models.RoleUser}
	stranger := Actor{UserID: "stranger", Role: models.RoleUser}
	admin := Actor{UserID: "root", Role: models.RoleAdmin}

	created, err := svc.Create(ctx, owner, fullFields())
	require.NoError(t, err)
	assert.Equal(t, "owner", created.Owner)

	_, err = svc.Update(ctx, stranger, created.ID, models.StationFields{Status: ptr("inactive")})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, stranger, created.ID), ErrForbidden)

	updated, err := svc.Update(ctx, owner, created.ID, models.StationFields{Status: ptr("maintenance")})
	require.NoError(t, err)
	assert.Equal(t, "maintenance", updated.Status)
	assert.Equal(t, "Depot", updated.Name)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	require.NoError(t, svc.Delete(ctx, admin, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStationsValidation(t *testing.T) {
	svc := NewStationsService(repository.NewStationRepository(), zap.NewNop())
	ctx := context.Background()
	actor := Actor{UserID: "u"}

	missing := fullFields()
	missing.Address = nil
	_, err := svc.Create(ctx, actor, missing)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	bad := fullFields()
	bad.ConnectorType = ptr("Schuko")
	_, err = svc.Create(ctx, actor, bad)
	assert.ErrorAs(t, err, &verr)

	created, err := svc.Create(ctx, actor, fullFields())
	require.NoError(t, err)
	_, err = svc.Update(ctx, actor, created.ID, models.StationFields{PowerOutput: ptr(-1.0), Name: ptr("Renamed")})
	assert.ErrorAs(t, err, &verr)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Depot", got.Name, "rejected update must not apply any field")
}

func TestStationsListFilters(t *testing.T) {
	svc := NewStationsService(repository.NewStationRepository(), zap.NewNop())
	ctx := context.Background()
	actor := Actor{UserID: "u"}

	for _, seed := range []struct {
		status string
		power  float64
	}{{"active", 22}, {"active", 150}, {"inactive", 50}} {
		f := fullFields()
		f.Status = ptr(seed.status)
		f.PowerOutput = ptr(seed.power)
		_, err := svc.Create(ctx, actor, f)
		require.NoError(t, err)
	}

	got, err := svc.List(ctx, models.StationFilter{Status: "active", MinPower: ptr(50.0)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 150.0, got[0].PowerOutput)

	all, err := svc.List(ctx, models.StationFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.List(ctx, models.StationFilter{MinPower: ptr(100.0), MaxPower: ptr(10.0)})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
