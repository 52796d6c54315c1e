package introspect

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/wishbone-run/wishbone/internal/router"
)

type fakeSource struct {
	healthy bool
	status  []router.ActorStatus
}

func (f fakeSource) Status() []router.ActorStatus { return f.status }
func (f fakeSource) Healthy() bool                { return f.healthy }

func signToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestHealthzReportsHealthyWithoutAuth(t *testing.T) {
	s := New(fakeSource{healthy: true}, NewAuthenticator("secret"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthzReportsUnhealthy(t *testing.T) {
	s := New(fakeSource{healthy: false}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStatusRejectsMissingBearerToken(t *testing.T) {
	s := New(fakeSource{healthy: true}, NewAuthenticator("secret"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStatusAcceptsValidBearerToken(t *testing.T) {
	s := New(fakeSource{healthy: true, status: []router.ActorStatus{{Name: "gen", State: "RUNNING"}}}, NewAuthenticator("secret"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret"))
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "gen")
}

func TestStatusIsUnprotectedWhenNoAuthenticatorConfigured(t *testing.T) {
	s := New(fakeSource{healthy: true}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
