package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/bargainly/bargainly-backend/internal/bargaining"
	"github.com/bargainly/bargainly-backend/internal/catalog"
	"github.com/bargainly/bargainly-backend/internal/credentials"
	pkgAuth "github.com/bargainly/bargainly-backend/pkg/auth"
	"github.com/bargainly/bargainly-backend/pkg/config"
	pkgerrors "github.com/bargainly/bargainly-backend/pkg/errors"
	"github.com/bargainly/bargainly-backend/pkg/shopify"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(context.Context, string) (bool, error) {
	return true, nil
}

type stubSessionManager struct{}

func (stubSessionManager) Rotate(context.Context, string, string) (string, string, error) {
	return uuid.NewString(), "rotated-refresh", nil
}

func (stubSessionManager) Revoke(context.Context, string) error {
	return nil
}

type stubBargainingService struct{}

func (stubBargainingService) ApplyToCategory(context.Context, uuid.UUID, string, bargaining.ApplyInput) (bargaining.BatchResult, error) {
	return bargaining.BatchResult{AffectedCount: 1}, nil
}

func (stubBargainingService) ApplyToAllProducts(context.Context, uuid.UUID, bargaining.ApplyInput) (bargaining.BatchResult, error) {
	return bargaining.BatchResult{AffectedCount: 1}, nil
}

func (stubBargainingService) ApplyToVariant(context.Context, uuid.UUID, string, bargaining.ApplyInput) (bargaining.VariantResult, error) {
	return bargaining.VariantResult{}, nil
}

func (stubBargainingService) SetMinPrice(context.Context, uuid.UUID, string, decimal.Decimal) (bargaining.VariantResult, error) {
	return bargaining.VariantResult{}, nil
}

func (stubBargainingService) Deactivate(context.Context, uuid.UUID, string) (bargaining.VariantResult, error) {
	return bargaining.VariantResult{}, nil
}

func (stubBargainingService) ListPolicies(context.Context, uuid.UUID) (bargaining.PolicyList, error) {
	return bargaining.PolicyList{}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) ListVariants(context.Context, uuid.UUID) ([]shopify.CatalogVariant, error) {
	return nil, nil
}

func (stubCatalogService) ListCollections(context.Context, uuid.UUID) ([]catalog.Collection, error) {
	return nil, nil
}

type stubCredentialService struct{}

func (stubCredentialService) SetCredentials(context.Context, uuid.UUID, credentials.SetCredentialsInput) (credentials.CredentialDTO, error) {
	return credentials.CredentialDTO{}, nil
}

func (stubCredentialService) GetCredentials(context.Context, uuid.UUID) (credentials.CredentialDTO, error) {
	return credentials.CredentialDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "credentials not found")
}

func (stubCredentialService) RemoveCredentials(context.Context, uuid.UUID) error {
	return nil
}

func (stubCredentialService) Resolve(context.Context, uuid.UUID) (shopify.Credentials, error) {
	return shopify.Credentials{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev, Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "bargainly-test",
			ExpirationMinutes: 15,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	return NewRouter(RouterParams{
		Config:            cfg,
		DB:                stubPinger{},
		Redis:             stubPinger{},
		Sessions:          stubSessionChecker{},
		SessionManager:    stubSessionManager{},
		BargainingService: stubBargainingService{},
		CatalogService:    stubCatalogService{},
		CredentialService: stubCredentialService{},
		MetricsRegistry:   prometheus.NewRegistry(),
	})
}

func mintTestToken(t *testing.T, cfg *config.Config) string {
	t.Helper()

	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		MerchantID: uuid.New(),
		JTI:        uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthEndpointsArePublic(t *testing.T) {
	router := newTestRouter(testConfig())

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestPublicPingNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/public/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestBargainingRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(testConfig())

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/bargaining/details"},
		{http.MethodPost, "/api/v1/bargaining/set-by-category"},
		{http.MethodPost, "/api/v1/bargaining/set-all-products"},
		{http.MethodPost, "/api/v1/bargaining/set-by-product"},
		{http.MethodPost, "/api/v1/bargaining/set-min-price"},
		{http.MethodDelete, "/api/v1/bargaining/101"},
		{http.MethodGet, "/api/v1/catalog/products"},
		{http.MethodGet, "/api/v1/catalog/collections"},
		{http.MethodGet, "/api/v1/catalog/credentials/"},
		{http.MethodPost, "/api/auth/refresh"},
		{http.MethodPost, "/api/auth/logout"},
	}

	for _, tc := range paths {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", tc.method, tc.path, resp.Code)
		}
	}
}

func TestBargainingRouteWithValidToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bargaining/set-all-products",
		strings.NewReader(`{"behavior":"moderate","min_price":"5.00"}`))
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestSessionRefreshWithValidToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh",
		strings.NewReader(`{"refresh_token":"current"}`))
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "rotated-refresh") {
		t.Fatalf("expected rotated refresh token in response: %s", resp.Body.String())
	}
}

func TestPrivatePingWithValidToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
