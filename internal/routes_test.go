package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/chain"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/controllers"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/providers"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/services"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/structures"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/testutil"
)

const routeOwner = "0x00000000000000000000000000000000000000ee"

func testRouter() providers.RouterProviderInterface {
	conf := &structures.Config{
		Injector: structures.InjectorConfig{
			Asset:  "0x00000000000000000000000000000000000000a5",
			Self:   "0x0000000000000000000000000000000000005e1f",
			Owner:  routeOwner,
			Keeper: "0x00000000000000000000000000000000000000cc",
		},
	}
	logger := &testutil.MockLogger{}
	clock := testutil.NewManualClock(time.Unix(1_700_000_000, 0))
	svc := services.NewInjectorService(conf, logger, clock, chain.NewMemory(clock.Now), &testutil.MockHistory{}, &testutil.MockMetrics{})
	auth := providers.NewAuthProvider(conf, clock, logger)

	return InitRoutes(
		controllers.NewInjectorController(logger, svc, testutil.NewMockCache(), auth),
		controllers.NewAdminController(logger, svc, auth),
	)
}

func TestInitRoutes_RegistersEndpoints(t *testing.T) {
	routes := testRouter().GetRoutes()
	require.Len(t, routes, 17)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}
	for _, url := range []string{"/watchlist", "/account", "/ready", "/upkeep/check", "/upkeep/perform", "/recipients", "/recipients/validated", "/sweep", "/history"} {
		assert.Contains(t, urls, url)
	}
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	mux := http.NewServeMux()
	for _, r := range testRouter().GetRoutes() {
		mux.Handle(r.Url, r.Handler)
	}

	req := httptest.NewRequest(http.MethodPost, "/watchlist", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/recipients", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	req = httptest.NewRequest(http.MethodPost, "/pause", nil)
	req.Header.Set(providers.CallerHeader, routeOwner)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestNewHandler_MountsHealthOutsideMetrics(t *testing.T) {
	router := testRouter()
	metrics := &testutil.MockMetrics{}
	logger := &testutil.MockLogger{}
	conf := &structures.Config{Injector: structures.InjectorConfig{Owner: routeOwner}}
	clock := testutil.NewManualClock(time.Unix(1_700_000_000, 0))
	svc := services.NewInjectorService(conf, logger, clock, chain.NewMemory(clock.Now), &testutil.MockHistory{}, metrics)
	handler := newHandler(router, controllers.NewHealthController(svc), metrics, conf)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	// Metrics disabled: /metrics falls through to the API mux.
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/watchlist", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
