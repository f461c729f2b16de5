package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"plantgarden/internal/scheduler"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	sweep := scheduler.NewScheduler(nil, nil, time.Hour)
	return setupRouter(nil, nil, nil, nil, nil, nil, sweep)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "sweep_running") {
		t.Errorf("health body missing sweep_running: %s", w.Body.String())
	}
}

func TestAPIRoutesRegisteredBehindAuth(t *testing.T) {
	router := newTestRouter()

	// Every registered API route must answer 401 without a bearer token;
	// an unregistered path falls through to gin's 404 instead.
	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/plant-types"},
		{http.MethodGet, "/api/v1/plant-types/123"},
		{http.MethodPost, "/api/v1/plants"},
		{http.MethodGet, "/api/v1/plants/current"},
		{http.MethodPost, "/api/v1/plants/123/water"},
		{http.MethodPost, "/api/v1/plants/123/experience"},
		{http.MethodPost, "/api/v1/plants/123/grow"},
		{http.MethodGet, "/api/v1/plants/123/watering-logs"},
		{http.MethodPost, "/api/v1/draws"},
		{http.MethodGet, "/api/v1/draws/history"},
		{http.MethodGet, "/api/v1/inventory"},
		{http.MethodDelete, "/api/v1/inventory/123"},
		{http.MethodGet, "/api/v1/tickets"},
		{http.MethodPost, "/api/v1/tickets/123/draw"},
		{http.MethodGet, "/api/v1/missions"},
		{http.MethodPost, "/api/v1/hooks/verification-complete"},
		{http.MethodPost, "/api/v1/hooks/plant-complete"},
		{http.MethodPost, "/api/v1/admin/force-sweep"},
	}

	for _, route := range routes {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(route.method, route.path, nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want %d", route.method, route.path, w.Code, http.StatusUnauthorized)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown route = %d, want %d", w.Code, http.StatusNotFound)
	}
}
