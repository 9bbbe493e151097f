package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func doHealth(t *testing.T, handler *HealthHandler, method string) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	handler.RegisterRoutes(router)

	req, err := http.NewRequest(method, "/health", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var response HealthResponse
	if rr.Code == http.StatusOK {
		if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
			t.Errorf("failed to unmarshal response: %v", err)
		}
	}
	return rr, response
}

func TestHealthCheck(t *testing.T) {
	rr, response := doHealth(t, NewHealthHandler("test-service", "1.0.0", nil), "GET")

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v",
			status, http.StatusOK)
	}

	if response.Status != "healthy" {
		t.Errorf("expected status 'healthy', got %s", response.Status)
	}

	if response.Service != "test-service" {
		t.Errorf("expected service 'test-service', got %s", response.Service)
	}

	if response.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %s", response.Version)
	}

	if response.Redis != "disabled" {
		t.Errorf("expected redis 'disabled', got %s", response.Redis)
	}
}

func TestHealthCheckRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	handler := NewHealthHandler("test-service", "1.0.0", client)

	_, response := doHealth(t, handler, "GET")
	if response.Redis != "up" {
		t.Errorf("expected redis 'up', got %s", response.Redis)
	}

	mr.Close()

	rr, response := doHealth(t, handler, "GET")
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200 with redis down, got %d", rr.Code)
	}
	if response.Redis != "down" {
		t.Errorf("expected redis 'down', got %s", response.Redis)
	}
}

func TestHealthCheckMethodNotAllowed(t *testing.T) {
	rr, _ := doHealth(t, NewHealthHandler("test-service", "1.0.0", nil), "POST")

	if status := rr.Code; status != http.StatusMethodNotAllowed {
		t.Errorf("handler returned wrong status code: got %v want %v",
			status, http.StatusMethodNotAllowed)
	}
}
