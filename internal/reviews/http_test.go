package reviews

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(t *testing.T, upstream http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	router := gin.New()
	NewHandler(NewSource(server.URL+"/reviews.json", time.Second), nil).Register(router.Group("/api"))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/reviews", nil))
	return rr
}

func TestHandler_Success(t *testing.T) {
	rr := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reviews.json", r.URL.Path)
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		w.Write([]byte(`{"reviews":[{"authorName":"A","rating":9,"text":"great"},{"rating":4}]}`))
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, CacheControl, rr.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"reviews":[{"authorName":"A","rating":5,"text":"great"}]}`, rr.Body.String())
}

func TestHandler_Failures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"not found": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>`))
		},
	}

	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			rr := serve(t, fn)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "no-store, no-cache, must-revalidate, proxy-revalidate", rr.Header().Get("Cache-Control"))
			assert.JSONEq(t, `{"reviews":[]}`, rr.Body.String())
		})
	}
}

func TestHandler_Unreachable(t *testing.T) {
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	router := gin.New()
	NewHandler(NewSource(url, time.Second), nil).Register(router)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/reviews", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, CacheControl, rr.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"reviews":[]}`, rr.Body.String())
}

func TestFallbackReason(t *testing.T) {
	assert.Equal(t, "upstream_status", fallbackReason(ErrUpstreamStatus))
	assert.Equal(t, "decode_error", fallbackReason(ErrMalformed))
	assert.Equal(t, "upstream_error", fallbackReason(assert.AnError))
}
