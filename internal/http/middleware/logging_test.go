package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-wishlist-backend/internal/correlation"
)

func TestCorrelationID_GeneratesWhenAbsent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CorrelationID())

	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = correlation.FromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if seen == "" {
		t.Fatal("no correlation id in request context")
	}
	if got := w.Header().Get(correlation.Header); got != seen {
		t.Fatalf("response header %q != context id %q", got, seen)
	}
}

func TestCorrelationID_EchoesProvided(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CorrelationID())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(correlation.Header, "client-supplied-id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get(correlation.Header); got != "client-supplied-id" {
		t.Fatalf("header = %q", got)
	}
}

func TestCorrelationID_RequestScoped(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CorrelationID())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	ids := make(map[string]bool)
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		ids[w.Header().Get(correlation.Header)] = true
	}
	if len(ids) != 5 {
		t.Fatalf("ids reused across requests: %d unique of 5", len(ids))
	}
}

func TestRecovery_RendersEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CorrelationID(), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("secret detail: db password hunter2") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Error struct {
			Code          string `json:"code"`
			Message       string `json:"message"`
			CorrelationID string `json:"correlation_id"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v (%s)", err, w.Body.String())
	}
	if resp.Error.Code != "internal_error" {
		t.Fatalf("code = %q", resp.Error.Code)
	}
	if resp.Error.Message != "internal server error" {
		t.Fatalf("message = %q", resp.Error.Message)
	}
	if resp.Error.CorrelationID == "" {
		t.Fatal("correlation_id missing")
	}
	if strings.Contains(w.Body.String(), "hunter2") {
		t.Fatal("panic detail leaked into the response")
	}
}

func TestLoggerFrom_NeverNil(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	if LoggerFrom(c) == nil {
		t.Fatal("LoggerFrom returned nil without Logger() middleware")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 3); got != "abc…" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 0); got != "abc" {
		t.Fatalf("max<=0 should disable truncation, got %q", got)
	}
	if got := truncate("abc", 10); got != "abc" {
		t.Fatalf("short string altered: %q", got)
	}
}
