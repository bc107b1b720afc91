package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func idemRouter(lookup IdempotencyLookup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(IdempotencyValidator(IdempotencyOptions{}, lookup))
	return r
}

func TestIdempotencyValidator_PassThroughWithoutHeader(t *testing.T) {
	r := idemRouter(nil)

	var key string
	var has bool
	r.POST("/wishes", func(c *gin.Context) {
		key, has = GetIdempotencyKey(c)
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/wishes", strings.NewReader("{}")))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	if has || key != "" {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestIdempotencyValidator_StashesKey(t *testing.T) {
	r := idemRouter(nil)

	var key string
	r.POST("/wishes", func(c *gin.Context) {
		key, _ = GetIdempotencyKey(c)
		if IsReplay(c) {
			t.Error("replay flagged without a lookup hit")
		}
		c.Status(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/wishes", strings.NewReader("{}"))
	req.Header.Set(HeaderIdempotencyKey, "order-1.retry:2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if key != "order-1.retry:2" {
		t.Fatalf("key = %q", key)
	}
}

func TestIdempotencyValidator_RejectsMalformedKey(t *testing.T) {
	r := idemRouter(nil)
	r.POST("/wishes", func(c *gin.Context) { c.Status(http.StatusCreated) })

	bad := []string{
		"has spaces",
		"emoji-☃",
		strings.Repeat("k", 201),
	}
	for _, key := range bad {
		req := httptest.NewRequest(http.MethodPost, "/wishes", strings.NewReader("{}"))
		req.Header.Set(HeaderIdempotencyKey, key)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("key %q: status = %d", key, w.Code)
		}
		if !strings.Contains(w.Body.String(), "validation_error") {
			t.Fatalf("key %q: body %s", key, w.Body.String())
		}
	}
}

func TestIdempotencyValidator_FlagsReplay(t *testing.T) {
	lookup := func(ctx context.Context, key string, now time.Time) (bool, error) {
		return key == "seen-before", nil
	}
	r := idemRouter(lookup)

	var replay bool
	r.POST("/wishes", func(c *gin.Context) {
		replay = IsReplay(c)
		c.Status(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/wishes", strings.NewReader("{}"))
	req.Header.Set(HeaderIdempotencyKey, "seen-before")
	r.ServeHTTP(httptest.NewRecorder(), req)
	if !replay {
		t.Fatal("known key not flagged as replay")
	}

	req = httptest.NewRequest(http.MethodPost, "/wishes", strings.NewReader("{}"))
	req.Header.Set(HeaderIdempotencyKey, "brand-new")
	r.ServeHTTP(httptest.NewRecorder(), req)
	if replay {
		t.Fatal("fresh key flagged as replay")
	}
}

func TestIdempotencyValidator_IgnoresNonPost(t *testing.T) {
	r := idemRouter(nil)

	var has bool
	r.GET("/wishes", func(c *gin.Context) {
		_, has = GetIdempotencyKey(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/wishes", nil)
	req.Header.Set(HeaderIdempotencyKey, "ignored-on-get")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || has {
		t.Fatalf("GET handling wrong: status=%d has=%v", w.Code, has)
	}
}
