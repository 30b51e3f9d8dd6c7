package middleware

import (
    "net/http"
    "net/http/httptest"
    "strconv"
    "sync/atomic"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/studyspot-booking/internal/config"
    "github.com/iliyamo/studyspot-booking/internal/utils"
)

const secret = "test-secret"

func bearer(t *testing.T, c utils.Claims) string {
    t.Helper()
    tok, err := utils.NewAccessToken(secret, c, 15, time.Now())
    if err != nil {
        t.Fatal(err)
    }
    return "Bearer " + tok.Token
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
    t.Helper()
    srv := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
    t.Cleanup(func() { _ = rdb.Close() })
    return srv, rdb
}

func whoami(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "id":   UserID(c),
        "name": UserName(c),
        "type": ctxString(c, CtxUserType),
    })
}

func TestJWTAuth(t *testing.T) {
    e := echo.New()
    e.GET("/me", whoami, JWTAuth(secret))
    e.GET("/guests", whoami, JWTAuth(secret), RequireUserType("guest"))

    guest := bearer(t, utils.Claims{UserID: "guest-user-permanent", UserName: "Guest User", UserType: "guest"})
    staff := bearer(t, utils.Claims{UserID: "u2", UserType: "staff"})

    tests := []struct {
        name   string
        path   string
        header string
        status int
    }{
        {"no header", "/me", "", http.StatusUnauthorized},
        {"not bearer", "/me", "Basic abc", http.StatusUnauthorized},
        {"garbage token", "/me", "Bearer nope", http.StatusUnauthorized},
        {"valid token", "/me", guest, http.StatusOK},
        {"allowed type", "/guests", guest, http.StatusOK},
        {"other type", "/guests", staff, http.StatusForbidden},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            req := httptest.NewRequest(http.MethodGet, tt.path, nil)
            if tt.header != "" {
                req.Header.Set("Authorization", tt.header)
            }
            rec := httptest.NewRecorder()
            e.ServeHTTP(rec, req)
            if rec.Code != tt.status {
                t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
            }
        })
    }
}

func TestIdentityWithoutAuth(t *testing.T) {
    e := echo.New()
    c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
    if UserID(c) != "" || rateIdentity(c) != "anon" {
        t.Fatalf("expected anonymous identity, got %q/%q", UserID(c), rateIdentity(c))
    }
    c.Set(CtxUserID, "u1")
    if rateIdentity(c) != "u1" {
        t.Fatalf("expected u1, got %q", rateIdentity(c))
    }
}

func TestTokenBucket(t *testing.T) {
    _, rdb := newRedis(t)
    cfg := config.RateLimitConfig{
        Enabled:        true,
        Capacity:       2,
        RefillTokens:   1,
        RefillInterval: time.Hour,
        TTL:            time.Hour,
        KeyStrategy:    "ip",
        Prefix:         "rl",
    }
    e := echo.New()
    e.POST("/bookings", func(c echo.Context) error { return c.NoContent(http.StatusCreated) }, NewTokenBucket(cfg, rdb, nil))

    want := []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}
    for i, status := range want {
        req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
        rec := httptest.NewRecorder()
        e.ServeHTTP(rec, req)
        if rec.Code != status {
            t.Fatalf("request %d: expected %d, got %d", i, status, rec.Code)
        }
        if got := rec.Header().Get("X-RateLimit-Limit"); got != "2" {
            t.Fatalf("expected limit header 2, got %q", got)
        }
        if status == http.StatusTooManyRequests {
            secs, err := strconv.Atoi(rec.Header().Get("Retry-After"))
            if err != nil || secs <= 0 {
                t.Fatalf("expected positive Retry-After, got %q", rec.Header().Get("Retry-After"))
            }
        }
    }
}

func TestTokenBucketDisabled(t *testing.T) {
    srv, rdb := newRedis(t)
    handler := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

    tests := []struct {
        name string
        cfg  config.RateLimitConfig
        rdb  *redis.Client
    }{
        {"disabled", config.RateLimitConfig{Enabled: false, Capacity: 1}, rdb},
        {"no redis", config.RateLimitConfig{Enabled: true, Capacity: 1}, nil},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            e := echo.New()
            e.POST("/x", handler, NewTokenBucket(tt.cfg, tt.rdb, nil))
            for i := 0; i < 3; i++ {
                rec := httptest.NewRecorder()
                e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))
                if rec.Code != http.StatusNoContent {
                    t.Fatalf("expected 204, got %d", rec.Code)
                }
            }
        })
    }

    // A Redis outage lets requests through.
    srv.Close()
    e := echo.New()
    e.POST("/x", handler, NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute}, rdb, nil))
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))
    if rec.Code != http.StatusNoContent {
        t.Fatalf("expected request through during outage, got %d", rec.Code)
    }
}

func TestBuildRateKey(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)
    req.RemoteAddr = "10.0.0.1:1234"
    c := e.NewContext(req, httptest.NewRecorder())
    c.SetPath("/v1/bookings")
    c.Set(CtxUserID, "u1")

    tests := map[string]string{
        "ip":         "rl:ip:10.0.0.1",
        "user":       "rl:user:u1",
        "user_route": "rl:user:u1:route:POST /v1/bookings",
        "":           "rl:ip:10.0.0.1:user:u1:route:POST /v1/bookings",
    }
    for strategy, want := range tests {
        cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}
        if got := buildRateKey(cfg, c); got != want {
            t.Errorf("strategy %q: expected %q, got %q", strategy, want, got)
        }
    }
}

func TestRedisCache(t *testing.T) {
    _, rdb := newRedis(t)
    cfg := config.CacheConfig{
        Enabled:      true,
        Methods:      map[string]bool{http.MethodGet: true},
        TTL:          time.Minute,
        Prefix:       "cache",
        MaxBodyBytes: 1024,
    }

    var calls atomic.Int32
    e := echo.New()
    mw := NewRedisCache(cfg, rdb, nil)
    e.GET("/spaces", func(c echo.Context) error {
        calls.Add(1)
        return c.JSON(http.StatusOK, echo.Map{"q": c.QueryParam("q")})
    }, mw)
    e.GET("/missing", func(c echo.Context) error {
        calls.Add(1)
        return c.JSON(http.StatusNotFound, echo.Map{"error": "nope"})
    }, mw)
    e.GET("/big", func(c echo.Context) error {
        calls.Add(1)
        return c.String(http.StatusOK, string(make([]byte, 2048)))
    }, mw)

    get := func(path string) *httptest.ResponseRecorder {
        rec := httptest.NewRecorder()
        e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
        return rec
    }

    first := get("/spaces?q=cebu")
    second := get("/spaces?q=cebu")
    if first.Header().Get("X-Cache") != "MISS" || second.Header().Get("X-Cache") != "HIT" {
        t.Fatalf("expected MISS then HIT, got %q then %q", first.Header().Get("X-Cache"), second.Header().Get("X-Cache"))
    }
    if first.Body.String() != second.Body.String() {
        t.Fatalf("cached body differs: %q vs %q", first.Body.String(), second.Body.String())
    }
    if second.Header().Get(echo.HeaderContentType) != first.Header().Get(echo.HeaderContentType) {
        t.Fatal("expected content type to be restored")
    }
    if calls.Load() != 1 {
        t.Fatalf("expected handler to run once, ran %d times", calls.Load())
    }

    if get("/spaces?q=davao").Header().Get("X-Cache") != "MISS" {
        t.Fatal("expected a different query to miss")
    }

    calls.Store(0)
    get("/missing")
    get("/missing")
    get("/big")
    get("/big")
    if calls.Load() != 4 {
        t.Fatalf("expected errors and oversized bodies not to be cached, handler ran %d times", calls.Load())
    }
}

func TestPayloadDecodeRejectsShortInput(t *testing.T) {
    for _, bs := range [][]byte{nil, {0, 0, 0}, {0, 0, 0, 200, 0, 0, 0, 9, '{'}} {
        if _, _, _, ok := decodePayload(bs); ok {
            t.Fatalf("expected %v to be rejected", bs)
        }
    }
}
