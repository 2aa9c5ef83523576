package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ju4n3s0/GymIcesi-System/config"
	"github.com/ju4n3s0/GymIcesi-System/pkg/redis"
	"github.com/ju4n3s0/GymIcesi-System/pkg/response"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := redis.NewClient(&config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

func loginFrom(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = ip + ":40000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_SlidingWindowRejectsOverLimit(t *testing.T) {
	rdb, _ := newTestRedis(t)
	const limit = 3

	r := gin.New()
	r.POST("/login", RateLimit(rdb, limit, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < limit; i++ {
		w := loginFrom(r, "10.0.0.1")
		require.Equal(t, http.StatusOK, w.Code, "第 %d 次请求应放行", i+1)
		assert.Empty(t, w.Header().Get("Retry-After"))
	}

	w := loginFrom(r, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 10004, body.Code)

	// 其他客户端 IP 独立计数
	assert.Equal(t, http.StatusOK, loginFrom(r, "10.0.0.2").Code)
}

func TestRateLimit_RedisDownPassesThrough(t *testing.T) {
	rdb, mr := newTestRedis(t)
	r := gin.New()
	r.POST("/login", RateLimit(rdb, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	mr.Close()
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, loginFrom(r, "10.0.0.1").Code, "Redis 不可用时应降级放行")
	}
}

func TestJWTAuth_BlacklistedTokenRejected(t *testing.T) {
	rdb, _ := newTestRedis(t)
	mgr := testJWTManager()
	access, err := mgr.GenerateAccessToken("alice", "STUDENT")
	require.NoError(t, err)
	claims, err := mgr.ParseToken(access)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/p", JWTAuth(mgr, rdb), func(c *gin.Context) { c.Status(http.StatusOK) })
	call := func() int {
		req := httptest.NewRequest("GET", "/p", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call())

	require.NoError(t, rdb.BlacklistToken(context.Background(), claims.ID, time.Minute))
	assert.Equal(t, http.StatusUnauthorized, call())
}
