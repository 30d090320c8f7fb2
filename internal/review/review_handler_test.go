package review_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-perf/internal/middleware"
	"go-perf/internal/review"
)

type stubCreateService struct {
	review.Service
	calls int
	resp  review.ReviewResponse
	err   error
}

func (s *stubCreateService) Create(ctx context.Context, actorID string, req review.CreateReviewRequest) (review.ReviewResponse, error) {
	s.calls++
	return s.resp, s.err
}

func setupCreateRouter(svc review.Service, rdb *redis.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := review.NewHandlerWithRedis(svc, rdb)
	router := gin.New()
	router.POST("/reviews",
		func(c *gin.Context) {
			c.Set("user_id", "emp-1")
			c.Next()
		},
		middleware.Idempotency(rdb),
		handler.Create,
	)
	return router
}

func postCreate(t *testing.T, router *gin.Engine, idempKey string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(gin.H{
		"employee_id": "6f1e1a3e-4b7f-4a2e-9c25-0a1b2c3d4e5f",
		"cycle_id":    "0c9d8e7f-6a5b-4c3d-2e1f-a0b1c2d3e4f5",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if idempKey != "" {
		req.Header.Set("Idempotency-Key", idempKey)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandlerCreateIdempotency(t *testing.T) {
	resp := review.ReviewResponse{
		ID:         "rev-1",
		EmployeeID: "6f1e1a3e-4b7f-4a2e-9c25-0a1b2c3d4e5f",
		CycleID:    "0c9d8e7f-6a5b-4c3d-2e1f-a0b1c2d3e4f5",
		Status:     "created",
	}
	payload, err := json.Marshal(resp)
	require.NoError(t, err)

	cacheKey := fmt.Sprintf("idemp:%s:%s:%s", "/reviews", "emp-1", "key-123")
	lockKey := cacheKey + ":lock"

	t.Run("success caches the response and releases the lock", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		svc := &stubCreateService{resp: resp}
		router := setupCreateRouter(svc, rdb)

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, payload, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		w := postCreate(t, router, "key-123")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, svc.calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retry after success replays the cached response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		svc := &stubCreateService{resp: resp}
		router := setupCreateRouter(svc, rdb)

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, payload, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)
		mock.ExpectGet(cacheKey).SetVal(string(payload))

		first := postCreate(t, router, "key-123")
		second := postCreate(t, router, "key-123")

		assert.Equal(t, http.StatusCreated, first.Code)
		assert.Equal(t, http.StatusOK, second.Code)
		assert.Contains(t, second.Body.String(), "rev-1")
		assert.Equal(t, 1, svc.calls, "replay must not reach the service")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("service failure releases the lock without caching", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		svc := &stubCreateService{err: assert.AnError}
		router := setupCreateRouter(svc, rdb)

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectDel(lockKey).SetVal(1)

		w := postCreate(t, router, "key-123")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
