package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLoginRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(perMinute int) *gin.Engine {
		r := gin.New()
		r.POST("/login", NewLoginRateLimiter(perMinute).Middleware(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return r
	}

	t.Run("BurstThenThrottle", func(t *testing.T) {
		r := newRouter(3)

		for i := 0; i < 3; i++ {
			req, _ := http.NewRequest(http.MethodPost, "/login", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}

		req, _ := http.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("PerIPBudget", func(t *testing.T) {
		r := newRouter(1)

		first, _ := http.NewRequest(http.MethodPost, "/login", nil)
		first.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, first)
		assert.Equal(t, http.StatusOK, w.Code)

		// a different client is not affected by the first one's spend
		other, _ := http.NewRequest(http.MethodPost, "/login", nil)
		other.RemoteAddr = "10.0.0.2:1234"
		w = httptest.NewRecorder()
		r.ServeHTTP(w, other)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestUserIDHelper(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("SetByMiddleware", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("userID", "user-1")
		assert.Equal(t, "user-1", UserID(c))
	})

	t.Run("Anonymous", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		assert.Equal(t, "", UserID(c))
	})
}
