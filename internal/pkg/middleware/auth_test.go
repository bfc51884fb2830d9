package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"shop_engine/internal/pkg/config"
	"shop_engine/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	config.GlobalConfig.JWT.Secret = "0123456789abcdef0123456789abcdef"

	r := gin.New()
	authorized := r.Group("/", AuthMiddleware())
	authorized.GET("/me", func(c *gin.Context) {
		uid, _ := CurrentUserID(c)
		c.String(http.StatusOK, uid)
	})
	authorized.GET("/admin", AdminMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func request(t *testing.T, r *gin.Engine, path string, role int) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if role > 0 {
		token, _, err := utils.GenerateToken("user-1", role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := setupRouter()

	t.Run("Missing header is unauthorized", func(t *testing.T) {
		w := request(t, r, "/me", 0)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Valid token exposes the user id", func(t *testing.T) {
		w := request(t, r, "/me", utils.RoleUser)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-1", w.Body.String())
	})

	t.Run("Customer cannot reach admin routes", func(t *testing.T) {
		w := request(t, r, "/admin", utils.RoleUser)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Admin reaches admin routes", func(t *testing.T) {
		w := request(t, r, "/admin", utils.RoleAdmin)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Garbage token is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
