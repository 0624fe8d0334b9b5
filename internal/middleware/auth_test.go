package middleware

import (
	"net/http"
	"net/http/httptest"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/util"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-secret"

func token(t *testing.T, id uint, role model.UserRole) string {
	t.Helper()
	tok, err := util.GenerateJWT(&model.User{BaseModel: model.BaseModel{ID: id}, Role: role, Email: "u@example.com"}, secret, time.Hour)
	require.NoError(t, err)
	return tok
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	whoami := func(c *gin.Context) {
		c.String(http.StatusOK, "%d", util.CurrentUserID(c))
	}
	r.GET("/public", TryAuthMiddleware(secret), whoami)
	r.GET("/private", AuthMiddleware(secret), whoami)
	r.GET("/staff", AuthMiddleware(secret), RoleMiddleware(model.Teacher), whoami)
	return r
}

func get(r *gin.Engine, path, tok string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTryAuth(t *testing.T) {
	r := newRouter()

	w := get(r, "/public", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Body.String())

	w = get(r, "/public", "garbage")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Body.String())

	w = get(r, "/public", token(t, 7, model.Student))
	assert.Equal(t, "7", w.Body.String())
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()

	assert.Equal(t, http.StatusUnauthorized, get(r, "/private", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/private", "garbage").Code)

	other, err := util.GenerateJWT(&model.User{BaseModel: model.BaseModel{ID: 3}, Role: model.Student}, "another-secret", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/private", other).Code)

	t.Run("query token", func(t *testing.T) {
		w := get(r, "/private?token="+token(t, 9, model.Student), "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "9", w.Body.String())
	})
}

func TestRoleMiddleware(t *testing.T) {
	r := newRouter()
	tests := []struct {
		role model.UserRole
		want int
	}{
		{model.Student, http.StatusForbidden},
		{model.Parent, http.StatusForbidden},
		{model.Teacher, http.StatusOK},
		{model.Admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, get(r, "/staff", token(t, 1, tt.role)).Code)
		})
	}
}
