package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"physics_edu_backend/internal/config"
	"physics_edu_backend/internal/middleware"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/service"
	"physics_edu_backend/internal/util"
	"physics_edu_backend/pkg/database"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQLite("file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour}}
	users := repository.NewUserRepository(db)
	profiles := repository.NewProfileRepository(db)
	notifications := repository.NewNotificationRepository(db)
	preferences := repository.NewPreferenceRepository(db)
	grades := repository.NewGradeRepository(db)
	topics := repository.NewTopicRepository(db)

	auth := NewAuthController(service.NewAuthService(db, users, profiles, preferences, cfg))
	user := NewUserController(service.NewUserService(users, profiles, notifications, grades))
	catalog := NewCatalogController(service.NewCatalogService(
		grades, topics, repository.NewQuizRepository(db), repository.NewSimulationRepository(db),
		service.NewCatalogCache(nil, 0),
	))
	health := NewHealthController(db, nil)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/health", health.HealthCheck)
	api.POST("/auth/register", auth.Register)
	api.POST("/auth/login", auth.Login)
	api.GET("/topics/:slug", catalog.TopicDetail)

	authed := api.Group("", middleware.AuthMiddleware(testSecret))
	authed.GET("/profile", user.GetProfile)
	admin := authed.Group("/admin", middleware.RoleMiddleware(model.Admin))
	admin.PUT("/users/:id/status", user.SetUserStatus)
	return r
}

func do(r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestHealthCheck(t *testing.T) {
	r := newTestRouter(t)
	w, env := do(r, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","components":{"database":"up","cache":"disabled"}}`, string(env.Data))
}

func TestAuthFlow(t *testing.T) {
	r := newTestRouter(t)

	register := gin.H{"name": "Ada", "email": "Ada@Example.com", "password": "secret123"}
	w, env := do(r, http.MethodPost, "/api/auth/register", "", register)
	require.Equal(t, http.StatusCreated, w.Code, env.Message)

	var result service.AuthResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "ada@example.com", result.User.Email)
	assert.Equal(t, model.Student, result.User.Role)

	t.Run("duplicate email", func(t *testing.T) {
		w, _ := do(r, http.MethodPost, "/api/auth/register", "", register)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("admin self registration", func(t *testing.T) {
		w, _ := do(r, http.MethodPost, "/api/auth/register", "", gin.H{
			"name": "Eve", "email": "eve@example.com", "password": "secret123", "role": "admin",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		w, _ := do(r, http.MethodPost, "/api/auth/register", "", gin.H{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("login", func(t *testing.T) {
		w, env := do(r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ada@example.com", "password": "secret123"})
		require.Equal(t, http.StatusOK, w.Code)
		var login service.AuthResult
		require.NoError(t, json.Unmarshal(env.Data, &login))
		assert.NotEmpty(t, login.Token)

		w, _ = do(r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ada@example.com", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("profile", func(t *testing.T) {
		w, _ := do(r, http.MethodGet, "/api/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w, env := do(r, http.MethodGet, "/api/profile", result.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var view service.ProfileView
		require.NoError(t, json.Unmarshal(env.Data, &view))
		assert.Equal(t, "Ada", view.User.Name)
		require.NotNil(t, view.StudentProfile)
		assert.Zero(t, view.UnreadCount)
	})

	t.Run("students cannot manage users", func(t *testing.T) {
		w, _ := do(r, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/status", result.User.ID), result.Token, gin.H{"disabled": true})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestUnknownTopic(t *testing.T) {
	r := newTestRouter(t)
	w, env := do(r, http.MethodGet, "/api/topics/no-such-topic", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, http.StatusNotFound, env.Code)
}

func TestDuplicateGradeConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := database.OpenSQLite("file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	users := repository.NewUserRepository(db)
	staff := &model.User{Name: "Marie", Email: "marie@example.com", Password: "x", Role: model.Teacher}
	require.NoError(t, users.Create(staff))
	token, err := util.GenerateJWT(staff, testSecret, time.Hour)
	require.NoError(t, err)

	catalogAdmin := service.NewCatalogAdminService(db, repository.NewGradeRepository(db), repository.NewTopicRepository(db),
		repository.NewTopicResourceRepository(db), service.NewCatalogCache(nil, 0))
	admin := NewAdminController(catalogAdmin, nil, nil, nil)

	r := gin.New()
	group := r.Group("/api/admin", middleware.AuthMiddleware(testSecret), middleware.RoleMiddleware(model.Teacher))
	group.POST("/grades", admin.CreateGrade)

	grade := gin.H{"name": "Grade 10", "order": 10}
	w, env := do(r, http.MethodPost, "/api/admin/grades", token, grade)
	require.Equal(t, http.StatusCreated, w.Code, env.Message)

	w, env = do(r, http.MethodPost, "/api/admin/grades", token, grade)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, http.StatusConflict, env.Code)
}
