package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend/entity"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func setupAuthTest(t *testing.T, roles ...string) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.User{}))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/secured", AuthMiddleware(db, testSecret, roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": utils.CurrentRole(c)})
	})
	return db, r
}

func hit(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secured", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMissingOrBadToken(t *testing.T) {
	_, r := setupAuthTest(t)

	assert.Equal(t, http.StatusUnauthorized, hit(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, hit(r, "not-a-jwt").Code)

	forged, err := utils.GenerateToken(1, entity.RoleAdmin, "wrong-secret", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, hit(r, forged).Code)
}

func TestAuthDisabledMidSession(t *testing.T) {
	db, r := setupAuthTest(t)

	user := entity.User{Email: "c@x.com", Password: "x", Role: entity.RoleCustomer}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateToken(user.ID, user.Role, testSecret, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, hit(r, token).Code)

	require.NoError(t, db.Model(&entity.User{}).Where("id = ?", user.ID).Update("disabled", true).Error)
	assert.Equal(t, http.StatusUnauthorized, hit(r, token).Code, "same token must stop working once the account is disabled")
}

func TestAuthRoleFromRowNotToken(t *testing.T) {
	db, r := setupAuthTest(t, entity.RoleAdmin)

	user := entity.User{Email: "a@x.com", Password: "x", Role: entity.RoleAgent}
	require.NoError(t, db.Create(&user).Error)

	// token still says agent after the promotion; the row wins
	token, err := utils.GenerateToken(user.ID, entity.RoleAgent, testSecret, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, hit(r, token).Code)

	require.NoError(t, db.Model(&entity.User{}).Where("id = ?", user.ID).Update("role", entity.RoleAdmin).Error)
	assert.Equal(t, http.StatusOK, hit(r, token).Code)
}

func TestAuthRoleGate(t *testing.T) {
	db, r := setupAuthTest(t, entity.RoleAdmin, entity.RoleAgent)

	rider := entity.User{Email: "r@x.com", Password: "x", Role: entity.RoleRider}
	require.NoError(t, db.Create(&rider).Error)
	agent := entity.User{Email: "a@x.com", Password: "x", Role: entity.RoleAgent}
	require.NoError(t, db.Create(&agent).Error)

	riderToken, err := utils.GenerateToken(rider.ID, rider.Role, testSecret, time.Hour)
	require.NoError(t, err)
	agentToken, err := utils.GenerateToken(agent.ID, agent.Role, testSecret, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, hit(r, riderToken).Code)
	assert.Equal(t, http.StatusOK, hit(r, agentToken).Code)
}
