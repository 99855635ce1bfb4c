package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"backend/entity"
	"backend/repository"
	"backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRiderTest(t *testing.T) (*gorm.DB, *gin.Engine, entity.User) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.User{}, &entity.RiderPosition{}))

	rider := entity.User{Email: "r1@x.com", Password: "x", Role: entity.RoleRider}
	require.NoError(t, db.Create(&rider).Error)

	svc := services.NewPositionService(repository.NewPositionRepository(db), services.NewPositionFeed())
	ctrl := NewRiderController(svc)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/rider/positions", func(c *gin.Context) {
		c.Set("userId", rider.ID)
		c.Set("role", rider.Role)
		c.Set("email", rider.Email)
	}, ctrl.PostPosition)
	return db, r, rider
}

func postPosition(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/rider/positions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPostPositionAcceptsZeroCoordinate(t *testing.T) {
	db, r, rider := setupRiderTest(t)

	w := postPosition(r, `{"lat":0,"lng":10.5}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var p entity.RiderPosition
	require.NoError(t, db.Where("rider_id = ?", rider.ID).First(&p).Error)
	assert.Equal(t, 0.0, p.Lat)
	assert.Equal(t, 10.5, p.Lng)

	w = postPosition(r, `{"lat":51.4779,"lng":0}`)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestPostPositionRejectsMissingOrBadCoordinates(t *testing.T) {
	_, r, _ := setupRiderTest(t)

	assert.Equal(t, http.StatusBadRequest, postPosition(r, `{"lng":10.5}`).Code)
	assert.Equal(t, http.StatusBadRequest, postPosition(r, `{"lat":35.0}`).Code)
	assert.Equal(t, http.StatusBadRequest, postPosition(r, `{"lat":95,"lng":0}`).Code)
	assert.Equal(t, http.StatusBadRequest, postPosition(r, `{"lat":0,"lng":-181}`).Code)
	assert.Equal(t, http.StatusBadRequest, postPosition(r, `not json`).Code)
}
