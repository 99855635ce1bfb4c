package services

import (
	"testing"

	"backend/entity"
	"backend/pkg/apperr"
	"backend/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB) *UserService {
	return NewUserService(repository.NewUserRepository(db))
}

func TestUserCreateAdminOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	admin := actorFor(createUser(t, db, "admin@x.com", entity.RoleAdmin))
	agent := actorFor(createUser(t, db, "agent@x.com", entity.RoleAgent))

	in := CreateUserInput{Email: "Rider@X.com", Password: "secret1", FullName: "New Rider", Role: entity.RoleRider}

	_, err := svc.Create(in, agent)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	user, err := svc.Create(in, admin)
	require.NoError(t, err)
	assert.Equal(t, "rider@x.com", user.Email)
	assert.Equal(t, entity.RoleRider, user.Role)
	assert.NotEqual(t, "secret1", user.Password)

	_, err = svc.Create(in, admin)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	in.Email = "other@x.com"
	in.Role = "superuser"
	_, err = svc.Create(in, admin)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestUserSetRole(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	admin := actorFor(createUser(t, db, "admin@x.com", entity.RoleAdmin))
	target := createUser(t, db, "c@x.com", entity.RoleCustomer)

	require.NoError(t, svc.SetRole(target.ID, entity.RoleAgent, admin))

	var got entity.User
	require.NoError(t, db.First(&got, target.ID).Error)
	assert.Equal(t, entity.RoleAgent, got.Role)

	err := svc.SetRole(target.ID, "superuser", admin)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	err = svc.SetRole(9999, entity.RoleAgent, admin)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUserSetDisabled(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	admin := actorFor(createUser(t, db, "admin@x.com", entity.RoleAdmin))
	target := createUser(t, db, "c@x.com", entity.RoleCustomer)

	require.NoError(t, svc.SetDisabled(target.ID, true, admin))

	var got entity.User
	require.NoError(t, db.First(&got, target.ID).Error)
	assert.True(t, got.Disabled)

	err := svc.SetDisabled(admin.ID, true, admin)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "an admin cannot lock themselves out")

	require.NoError(t, svc.SetDisabled(target.ID, false, admin))
	require.NoError(t, db.First(&got, target.ID).Error)
	assert.False(t, got.Disabled)
}
