package repository

import (
	"strings"

	"backend/entity"

	"gorm.io/gorm"
)

// UserRepository only talks to the users table.
type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByEmail(email string) (*entity.User, error) {
	var user entity.User
	if err := r.DB.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) CountByEmail(email string) (int64, error) {
	var count int64
	if err := r.DB.Model(&entity.User{}).Where("email = ?", strings.ToLower(email)).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepository) Create(user *entity.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) Update(userID uint, updates map[string]any) error {
	return r.DB.Model(&entity.User{}).Where("id = ?", userID).Updates(updates).Error
}

func (r *UserRepository) FindByID(id uint) (*entity.User, error) {
	var user entity.User
	if err := r.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) List(limit int) ([]entity.User, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	var users []entity.User
	err := r.DB.Order("id DESC").Limit(limit).Find(&users).Error
	return users, err
}

// ActiveRiders is the dispatch roster: rider role, not disabled.
func (r *UserRepository) ActiveRiders(limit int) ([]entity.User, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	var riders []entity.User
	err := r.DB.Where("role = ? AND disabled = ?", entity.RoleRider, false).
		Limit(limit).Find(&riders).Error
	return riders, err
}

// IDsByEmails resolves customer emails to user ids for bulk import.
func (r *UserRepository) IDsByEmails(emails []string) (map[string]uint, error) {
	out := make(map[string]uint, len(emails))
	if len(emails) == 0 {
		return out, nil
	}
	lowered := make([]string, 0, len(emails))
	for _, e := range emails {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(e)))
	}
	var rows []struct {
		ID    uint
		Email string
	}
	if err := r.DB.Model(&entity.User{}).Select("id, email").
		Where("email IN ?", lowered).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[strings.ToLower(row.Email)] = row.ID
	}
	return out, nil
}
