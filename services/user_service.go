package services

import (
	"strings"

	"backend/entity"
	"backend/pkg/apperr"
	"backend/repository"

	"golang.org/x/crypto/bcrypt"
)

// UserService is the admin side of account management. Self-service profile
// access lives in AuthService.
type UserService struct {
	Repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{Repo: repo}
}

func (s *UserService) List(actor Actor) ([]entity.User, error) {
	if !CanManageUsers(actor) {
		return nil, apperr.Forbidden("forbidden")
	}
	return s.Repo.List(200)
}

type CreateUserInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"fullName" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

func (s *UserService) Create(in CreateUserInput, actor Actor) (*entity.User, error) {
	if !CanManageUsers(actor) {
		return nil, apperr.Forbidden("forbidden")
	}
	if !entity.ValidRole(in.Role) {
		return nil, apperr.Validation("unknown role: %s", in.Role)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	count, err := s.Repo.CountByEmail(email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.Conflict("email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:    email,
		Password: string(hashed),
		FullName: strings.TrimSpace(in.FullName),
		Role:     in.Role,
	}
	if err := s.Repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) SetRole(userID uint, role string, actor Actor) error {
	if !CanManageUsers(actor) {
		return apperr.Forbidden("forbidden")
	}
	if !entity.ValidRole(role) {
		return apperr.Validation("unknown role: %s", role)
	}
	if _, err := s.Repo.FindByID(userID); err != nil {
		return apperr.NotFound("user not found")
	}
	return s.Repo.Update(userID, map[string]any{"role": role})
}

// SetDisabled flips the disabled flag. A disabled user's next authenticated
// request fails at the middleware, which is what ends their session.
func (s *UserService) SetDisabled(userID uint, disabled bool, actor Actor) error {
	if !CanManageUsers(actor) {
		return apperr.Forbidden("forbidden")
	}
	if userID == actor.ID && disabled {
		return apperr.Validation("cannot disable your own account")
	}
	if _, err := s.Repo.FindByID(userID); err != nil {
		return apperr.NotFound("user not found")
	}
	return s.Repo.Update(userID, map[string]any{"disabled": disabled})
}
