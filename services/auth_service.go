package services

import (
	"strings"
	"time"

	"backend/entity"
	"backend/pkg/apperr"
	"backend/repository"
	"backend/utils"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles signup, login and self-profile access.
type AuthService struct {
	userRepo  *repository.UserRepository
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAuthService(repo *repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		userRepo:  repo,
		jwtSecret: secret,
		jwtTTL:    ttl,
	}
}

// Register creates a customer account. Self-signup never grants any other role.
func (s *AuthService) Register(email, password, fullName string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperr.Validation("email is required")
	}
	if len(password) < 6 {
		return nil, apperr.Validation("password must be at least 6 characters")
	}

	count, err := s.userRepo.CountByEmail(email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.Conflict("email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:    email,
		Password: string(hashed),
		FullName: strings.TrimSpace(fullName),
		Role:     entity.RoleCustomer,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a JWT. A disabled account gets the
// same answer as a bad password so the endpoint leaks nothing.
func (s *AuthService) Login(email, password string) (string, *entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return "", nil, apperr.Auth("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apperr.Auth("invalid credentials")
	}
	if user.Disabled {
		return "", nil, apperr.Auth("invalid credentials")
	}

	token, err := utils.GenerateToken(user.ID, user.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// ResolveSession maps a verified token's user id back to a live profile.
// Returns an auth error when the profile is gone or disabled; the middleware
// aborts on that, which is what kills the session.
func (s *AuthService) ResolveSession(userID uint) (*entity.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperr.Auth("not authenticated")
	}
	if user.Disabled {
		return nil, apperr.Auth("not authenticated")
	}
	return user, nil
}

func (s *AuthService) GetProfile(userID uint) (*entity.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

// UpdateProfile lets a user change their own display name. Role and the
// disabled flag are admin-only and live in UserService.
func (s *AuthService) UpdateProfile(userID uint, fullName string) (*entity.User, error) {
	if strings.TrimSpace(fullName) == "" {
		return nil, apperr.Validation("fullName is required")
	}
	if err := s.userRepo.Update(userID, map[string]any{"full_name": strings.TrimSpace(fullName)}); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(userID)
}
