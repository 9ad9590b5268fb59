package service

import (
	"errors"
	"fmt"
	"time"

	"go-factory-planner/internal/model"
	"go-factory-planner/internal/repository"
	"go-factory-planner/pkg/jwt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrOperatorNotFound   = errors.New("operator not found")
	ErrOperatorInactive   = errors.New("operator account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
)

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	ResetPassword(email, oldPassword, newPassword string) error
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
	Authenticate(tokenString string) (*jwt.Claims, error)
	SeedAdmin(email, password string) (bool, error)
}

type LoginResponse struct {
	Token      string                 `json:"token"`
	Operator   model.OperatorResponse `json:"operator"`
	Role       string                 `json:"role"`
	Privileges []string               `json:"privileges"` // Flat privileges array for easy checking
}

type TokenValidationResponse struct {
	Operator   model.OperatorResponse `json:"operator"`
	Role       string                 `json:"role"`
	Privileges []string               `json:"privileges"`
}

type authService struct {
	operatorRepo repository.OperatorRepository
	tokens       *jwt.Manager
	now          func() time.Time
}

func NewAuthService(operatorRepo repository.OperatorRepository, tokens *jwt.Manager) AuthService {
	return &authService{
		operatorRepo: operatorRepo,
		tokens:       tokens,
		now:          time.Now,
	}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	// 1. Find operator by email
	operator, err := s.operatorRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// 2. Check if operator is active
	if !operator.IsActive {
		return nil, ErrOperatorInactive
	}

	// 3. Verify password
	if !operator.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// 4. Single Session: Generate New Token Version
	newTokenVersion := uuid.New().String()
	now := s.now()
	if err := s.operatorRepo.UpdateSession(operator.ID, newTokenVersion, now); err != nil {
		return nil, errors.New("failed to update session")
	}
	operator.TokenVersion = newTokenVersion
	operator.LastLoginAt = &now

	// 5. Generate JWT token with TokenVersion
	token, err := s.tokens.GenerateToken(operator.ID, operator.Email, operator.FullName, operator.Role, operator.Privileges(), newTokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:      token,
		Operator:   operator.ToResponse(),
		Role:       operator.Role,
		Privileges: operator.Privileges(),
	}, nil
}

func (s *authService) ResetPassword(email, oldPassword, newPassword string) error {
	operator, err := s.operatorRepo.FindByEmail(email)
	if err != nil {
		return ErrOperatorNotFound
	}

	if !operator.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}

	if err := operator.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}

	return s.operatorRepo.UpdatePassword(operator.ID, operator.Password)
}

// Authenticate validates the token and checks it is still the operator's
// current session.
func (s *authService) Authenticate(tokenString string) (*jwt.Claims, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	operator, err := s.operatorRepo.FindByID(claims.OperatorID)
	if err != nil {
		return nil, ErrOperatorNotFound
	}
	if !operator.IsActive {
		return nil, ErrOperatorInactive
	}
	if operator.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionReplaced
	}

	// role changes apply without a new login
	claims.Role = operator.Role
	claims.Privileges = operator.Privileges()
	return claims, nil
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	claims, err := s.Authenticate(tokenString)
	if err != nil {
		return nil, err
	}

	operator, err := s.operatorRepo.FindByID(claims.OperatorID)
	if err != nil {
		return nil, ErrOperatorNotFound
	}

	return &TokenValidationResponse{
		Operator:   operator.ToResponse(),
		Role:       operator.Role,
		Privileges: operator.Privileges(),
	}, nil
}

// SeedAdmin creates the default admin operator unless one with that email
// exists. It reports whether an operator was created.
func (s *authService) SeedAdmin(email, password string) (bool, error) {
	_, err := s.operatorRepo.FindByEmail(email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("look up admin operator: %w", err)
	}

	admin := &model.Operator{
		Email:    email,
		FullName: "Administrator",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	admin.CreatedBy = SystemActor.ID
	admin.UpdatedBy = SystemActor.ID
	if err := admin.SetPassword(password); err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	if err := s.operatorRepo.Create(admin); err != nil {
		return false, fmt.Errorf("create admin operator: %w", err)
	}
	return true, nil
}
