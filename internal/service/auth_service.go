package service

import (
	"context"
	"errors"
	"fmt"

	"estate_ledger/internal/model"
	"estate_ledger/internal/repository"
	"estate_ledger/internal/utils"

	"github.com/sirupsen/logrus"
)

// AuthService provides account registration and login
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (string, error)
	Login(ctx context.Context, req model.LoginRequest) (string, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
	}
}

// Register creates a new account and returns a token for it
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return "", ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         req.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration of the same email
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", ErrUserAlreadyExists
		}
		return "", fmt.Errorf("failed to create user in repository: %w", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User registered")

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}
	return token, nil
}

// Login checks the credentials and returns a fresh token
func (s *authService) Login(ctx context.Context, req model.LoginRequest) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
