package services

import (
	"context"
	"errors"
	"fmt"

	"lms-api/internal/domain/user"
	"lms-api/internal/repository"
	lms_errors "lms-api/pkg/errors"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgRegisterFieldsRequired = "All fields are required."
	msgIdentityTaken          = "Email or username already exists."
	msgLoginFieldsRequired    = "Both email and password are required."
	msgInvalidCredentials     = "Invalid email or password."
)

type UserService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	validate *validator.Validate
}

type RegisterInput struct {
	Username string `validate:"required"`
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type LoginInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// NewUserService wires a user service. A nil hasher defaults to bcrypt.
func NewUserService(userRepo repository.UserRepository, hasher PasswordHasher) *UserService {
	if hasher == nil {
		hasher = NewBcryptHasher(bcrypt.DefaultCost)
	}
	return &UserService{
		userRepo: userRepo,
		hasher:   hasher,
		validate: newValidator(),
	}
}

// Register creates a user and returns its identifier.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (string, error) {
	if err := s.validate.Struct(in); err != nil {
		return "", lms_errors.New(lms_errors.ErrValidation, msgRegisterFieldsRequired)
	}

	if err := s.ensureIdentityAvailable(ctx, in); err != nil {
		return "", err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	newUser := &user.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		if errors.Is(err, lms_errors.ErrConflict) {
			return "", lms_errors.New(lms_errors.ErrConflict, msgIdentityTaken)
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	return newUser.ID, nil
}

// Login checks the credentials and returns the matching user's identifier.
// Unknown email and wrong password yield the same error.
func (s *UserService) Login(ctx context.Context, in LoginInput) (string, error) {
	if err := s.validate.Struct(in); err != nil {
		return "", lms_errors.New(lms_errors.ErrValidation, msgLoginFieldsRequired)
	}

	u, err := s.userRepo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, lms_errors.ErrNotFound) {
			return "", lms_errors.New(lms_errors.ErrUnauthorized, msgInvalidCredentials)
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(in.Password, u.PasswordHash) {
		return "", lms_errors.New(lms_errors.ErrUnauthorized, msgInvalidCredentials)
	}

	return u.ID, nil
}

func (s *UserService) ensureIdentityAvailable(ctx context.Context, in RegisterInput) error {
	if _, err := s.userRepo.GetUserByEmail(ctx, in.Email); err == nil {
		return lms_errors.New(lms_errors.ErrConflict, msgIdentityTaken)
	} else if !errors.Is(err, lms_errors.ErrNotFound) {
		return fmt.Errorf("find user by email: %w", err)
	}

	if _, err := s.userRepo.GetUserByUsername(ctx, in.Username); err == nil {
		return lms_errors.New(lms_errors.ErrConflict, msgIdentityTaken)
	} else if !errors.Is(err, lms_errors.ErrNotFound) {
		return fmt.Errorf("find user by username: %w", err)
	}

	return nil
}
