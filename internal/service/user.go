package service

import (
	"context"
	"fmt"

	"surplus-marketplace/internal/model"
	"surplus-marketplace/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, in *ProfileUpdate) (*model.User, error)
	DeleteAccount(ctx context.Context, userID string) error

	GetCart(ctx context.Context, userID string) ([]*model.CartItem, error)
	AddToCart(ctx context.Context, userID, listingID string, quantity int) ([]*model.CartItem, error)
	RemoveFromCart(ctx context.Context, userID, listingID string) ([]*model.CartItem, error)
}

type ProfileUpdate struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Image    string
}

type userServiceImpl struct {
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
}

func NewUserService(userRepo repository.UserRepository, listingRepo repository.ListingRepository) UserService {
	return &userServiceImpl{
		userRepo:    userRepo,
		listingRepo: listingRepo,
	}
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID string, in *ProfileUpdate) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Email != "" {
		user.Email = in.Email
	}
	if in.Phone != "" {
		user.Phone = in.Phone
	}
	if in.Image != "" {
		user.Image = in.Image
	}
	if in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userServiceImpl) DeleteAccount(ctx context.Context, userID string) error {
	return s.userRepo.Delete(ctx, userID)
}

// GetCart filters out entries whose listing was deleted since it was added.
func (s *userServiceImpl) GetCart(ctx context.Context, userID string) ([]*model.CartItem, error) {
	items, err := s.userRepo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	valid := make([]*model.CartItem, 0, len(items))
	for _, item := range items {
		if item.Listing != nil {
			valid = append(valid, item)
		}
	}

	return valid, nil
}

func (s *userServiceImpl) AddToCart(ctx context.Context, userID, listingID string, quantity int) ([]*model.CartItem, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}
	if _, err := s.listingRepo.FindByID(ctx, listingID); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpsertCartItem(ctx, userID, listingID, quantity); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

func (s *userServiceImpl) RemoveFromCart(ctx context.Context, userID, listingID string) ([]*model.CartItem, error) {
	if err := s.userRepo.RemoveCartItem(ctx, userID, listingID); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}
