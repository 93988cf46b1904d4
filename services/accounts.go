package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"harvesterbilling/apperrors"
	"harvesterbilling/logger"
	"harvesterbilling/models"
	"harvesterbilling/repository"
)

type SignupRequest struct {
	UserName        string `json:"userName" validate:"required"`
	UserID          string `json:"userId" validate:"required"`
	Email           string `json:"email" validate:"omitempty,email"`
	Mobile          string `json:"mobile"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword"`
	BusinessName    string `json:"businessName"`
	OwnerName       string `json:"ownerName"`
	Address         string `json:"address"`
}

type AccountService struct {
	store  *repository.Store
	users  repository.UserRepository
	syncer CloudSyncer
}

// Signup registers a login and seeds the account's business settings.
func (s *AccountService) Signup(ctx context.Context, req SignupRequest) (*models.AppUser, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.Password = strings.TrimSpace(req.Password)
	req.ConfirmPassword = strings.TrimSpace(req.ConfirmPassword)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.Password != req.ConfirmPassword {
		return nil, apperrors.Validation("Passwords do not match")
	}

	user := &models.AppUser{
		ID:       uuid.NewString(),
		Name:     req.UserName,
		Mobile:   req.Mobile,
		UserID:   req.UserID,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	settings := models.InitialSettings()
	settings.CompanyName = req.BusinessName
	settings.OwnerName = req.OwnerName
	settings.Address = req.Address
	settings.Mobile = req.Mobile
	settings.Email = req.Email
	if err := s.store.Account(user.ID).Settings.Put(ctx, settings); err != nil {
		return nil, err
	}

	logger.Info("account registered", zap.String("account_id", user.ID), zap.String("login", user.UserID))
	pub := user.Public()
	return &pub, nil
}

// Login accepts the login id or the email address.
func (s *AccountService) Login(ctx context.Context, login, password string) (*models.AppUser, error) {
	login = strings.TrimSpace(login)
	password = strings.TrimSpace(password)

	user, err := s.users.GetUserByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	ok, err := s.users.VerifyPassword(ctx, user, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}

	s.syncer.PushAsync(user.ID)
	pub := user.Public()
	return &pub, nil
}

func (s *AccountService) ListUsers(ctx context.Context) ([]models.AppUser, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.AppUser, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	return out, nil
}

func (s *AccountService) GetUser(ctx context.Context, id string) (*models.AppUser, error) {
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperrors.ErrNotFound
	}
	pub := u.Public()
	return &pub, nil
}

// CreateUser adds a login from user management. No business settings are seeded.
func (s *AccountService) CreateUser(ctx context.Context, user models.AppUser) (*models.AppUser, error) {
	if err := validateStruct(user); err != nil {
		return nil, err
	}
	if user.Password == "" {
		return nil, apperrors.Validation("password: this field is required")
	}
	user.ID = uuid.NewString()
	if err := s.users.CreateUser(ctx, &user); err != nil {
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}

func (s *AccountService) UpdateUser(ctx context.Context, user models.AppUser) (*models.AppUser, error) {
	if err := validateStruct(user); err != nil {
		return nil, err
	}
	if err := s.users.UpdateUser(ctx, &user); err != nil {
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}

// DeleteUser removes the login only; the account's data keys stay in place.
func (s *AccountService) DeleteUser(ctx context.Context, id string) error {
	found, err := s.users.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperrors.ErrNotFound
	}
	return nil
}
