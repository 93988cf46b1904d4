package repository

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"harvesterbilling/apperrors"
	"harvesterbilling/models"
)

// UserRepository defines the interface for login account operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.AppUser) error
	GetUserByLogin(ctx context.Context, login string) (*models.AppUser, error)
	GetUserByID(ctx context.Context, id string) (*models.AppUser, error)
	ListUsers(ctx context.Context) ([]models.AppUser, error)
	UpdateUser(ctx context.Context, user *models.AppUser) error
	DeleteUser(ctx context.Context, id string) (bool, error)
	// VerifyPassword checks the password and rehashes legacy plaintext entries on success.
	VerifyPassword(ctx context.Context, user *models.AppUser, password string) (bool, error)
}

// KVUserRepo keeps the user registry as one JSON array under UsersKey.
type KVUserRepo struct {
	users *Collection[models.AppUser]
}

func NewKVUserRepo(store *Store) *KVUserRepo {
	return &KVUserRepo{users: store.Users()}
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func hashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CreateUser validates login id uniqueness, hashes the password and appends the user
func (r *KVUserRepo) CreateUser(ctx context.Context, user *models.AppUser) error {
	hashed, err := hashPassword(user.Password)
	if err != nil {
		return err
	}

	_, err = r.users.Mutate(ctx, func(users []models.AppUser) ([]models.AppUser, error) {
		for _, u := range users {
			if u.UserID == user.UserID {
				return nil, apperrors.ErrDuplicateLogin
			}
		}
		user.Password = hashed
		return append(users, *user), nil
	})
	return err
}

// GetUserByLogin matches the login id or the email address
func (r *KVUserRepo) GetUserByLogin(ctx context.Context, login string) (*models.AppUser, error) {
	users, err := r.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].UserID == login || (users[i].Email != "" && users[i].Email == login) {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (r *KVUserRepo) GetUserByID(ctx context.Context, id string) (*models.AppUser, error) {
	return r.users.GetByID(ctx, id)
}

func (r *KVUserRepo) ListUsers(ctx context.Context) ([]models.AppUser, error) {
	return r.users.List(ctx)
}

// UpdateUser replaces profile fields. An empty password keeps the stored one.
func (r *KVUserRepo) UpdateUser(ctx context.Context, user *models.AppUser) error {
	var hashed string
	if user.Password != "" {
		h, err := hashPassword(user.Password)
		if err != nil {
			return err
		}
		hashed = h
	}

	_, err := r.users.Mutate(ctx, func(users []models.AppUser) ([]models.AppUser, error) {
		idx := -1
		for i, u := range users {
			if u.ID == user.ID {
				idx = i
			} else if u.UserID == user.UserID {
				return nil, apperrors.ErrDuplicateLogin
			}
		}
		if idx < 0 {
			return nil, apperrors.ErrNotFound
		}
		updated := *user
		updated.Password = users[idx].Password
		if hashed != "" {
			updated.Password = hashed
		}
		users[idx] = updated
		*user = updated
		return users, nil
	})
	return err
}

func (r *KVUserRepo) DeleteUser(ctx context.Context, id string) (bool, error) {
	return r.users.Delete(ctx, id)
}

func (r *KVUserRepo) VerifyPassword(ctx context.Context, user *models.AppUser, password string) (bool, error) {
	if isBcryptHash(user.Password) {
		err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return err == nil, err
	}

	if user.Password == "" || subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
		return false, nil
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return false, err
	}
	_, err = r.users.Mutate(ctx, func(users []models.AppUser) ([]models.AppUser, error) {
		for i := range users {
			if users[i].ID == user.ID {
				users[i].Password = hashed
			}
		}
		return users, nil
	})
	if err != nil {
		return false, err
	}
	user.Password = hashed
	return true, nil
}
