package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/gatherhub/gatherhub/internal/domain"
	"github.com/gatherhub/gatherhub/internal/infra/database/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, email, passwordHash, role string) (domain.User, error) {
	user := models.User{
		Email:    email,
		Password: passwordHash,
		Role:     role,
	}

	err := r.db.WithContext(ctx).Create(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.User{}, domain.ErrDuplicate
		}
		return domain.User{}, err
	}

	return toDomainUser(user), nil
}

// GetByEmail returns the user and its password hash. The hash stays in
// this layer's callers (the auth service) and is never serialized.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, string, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, "", domain.NotFoundError{Resource: "user"}
		}
		return domain.User{}, "", err
	}
	return toDomainUser(user), user.Password, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (domain.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.NotFoundError{Resource: "user"}
		}
		return domain.User{}, err
	}
	return toDomainUser(user), nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

func toDomainUser(m models.User) domain.User {
	return domain.User{
		ID:        m.ID,
		Email:     m.Email,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}
