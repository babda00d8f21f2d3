package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/gatherhub/gatherhub/internal/domain"
	"github.com/gatherhub/gatherhub/internal/infra/database/models"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}

	result := make([]domain.Category, 0, len(categories))
	for _, c := range categories {
		result = append(result, toDomainCategory(c))
	}
	return result, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (domain.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Category{}, domain.NotFoundError{Resource: "category"}
		}
		return domain.Category{}, err
	}
	return toDomainCategory(category), nil
}

func (r *CategoryRepository) Create(ctx context.Context, category domain.Category) (domain.Category, error) {
	m := models.Category{
		Name:        category.Name,
		Description: category.Description,
		Color:       category.Color,
	}

	err := r.db.WithContext(ctx).Create(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Category{}, domain.ErrDuplicate
		}
		return domain.Category{}, err
	}
	return toDomainCategory(m), nil
}

func (r *CategoryRepository) Update(ctx context.Context, category domain.Category) (domain.Category, error) {
	var m models.Category
	err := r.db.WithContext(ctx).
		Where("id = ?", category.ID).
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Category{}, domain.NotFoundError{Resource: "category"}
		}
		return domain.Category{}, err
	}

	m.Name = category.Name
	m.Description = category.Description
	m.Color = category.Color

	err = r.db.WithContext(ctx).Save(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Category{}, domain.ErrDuplicate
		}
		return domain.Category{}, err
	}
	return toDomainCategory(m), nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "category"}
	}
	return nil
}

func toDomainCategory(m models.Category) domain.Category {
	return domain.Category{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Color:       m.Color,
	}
}
