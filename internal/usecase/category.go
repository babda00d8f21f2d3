package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/gatherhub/gatherhub/internal/domain"
	"github.com/gatherhub/gatherhub/internal/service"
)

const defaultCategoryColor = "#007bff"

// CategoryInput is the payload for creating or updating a category.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type CategoryUsecase struct {
	categories CategoryRepository
	policy     *service.AccessPolicy
}

func NewCategoryUsecase(categories CategoryRepository, policy *service.AccessPolicy) *CategoryUsecase {
	return &CategoryUsecase{
		categories: categories,
		policy:     policy,
	}
}

func (uc *CategoryUsecase) List(ctx context.Context) ([]domain.Category, error) {
	return uc.categories.List(ctx)
}

func (uc *CategoryUsecase) Get(ctx context.Context, id uint) (domain.Category, error) {
	return uc.categories.GetByID(ctx, id)
}

func (uc *CategoryUsecase) Create(ctx context.Context, requester domain.Requester, input CategoryInput) (domain.Category, error) {
	if !uc.policy.CanManageCategories(requester) {
		return domain.Category{}, domain.ErrForbidden
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return domain.Category{}, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if input.Color == "" {
		input.Color = defaultCategoryColor
	}

	return uc.categories.Create(ctx, domain.Category{
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
	})
}

func (uc *CategoryUsecase) Update(ctx context.Context, requester domain.Requester, id uint, input CategoryInput) (domain.Category, error) {
	if !uc.policy.CanManageCategories(requester) {
		return domain.Category{}, domain.ErrForbidden
	}

	category, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return domain.Category{}, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		category.Name = name
	}
	if input.Description != "" {
		category.Description = input.Description
	}
	if input.Color != "" {
		category.Color = input.Color
	}

	return uc.categories.Update(ctx, category)
}

func (uc *CategoryUsecase) Delete(ctx context.Context, requester domain.Requester, id uint) error {
	if !uc.policy.CanManageCategories(requester) {
		return domain.ErrForbidden
	}
	return uc.categories.Delete(ctx, id)
}
