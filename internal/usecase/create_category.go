package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskflow/internal/domain"
)

// CreateCategoryInput contains the parameters for creating a category.
type CreateCategoryInput struct {
	Name  string
	Color string // #RRGGBB, empty = default palette color
}

// CreateCategoryOutput contains the created category.
type CreateCategoryOutput struct {
	Category *domain.Category
}

// CreateCategory is the use case for creating a category.
type CreateCategory struct {
	categories domain.CategoryGateway
	logger     domain.Logger
}

// NewCreateCategory creates a new CreateCategory use case.
func NewCreateCategory(categories domain.CategoryGateway, logger domain.Logger) *CreateCategory {
	return &CreateCategory{
		categories: categories,
		logger:     logger,
	}
}

// Execute validates and creates the category.
func (uc *CreateCategory) Execute(ctx context.Context, in CreateCategoryInput) (*CreateCategoryOutput, error) {
	draft := domain.CategoryDraft{Name: in.Name, Color: in.Color}.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	cat, err := uc.categories.CreateCategory(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	uc.logger.Info("", "category", "created "+cat.Name)
	return &CreateCategoryOutput{Category: cat}, nil
}
