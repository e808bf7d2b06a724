package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskflow/internal/domain"
)

// DeleteCategoryInput contains the parameters for deleting a category.
type DeleteCategoryInput struct {
	Confirm domain.Confirmer // Required yes/no gate
	ID      string
}

// DeleteCategoryOutput is empty on success.
type DeleteCategoryOutput struct{}

// DeleteCategory is the use case for deleting a category.
// Tasks carrying the category name are not touched.
type DeleteCategory struct {
	categories domain.CategoryGateway
	logger     domain.Logger
}

// NewDeleteCategory creates a new DeleteCategory use case.
func NewDeleteCategory(categories domain.CategoryGateway, logger domain.Logger) *DeleteCategory {
	return &DeleteCategory{
		categories: categories,
		logger:     logger,
	}
}

// Execute asks for confirmation and deletes the category.
func (uc *DeleteCategory) Execute(ctx context.Context, in DeleteCategoryInput) (*DeleteCategoryOutput, error) {
	if in.Confirm == nil {
		return nil, domain.ErrNotConfirmed
	}
	ok, err := in.Confirm.Confirm(fmt.Sprintf("Delete category %s?", in.ID))
	if err != nil {
		return nil, fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotConfirmed
	}

	if err := uc.categories.DeleteCategory(ctx, in.ID); err != nil {
		return nil, fmt.Errorf("delete category: %w", err)
	}
	uc.logger.Info("", "category", "deleted "+in.ID)
	return &DeleteCategoryOutput{}, nil
}
