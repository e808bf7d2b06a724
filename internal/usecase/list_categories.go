package usecase

import (
	"context"

	"github.com/runoshun/taskflow/internal/domain"
)

// ListCategoriesInput contains the parameters for listing categories.
type ListCategoriesInput struct{}

// ListCategoriesOutput contains the categories.
type ListCategoriesOutput struct {
	Categories []domain.Category
}

// ListCategories is the use case for listing categories.
type ListCategories struct {
	categories domain.CategoryGateway
}

// NewListCategories creates a new ListCategories use case.
func NewListCategories(categories domain.CategoryGateway) *ListCategories {
	return &ListCategories{categories: categories}
}

// Execute fetches the categories in server order.
func (uc *ListCategories) Execute(ctx context.Context, _ ListCategoriesInput) (*ListCategoriesOutput, error) {
	cats, err := uc.categories.ListCategories(ctx)
	if err != nil {
		return nil, &domain.FetchError{Resource: "categories", Err: err}
	}
	return &ListCategoriesOutput{Categories: cats}, nil
}
