package domain

import (
	"strings"
	"time"
)

// Category is a named, colored label. Tasks refer to categories by name only.
type Category struct {
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Color     string    `json:"color" yaml:"color"`
}

// CategoryPalette is the fixed set of suggested category colors.
var CategoryPalette = []string{
	"#818CF8", // indigo
	"#F472B6", // pink
	"#34D399", // emerald
	"#F87171", // red
	"#FBBF24", // amber
	"#60A5FA", // blue
	"#A78BFA", // violet
	"#FB923C", // orange
}

// DefaultCategoryColor is used when no color is given.
const DefaultCategoryColor = "#818CF8"

// CategoryDraft is the input for creating a category.
type CategoryDraft struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color" validate:"hexcolor"`
}

// Normalize trims the name and applies the default color.
func (d CategoryDraft) Normalize() CategoryDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.Color = strings.TrimSpace(d.Color)
	if d.Color == "" {
		d.Color = DefaultCategoryColor
	}
	return d
}

// Validate checks the draft. Call Normalize first.
func (d CategoryDraft) Validate() error {
	return validationError(validate.Struct(d))
}

// FindCategory returns the category with the given name, or nil.
func FindCategory(categories []Category, name string) *Category {
	for i := range categories {
		if categories[i].Name == name {
			return &categories[i]
		}
	}
	return nil
}
