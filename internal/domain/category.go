package domain

import "time"

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#6B7280"

type Category struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      *string   `json:"icon,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetByID(id int32) (*Category, error)
	GetAll() ([]*Category, error)
	Update(id int32, name *string, color *string, icon *string) (*Category, error)
	Delete(id int32) error
}
