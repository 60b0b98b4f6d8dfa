package service

import (
	"strings"

	"github.com/moneta-app/moneta-backend/internal/domain"
	"github.com/moneta-app/moneta-backend/internal/websocket"
)

// CategoryService handles expense category business logic
type CategoryService struct {
	categoryRepo   domain.CategoryRepository
	eventPublisher websocket.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *CategoryService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *CategoryService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CreateCategoryInput holds the input for creating a category
type CreateCategoryInput struct {
	Name  string
	Color *string
	Icon  *string
}

// CreateCategory creates a new category with validation
func (s *CategoryService) CreateCategory(input CreateCategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	// Default color so the frontend always has something to render
	color := domain.DefaultCategoryColor
	if input.Color != nil && strings.TrimSpace(*input.Color) != "" {
		color = strings.TrimSpace(*input.Color)
	}

	category, err := s.categoryRepo.Create(&domain.Category{
		Name:  name,
		Color: color,
		Icon:  input.Icon,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.CategoryCreated(category))
	return category, nil
}

// GetCategories retrieves all categories
func (s *CategoryService) GetCategories() ([]*domain.Category, error) {
	return s.categoryRepo.GetAll()
}

// GetCategoryByID retrieves a category by ID
func (s *CategoryService) GetCategoryByID(id int32) (*domain.Category, error) {
	return s.categoryRepo.GetByID(id)
}

// UpdateCategoryInput holds the input for updating a category
type UpdateCategoryInput struct {
	Name  *string
	Color *string
	Icon  *string
}

// UpdateCategory updates an existing category with validation
func (s *CategoryService) UpdateCategory(id int32, input UpdateCategoryInput) (*domain.Category, error) {
	var name *string
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, domain.ErrNameRequired
		}
		if len(trimmed) > domain.MaxNameLength {
			return nil, domain.ErrNameTooLong
		}
		name = &trimmed
	}

	category, err := s.categoryRepo.Update(id, name, input.Color, input.Icon)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.CategoryUpdated(category))
	return category, nil
}

// DeleteCategory deletes a category by ID
func (s *CategoryService) DeleteCategory(id int32) error {
	if err := s.categoryRepo.Delete(id); err != nil {
		return err
	}

	s.publishEvent(websocket.CategoryDeleted(map[string]int32{"id": id}))
	return nil
}
