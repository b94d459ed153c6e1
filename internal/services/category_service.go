package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

func clampPaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// CategoryService manages a user's budget categories.
type CategoryService struct {
	storage *storage.SQLiteRepository
	reports *ReportService
}

func NewCategoryService(storage *storage.SQLiteRepository, reports *ReportService) *CategoryService {
	return &CategoryService{storage: storage, reports: reports}
}

// CategoryInput carries the writable category fields.
type CategoryInput struct {
	Name        string
	Description string
	Icon        string
	BudgetLimit core.Money
}

func (s *CategoryService) Create(ctx context.Context, userID string, in CategoryInput) (core.Category, error) {
	c := core.Category{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Icon:        in.Icon,
		BudgetLimit: in.BudgetLimit,
		CreatedAt:   time.Now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if err := s.storage.CreateCategory(ctx, c); err != nil {
		return core.Category{}, err
	}
	return c, nil
}

func (s *CategoryService) Get(ctx context.Context, userID, id string) (core.Category, error) {
	return s.storage.GetCategory(ctx, userID, id)
}

func (s *CategoryService) List(ctx context.Context, userID string, page, pageSize int) ([]core.Category, error) {
	page, pageSize = clampPaging(page, pageSize)
	return s.storage.ListCategories(ctx, userID, page, pageSize)
}

func (s *CategoryService) Update(ctx context.Context, userID, id string, in CategoryInput) (core.Category, error) {
	c, err := s.storage.GetCategory(ctx, userID, id)
	if err != nil {
		return core.Category{}, err
	}

	c.Name = strings.TrimSpace(in.Name)
	c.Description = in.Description
	c.Icon = in.Icon
	c.BudgetLimit = in.BudgetLimit
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if err := s.storage.UpdateCategory(ctx, c); err != nil {
		return core.Category{}, err
	}

	// Renaming a category changes breakdown labels.
	s.reports.Invalidate(userID)
	return c, nil
}

// Delete soft deletes the category. Transactions keep their category_id; the
// dangling reference surfaces as uncategorized in reports.
func (s *CategoryService) Delete(ctx context.Context, userID, id string) error {
	if err := s.storage.SoftDeleteCategory(ctx, userID, id); err != nil {
		return err
	}
	s.reports.Invalidate(userID)
	return nil
}
