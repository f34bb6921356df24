package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
}

// DI
func NewCategoryUsecase(categoryRepo repo.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{categoryRepo: categoryRepo}
}

func (u *CategoryUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	items, err := u.categoryRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *CategoryUsecase) GetCategory(ctx context.Context, categoryID string) (model.Category, error) {
	if categoryID == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	c, err := u.categoryRepo.FindByID(ctx, categoryID)
	if err == repo.ErrNotFound {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

type CategoryInput struct {
	Name        string
	Description string
	Slug        string
	ImageURL    string
}

func (in CategoryInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if strings.TrimSpace(in.Slug) == "" {
		return NewHTTPError(http.StatusBadRequest, "slug is required")
	}
	return nil
}

func (u *CategoryUsecase) CreateCategory(ctx context.Context, in CategoryInput) (model.Category, error) {
	if err := in.validate(); err != nil {
		return model.Category{}, err
	}

	created, err := u.categoryRepo.Create(ctx, model.Category{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Slug:        strings.TrimSpace(in.Slug),
		ImageURL:    in.ImageURL,
	})
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *CategoryUsecase) UpdateCategory(ctx context.Context, categoryID string, in CategoryInput) (model.Category, error) {
	if categoryID == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid category id")
	}
	if err := in.validate(); err != nil {
		return model.Category{}, err
	}

	c, err := u.categoryRepo.FindByID(ctx, categoryID)
	if err == repo.ErrNotFound {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	c.Name = strings.TrimSpace(in.Name)
	c.Description = in.Description
	c.Slug = strings.TrimSpace(in.Slug)
	c.ImageURL = in.ImageURL

	if err := u.categoryRepo.Update(ctx, c); err != nil {
		if err == repo.ErrNotFound {
			return model.Category{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

func (u *CategoryUsecase) DeleteCategory(ctx context.Context, categoryID string) error {
	if categoryID == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	if err := u.categoryRepo.Delete(ctx, categoryID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
