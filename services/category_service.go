package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"autoinfo-cms/helper"
	"autoinfo-cms/models"
	"autoinfo-cms/repositories"

	"gorm.io/gorm"
)

type CategoryService interface {
	List(ctx context.Context) ([]models.CategoryItem, error)
	Get(ctx context.Context, idOrSlug string) (*models.CategoryItem, error)
	Create(ctx context.Context, req models.CreateCategoryRequest) (*models.CategoryItem, error)
	Update(ctx context.Context, id uint, req models.UpdateCategoryRequest) (*models.CategoryItem, error)
	Delete(ctx context.Context, id uint) error
}

type categoryService struct {
	uow repositories.UnitOfWork
}

func NewCategoryService(uow repositories.UnitOfWork) CategoryService {
	return &categoryService{uow: uow}
}

func categoryNotFound() error {
	return models.NewNotFound("category not found")
}

func (s *categoryService) List(ctx context.Context) ([]models.CategoryItem, error) {
	var items []models.CategoryItem
	err := s.uow.Do(ctx, func(repos repositories.Repositories) error {
		categories, err := repos.Category.List(ctx)
		if err != nil {
			return err
		}
		items = make([]models.CategoryItem, 0, len(categories))
		for i := range categories {
			items = append(items, models.NewCategoryItem(&categories[i]))
		}
		return nil
	})
	return items, err
}

// Get returns the category with the number of its published articles.
func (s *categoryService) Get(ctx context.Context, idOrSlug string) (*models.CategoryItem, error) {
	var item *models.CategoryItem
	err := s.uow.Do(ctx, func(repos repositories.Repositories) error {
		category, err := findCategory(ctx, repos.Category, idOrSlug)
		if err != nil {
			return err
		}
		count, err := repos.Category.CountPublishedArticles(ctx, category.ID)
		if err != nil {
			return err
		}
		i := models.NewCategoryItem(category)
		i.ArticleCount = &count
		item = &i
		return nil
	})
	return item, err
}

func findCategory(ctx context.Context, repo repositories.CategoryRepository, idOrSlug string) (*models.Category, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	if id, err := strconv.ParseUint(idOrSlug, 10, 64); err == nil && id > 0 {
		category, err := repo.GetByID(ctx, uint(id))
		if err == nil {
			return category, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	category, err := repo.GetBySlug(ctx, idOrSlug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, categoryNotFound()
	}
	return category, err
}

func (s *categoryService) Create(ctx context.Context, req models.CreateCategoryRequest) (*models.CategoryItem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, models.ErrorValidation{Fields: map[string][]string{"name": {"name is a required field"}}}
	}

	var item *models.CategoryItem
	err := s.uow.Do(ctx, func(repos repositories.Repositories) error {
		if err := checkCategoryName(ctx, repos.Category, name, 0); err != nil {
			return err
		}

		slug := helper.TruncateSlug(helper.SlugOrFallback(name, "category"), models.CategorySlugMaxLen)
		if req.Slug != nil && strings.TrimSpace(*req.Slug) != "" {
			slug = strings.TrimSpace(*req.Slug)
		}
		if err := checkCategorySlug(ctx, repos.Category, slug, 0); err != nil {
			return err
		}

		category := &models.Category{
			Name:        name,
			Slug:        slug,
			Description: req.Description,
			Icon:        req.Icon,
		}
		if err := repos.Category.Create(ctx, category); err != nil {
			return err
		}
		i := models.NewCategoryItem(category)
		item = &i
		return nil
	})
	return item, err
}

func (s *categoryService) Update(ctx context.Context, id uint, req models.UpdateCategoryRequest) (*models.CategoryItem, error) {
	var item *models.CategoryItem
	err := s.uow.Do(ctx, func(repos repositories.Repositories) error {
		category, err := repos.Category.GetByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return categoryNotFound()
		}
		if err != nil {
			return err
		}

		if req.Name != nil && strings.TrimSpace(*req.Name) != category.Name {
			name := strings.TrimSpace(*req.Name)
			if err := checkCategoryName(ctx, repos.Category, name, category.ID); err != nil {
				return err
			}
			category.Name = name
		}
		if req.Slug != nil && strings.TrimSpace(*req.Slug) != category.Slug {
			slug := strings.TrimSpace(*req.Slug)
			if err := checkCategorySlug(ctx, repos.Category, slug, category.ID); err != nil {
				return err
			}
			category.Slug = slug
		}
		if req.Description != nil {
			category.Description = req.Description
		}
		if req.Icon != nil {
			category.Icon = req.Icon
		}

		if err := repos.Category.Update(ctx, category); err != nil {
			return err
		}
		i := models.NewCategoryItem(category)
		item = &i
		return nil
	})
	return item, err
}

// Delete removes the category. Its articles remain with no category.
func (s *categoryService) Delete(ctx context.Context, id uint) error {
	return s.uow.Do(ctx, func(repos repositories.Repositories) error {
		err := repos.Category.Delete(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return categoryNotFound()
		}
		return err
	})
}

func checkCategoryName(ctx context.Context, repo repositories.CategoryRepository, name string, excludeID uint) error {
	if name == "" {
		return models.ErrorValidation{Fields: map[string][]string{"name": {"name is a required field"}}}
	}
	exists, err := repo.NameExists(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return models.NewConflict("category name '%s' already exists", name)
	}
	return nil
}

func checkCategorySlug(ctx context.Context, repo repositories.CategoryRepository, slug string, excludeID uint) error {
	if slug == "" {
		return models.ErrorValidation{Fields: map[string][]string{"slug": {"slug is a required field"}}}
	}
	exists, err := repo.SlugExists(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return models.NewConflict("Slug '%s' already exists", slug)
	}
	return nil
}
