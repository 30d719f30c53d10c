package repositories

import (
	"context"
	"errors"

	"autoinfo-cms/models"

	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	err := r.db.WithContext(ctx).Create(category).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.NewConflict("category '%s' already exists", category.Name)
	}
	return err
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	return &category, err
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error
	return &category, err
}

func (r *categoryRepository) exists(ctx context.Context, column, value string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Category{}).Where(column+" = ?", value)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *categoryRepository) NameExists(ctx context.Context, name string, excludeID uint) (bool, error) {
	return r.exists(ctx, "name", name, excludeID)
}

func (r *categoryRepository) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return r.exists(ctx, "slug", slug, excludeID)
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("id ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	err := r.db.WithContext(ctx).Save(category).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.NewConflict("category '%s' already exists", category.Name)
	}
	return err
}

// Delete detaches the category from its articles before removing it, so the
// articles survive with no category on drivers that do not enforce the
// foreign key action.
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	err := db.Model(&models.Article{}).
		Where("category_id = ?", id).
		UpdateColumn("category_id", nil).Error
	if err != nil {
		return err
	}

	result := db.Delete(&models.Category{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *categoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&count).Error
	return count, err
}

func (r *categoryRepository) CountPublishedArticles(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Article{}).
		Where("category_id = ? AND status = ?", categoryID, models.StatusPublished).
		Count(&count).Error
	return count, err
}
