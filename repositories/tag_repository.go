package repositories

import (
	"context"
	"errors"

	"autoinfo-cms/models"

	"gorm.io/gorm"
)

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	err := r.db.WithContext(ctx).Create(tag).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.NewConflict("tag '%s' already exists", tag.Name)
	}
	return err
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
	return &tag, err
}

func (r *tagRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Tag{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}

func (r *tagRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Tag{}).Count(&count).Error
	return count, err
}

// Popular returns tags ordered by the number of articles linked to them.
// Tags with no articles are not included.
func (r *tagRepository) Popular(ctx context.Context, limit int) ([]models.PopularTag, error) {
	var results []models.PopularTag

	query := `
		SELECT
			t.id,
			t.name,
			t.slug,
			COUNT(atg.article_id) AS article_count
		FROM tags t
		JOIN article_tags atg ON atg.tag_id = t.id
		GROUP BY t.id, t.name, t.slug
		ORDER BY article_count DESC, t.name ASC
		LIMIT ?
	`

	err := r.db.WithContext(ctx).Raw(query, limit).Scan(&results).Error
	return results, err
}
