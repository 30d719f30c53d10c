package repositories

import (
	"context"
	"errors"

	"autoinfo-cms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// listOrder puts unpublished rows last on every driver, then newest first.
// id is the final tie-break so page windows never overlap.
const listOrder = "articles.published_at IS NULL, articles.published_at DESC, articles.created_at DESC, articles.id DESC"

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func orderedMedia(db *gorm.DB) *gorm.DB {
	return db.Order("order_index ASC, id ASC")
}

func orderedTags(db *gorm.DB) *gorm.DB {
	return db.Order("tags.id ASC")
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	err := r.db.WithContext(ctx).Omit("Category").Create(article).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.NewConflict("Slug '%s' already exists", article.Slug)
	}
	return err
}

func (r *articleRepository) detail(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags", orderedTags).
		Preload("MediaItems", orderedMedia)
}

func (r *articleRepository) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	err := r.detail(ctx).First(&article, id).Error
	return &article, err
}

func (r *articleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var article models.Article
	err := r.detail(ctx).Where("slug = ?", slug).First(&article).Error
	return &article, err
}

func (r *articleRepository) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Article{}).Where("slug = ?", slug)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *articleRepository) List(ctx context.Context, filter ArticleFilter) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Article{})

	if filter.Status != "" {
		query = query.Where("articles.status = ?", filter.Status)
	}

	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = articles.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}

	if filter.TagSlug != "" {
		query = query.Joins("JOIN article_tags ON article_tags.article_id = articles.id").
			Joins("JOIN tags ON tags.id = article_tags.tag_id").
			Where("tags.slug = ?", filter.TagSlug)
	}

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Category").
		Preload("Tags", orderedTags).
		Order(listOrder).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&articles).Error

	return articles, total, err
}

func (r *articleRepository) Search(ctx context.Context, keyword string, offset, limit int) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	pattern := likePattern(keyword)
	query := r.db.WithContext(ctx).Model(&models.Article{}).
		Where("articles.status = ?", models.StatusPublished).
		Where("(LOWER(articles.title) LIKE ? ESCAPE '!' OR LOWER(articles.content) LIKE ? ESCAPE '!')", pattern, pattern)

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Category").
		Preload("Tags", orderedTags).
		Order(listOrder).
		Offset(offset).
		Limit(limit).
		Find(&articles).Error

	return articles, total, err
}

// Update saves the article's own columns. Associations are replaced through
// ReplaceTags and ReplaceMedia.
func (r *articleRepository) Update(ctx context.Context, article *models.Article) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(article).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.NewConflict("Slug '%s' already exists", article.Slug)
	}
	return err
}

func (r *articleRepository) ReplaceTags(ctx context.Context, article *models.Article, tags []models.Tag) error {
	assoc := r.db.WithContext(ctx).Model(article).Association("Tags")
	if len(tags) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(tags)
}

func (r *articleRepository) ReplaceMedia(ctx context.Context, articleID uint, media []models.Media) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("article_id = ?", articleID).Delete(&models.Media{}).Error; err != nil {
		return err
	}
	if len(media) == 0 {
		return nil
	}
	for i := range media {
		media[i].ID = 0
		media[i].ArticleID = articleID
	}
	return db.Create(&media).Error
}

// Delete removes the article together with its media and tag links. Tags
// and the category are left untouched.
func (r *articleRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("article_id = ?", id).Delete(&models.Media{}).Error; err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM article_tags WHERE article_id = ?", id).Error; err != nil {
		return err
	}

	result := db.Delete(&models.Article{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementViews bumps the counter in one statement so concurrent readers
// never lose an update. updated_at is left alone.
func (r *articleRepository) IncrementViews(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Article{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *articleRepository) CountPublished(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Article{}).
		Where("status = ?", models.StatusPublished).
		Count(&count).Error
	return count, err
}

func (r *articleRepository) SumViews(ctx context.Context) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&models.Article{}).
		Select("COALESCE(SUM(views), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *articleRepository) Latest(ctx context.Context, n int) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags", orderedTags).
		Where("status = ?", models.StatusPublished).
		Order(listOrder).
		Limit(n).
		Find(&articles).Error
	return articles, err
}
