package testutils

import (
	"fmt"
	"time"

	"autoinfo-cms/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateTestCategory creates a category with a unique name and slug.
func CreateTestCategory(db *gorm.DB, opts ...CategoryOption) *models.Category {
	uniqueID := uuid.NewString()[:8]
	category := &models.Category{
		Name: fmt.Sprintf("category %s", uniqueID),
		Slug: fmt.Sprintf("category-%s", uniqueID),
	}

	for _, opt := range opts {
		opt(category)
	}

	if err := db.Create(category).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test category: %v", err))
	}
	return category
}

// CategoryOption configures a test category
type CategoryOption func(*models.Category)

func WithCategoryName(name, slug string) CategoryOption {
	return func(c *models.Category) {
		c.Name = name
		c.Slug = slug
	}
}

// CreateTestTag creates a tag with the given name and a slug derived from it.
func CreateTestTag(db *gorm.DB, name, slug string) *models.Tag {
	tag := &models.Tag{Name: name, Slug: slug}
	if err := db.Create(tag).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test tag: %v", err))
	}
	return tag
}

// CreateTestArticle creates a published article with a unique slug.
func CreateTestArticle(db *gorm.DB, opts ...ArticleOption) *models.Article {
	uniqueID := uuid.NewString()[:8]
	now := time.Now().UTC()
	article := &models.Article{
		Title:       fmt.Sprintf("Article %s", uniqueID),
		Slug:        fmt.Sprintf("article-%s", uniqueID),
		Content:     "Test article content",
		AuthorName:  models.DefaultAuthorName,
		Status:      models.StatusPublished,
		IsOriginal:  true,
		PublishedAt: &now,
	}

	for _, opt := range opts {
		opt(article)
	}

	if err := db.Omit("Category").Create(article).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test article: %v", err))
	}
	return article
}

// ArticleOption configures a test article
type ArticleOption func(*models.Article)

func WithTitle(title string) ArticleOption {
	return func(a *models.Article) {
		a.Title = title
	}
}

func WithContent(content string) ArticleOption {
	return func(a *models.Article) {
		a.Content = content
	}
}

func WithStatus(status models.ArticleStatus) ArticleOption {
	return func(a *models.Article) {
		a.Status = status
	}
}

func WithCategory(category *models.Category) ArticleOption {
	return func(a *models.Article) {
		a.CategoryID = &category.ID
	}
}

func WithTags(tags ...models.Tag) ArticleOption {
	return func(a *models.Article) {
		a.Tags = tags
	}
}

func WithMedia(media ...models.Media) ArticleOption {
	return func(a *models.Article) {
		a.MediaItems = media
	}
}

func WithPublishedAt(t *time.Time) ArticleOption {
	return func(a *models.Article) {
		a.PublishedAt = t
	}
}

func WithViews(views int64) ArticleOption {
	return func(a *models.Article) {
		a.Views = views
	}
}
