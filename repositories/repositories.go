package repositories

//go:generate mockgen -source=repositories.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"autoinfo-cms/models"

	"gorm.io/gorm"
)

// ArticleFilter narrows an article listing. Empty strings disable a filter.
type ArticleFilter struct {
	Status       models.ArticleStatus
	CategorySlug string
	TagSlug      string
	Offset       int
	Limit        int
}

type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id uint) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	List(ctx context.Context, filter ArticleFilter) ([]models.Article, int64, error)
	Search(ctx context.Context, keyword string, offset, limit int) ([]models.Article, int64, error)
	Update(ctx context.Context, article *models.Article) error
	ReplaceTags(ctx context.Context, article *models.Article, tags []models.Tag) error
	ReplaceMedia(ctx context.Context, articleID uint, media []models.Media) error
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
	CountPublished(ctx context.Context) (int64, error)
	SumViews(ctx context.Context) (int64, error)
	Latest(ctx context.Context, n int) ([]models.Article, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	NameExists(ctx context.Context, name string, excludeID uint) (bool, error)
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CountPublishedArticles(ctx context.Context, categoryID uint) (int64, error)
}

type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context) ([]models.Tag, error)
	Count(ctx context.Context) (int64, error)
	Popular(ctx context.Context, limit int) ([]models.PopularTag, error)
}

// Repositories is the set of repositories bound to one database handle,
// either the pool or an open transaction.
type Repositories struct {
	Article  ArticleRepository
	Category CategoryRepository
	Tag      TagRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Article:  NewArticleRepository(db),
		Category: NewCategoryRepository(db),
		Tag:      NewTagRepository(db),
	}
}

// UnitOfWork runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back when fn
// returns an error or panics.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos Repositories) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(repos Repositories) error) error {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	defer func() {
		if v := recover(); v != nil {
			tx.Rollback()
			panic(v)
		}
	}()

	if err := fn(NewRepositories(tx)); err != nil {
		if rerr := tx.Rollback().Error; rerr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rerr)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// likePattern builds a substring LIKE pattern using '!' as escape character.
func likePattern(keyword string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(keyword)) + "%"
}
