package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"autoinfo-cms/config"
	"autoinfo-cms/helper"
	"autoinfo-cms/models"
	"autoinfo-cms/repositories"

	"gorm.io/gorm"
)

const minSearchLength = 2

type ArticleService interface {
	List(ctx context.Context, params models.ArticleListParams) (*models.PageResult, error)
	Get(ctx context.Context, idOrSlug string) (*models.ArticleDetail, error)
	Create(ctx context.Context, req models.CreateArticleRequest) (*models.ArticleDetail, error)
	Update(ctx context.Context, id uint, req models.UpdateArticleRequest) (*models.ArticleDetail, error)
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, params models.SearchParams) (*models.SearchResult, error)
}

type articleService struct {
	uow        repositories.UnitOfWork
	pagination config.PaginationConfig
	content    config.ContentConfig
	log        *slog.Logger
	now        func() time.Time
}

func NewArticleService(uow repositories.UnitOfWork, pagination config.PaginationConfig, content config.ContentConfig, log *slog.Logger) ArticleService {
	return &articleService{
		uow:        uow,
		pagination: pagination,
		content:    content,
		log:        log,
		now:        utcNow,
	}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func articleNotFound() error {
	return models.NewNotFound("article not found")
}

func (s *articleService) paging(page, pageSize int) helper.Paging {
	return helper.NewPaging(page, pageSize, s.pagination.DefaultPageSize, s.pagination.MaxPageSize)
}

func (s *articleService) List(ctx context.Context, params models.ArticleListParams) (*models.PageResult, error) {
	paging := s.paging(params.Page, params.PageSize)
	status := params.Status
	if status == "" {
		status = models.StatusPublished
	}

	var result *models.PageResult
	err := s.uow.Do(ctx, func(repos repositories.Repositories) error {
		articles, total, err := repos.Article.List(ctx, repositories.ArticleFilter{
			Status:       status,
			CategorySlug: strings.TrimSpace(params.Category),
			TagSlug:      strings.TrimSpace(params.Tag),
			Offset:       paging.Offset(),
			Limit:        paging.Limit(),
		})
		if err != nil {
			return err
		}
		result = newPageResult(articles, total, paging)
		return nil
	})
	return result, err
}

func newPageResult(articles []models.Article, total int64, paging helper.Paging) *models.PageResult {
	return &models.PageResult{
		Items:      models.NewArticleListItems(articles),
		Total:      total,
		Page:       paging.Page,
		PageSize:   paging.PageSize,
		TotalPages: paging.TotalPages(total),
	}
}

// findArticle resolves a numeric id first and falls back to a slug lookup, so
// an article whose slug is all digits stays reachable.
func findArticle(ctx context.Context, repo repositories.ArticleRepository, idOrSlug string) (*models.Article, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	if id, err := strconv.ParseUint(idOrSlug, 10, 64); err == nil && id > 0 {
		article, err := repo.GetByID(ctx, uint(id))
		if err == nil {
			return article, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	article, err := repo.GetBySlug(ctx, idOrSlug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, articleNotFound()
	}
	return article, err
}

// Get returns the article detail and counts the read.
func (s *articleService) Get(ctx context.Context, idOrSlug string) (*models.ArticleDetail, error) {
	var detail *models.ArticleDetail
	err := s.uow.Do(ctx, func(repos repositories.Repositories) error {
		article, err := findArticle(ctx, repos.Article, idOrSlug)
		if err != nil {
			return err
		}
		if err := repos.Article.IncrementViews(ctx, article.ID); err != nil {
			return err
		}
		article.Views++

		d := models.NewArticleDetail(article)
		detail = &d
		return nil
	})
	return detail, err
}

func (s *articleService) Create(ctx context.Context, req models.CreateArticleRequest) (*models.ArticleDetail, error) {
	content, err := s.cleanContent(req.Content)
	if err != nil {
		return nil, err
	}

	var detail *models.ArticleDetail
	err = s.uow.Do(ctx, func(repos repositories.Repositories) error {
		slug, err := s.resolveSlug(ctx, repos.Article, req.Slug, req.Title, 0)
		if err != nil {
			return err
		}

		categoryID, err := checkCategory(ctx, repos.Category, req.CategoryID)
		if err != nil {
			return err
		}

		tags, err := resolveTags(ctx, repos.Tag, req.Tags, s.now())
		if err != nil {
			return err
		}

		now := s.now()
		article := &models.Article{
			Title:        req.Title,
			Slug:         slug,
			Content:      content,
			CoverImage:   req.CoverImage,
			CategoryID:   categoryID,
			Tags:         tags,
			MediaItems:   newMedia(req.MediaItems),
			AuthorName:   models.DefaultAuthorName,
			AuthorAvatar: req.AuthorAvatar,
			Status:       models.StatusPublished,
			IsOriginal:   true,
			PublishedAt:  &now,
		}
		article.Summary = s.summary(req.Summary, article.Content)
		if req.AuthorName != nil && strings.TrimSpace(*req.AuthorName) != "" {
			article.AuthorName = strings.TrimSpace(*req.AuthorName)
		}
		if req.Status != "" {
			article.Status = req.Status
		}
		if req.IsOriginal != nil {
			article.IsOriginal = *req.IsOriginal
		}
		if req.PublishedAt != nil {
			published := req.PublishedAt.UTC()
			article.PublishedAt = &published
		}

		if err := repos.Article.Create(ctx, article); err != nil {
			return err
		}

		created, err := repos.Article.GetByID(ctx, article.ID)
		if err != nil {
			return err
		}
		d := models.NewArticleDetail(created)
		detail = &d
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("article created", "id", detail.ID, "slug", detail.Slug)
	return detail, nil
}

func (s *articleService) Update(ctx context.Context, id uint, req models.UpdateArticleRequest) (*models.ArticleDetail, error) {
	var content *string
	if req.Content != nil {
		cleaned, err := s.cleanContent(*req.Content)
		if err != nil {
			return nil, err
		}
		content = &cleaned
	}

	var detail *models.ArticleDetail
	err := s.uow.Do(ctx, func(repos repositories.Repositories) error {
		article, err := repos.Article.GetByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return articleNotFound()
		}
		if err != nil {
			return err
		}

		if req.Title != nil {
			article.Title = *req.Title
		}
		if req.Slug != nil && strings.TrimSpace(*req.Slug) != article.Slug {
			slug, err := s.resolveSlug(ctx, repos.Article, req.Slug, article.Title, article.ID)
			if err != nil {
				return err
			}
			article.Slug = slug
		}
		if req.Summary != nil {
			article.Summary = req.Summary
		}
		if content != nil {
			article.Content = *content
		}
		if req.CoverImage != nil {
			article.CoverImage = req.CoverImage
		}
		if req.CategoryID.Set {
			categoryID, err := checkCategory(ctx, repos.Category, req.CategoryID.ID)
			if err != nil {
				return err
			}
			article.CategoryID = categoryID
			article.Category = nil
		}
		if req.AuthorName != nil {
			article.AuthorName = strings.TrimSpace(*req.AuthorName)
		}
		if req.AuthorAvatar != nil {
			article.AuthorAvatar = req.AuthorAvatar
		}
		if req.IsOriginal != nil {
			article.IsOriginal = *req.IsOriginal
		}
		if req.PublishedAt != nil {
			published := req.PublishedAt.UTC()
			article.PublishedAt = &published
		}
		if req.Status != nil {
			article.Status = *req.Status
			if article.IsPublished() && article.PublishedAt == nil {
				now := s.now()
				article.PublishedAt = &now
			}
		}

		if err := repos.Article.Update(ctx, article); err != nil {
			return err
		}

		if req.Tags != nil {
			tags, err := resolveTags(ctx, repos.Tag, *req.Tags, s.now())
			if err != nil {
				return err
			}
			if err := repos.Article.ReplaceTags(ctx, article, tags); err != nil {
				return err
			}
		}

		if req.MediaItems != nil {
			if err := repos.Article.ReplaceMedia(ctx, article.ID, newMedia(*req.MediaItems)); err != nil {
				return err
			}
		}

		updated, err := repos.Article.GetByID(ctx, article.ID)
		if err != nil {
			return err
		}
		d := models.NewArticleDetail(updated)
		detail = &d
		return nil
	})
	return detail, err
}

func (s *articleService) Delete(ctx context.Context, id uint) error {
	err := s.uow.Do(ctx, func(repos repositories.Repositories) error {
		err := repos.Article.Delete(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return articleNotFound()
		}
		return err
	})
	if err != nil {
		return err
	}

	s.log.Info("article deleted", "id", id)
	return nil
}

func (s *articleService) Search(ctx context.Context, params models.SearchParams) (*models.SearchResult, error) {
	keyword := strings.TrimSpace(params.Q)
	if len([]rune(keyword)) < minSearchLength {
		return nil, models.ErrorValidation{Fields: map[string][]string{
			"q": {fmt.Sprintf("q must be at least %d characters", minSearchLength)},
		}}
	}

	paging := s.paging(params.Page, params.PageSize)

	var result *models.SearchResult
	err := s.uow.Do(ctx, func(repos repositories.Repositories) error {
		articles, total, err := repos.Article.Search(ctx, keyword, paging.Offset(), paging.Limit())
		if err != nil {
			return err
		}
		result = &models.SearchResult{
			PageResult: *newPageResult(articles, total, paging),
			Keyword:    params.Q,
		}
		return nil
	})
	return result, err
}

// resolveSlug returns the slug to store. An explicit slug must be free; a
// slug derived from the title gets a numeric suffix until it is.
func (s *articleService) resolveSlug(ctx context.Context, repo repositories.ArticleRepository, explicit *string, title string, excludeID uint) (string, error) {
	if explicit != nil && strings.TrimSpace(*explicit) != "" {
		slug := strings.TrimSpace(*explicit)
		exists, err := repo.SlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", err
		}
		if exists {
			return "", models.NewConflict("Slug '%s' already exists", slug)
		}
		return slug, nil
	}

	base := helper.TruncateSlug(helper.SlugOrFallback(title, "article"), models.ArticleSlugMaxLen)
	slug := base
	for counter := 1; ; counter++ {
		exists, err := repo.SlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = helper.SuffixSlug(base, fmt.Sprintf("-%d", counter), models.ArticleSlugMaxLen)
	}
}

// checkCategory treats nil and zero as "no category".
func checkCategory(ctx context.Context, repo repositories.CategoryRepository, id *uint) (*uint, error) {
	if id == nil || *id == 0 {
		return nil, nil
	}
	category, err := repo.GetByID(ctx, *id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewBadRequest("category not found")
	}
	if err != nil {
		return nil, err
	}
	return &category.ID, nil
}

// cleanContent sanitises content when configured. Content that sanitises
// down to nothing is rejected.
func (s *articleService) cleanContent(content string) (string, error) {
	if s.content.SanitizeHTML {
		content = helper.SanitizeHTML(content)
	}
	if strings.TrimSpace(content) == "" {
		return "", models.ErrorValidation{Fields: map[string][]string{
			"content": {"content must not be empty after removing unsafe markup"},
		}}
	}
	return content, nil
}

func (s *articleService) summary(given *string, content string) *string {
	if given != nil && strings.TrimSpace(*given) != "" {
		return given
	}
	if s.content.SummaryLength <= 0 {
		return given
	}
	summary := helper.Summarize(content, s.content.SummaryLength)
	if summary == "" {
		return nil
	}
	return &summary
}

func newMedia(items []models.MediaItemRequest) []models.Media {
	media := make([]models.Media, 0, len(items))
	for _, item := range items {
		mediaType := item.Type
		if mediaType == "" {
			mediaType = models.MediaImage
		}
		media = append(media, models.Media{
			Type:         mediaType,
			URL:          item.URL,
			ThumbnailURL: item.ThumbnailURL,
			Caption:      item.Caption,
			OrderIndex:   item.OrderIndex,
		})
	}
	return media
}
