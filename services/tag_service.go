package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"autoinfo-cms/helper"
	"autoinfo-cms/models"
	"autoinfo-cms/repositories"

	"gorm.io/gorm"
)

const defaultPopularLimit = 20

type TagService interface {
	List(ctx context.Context) ([]models.TagItem, error)
	Popular(ctx context.Context, limit int) ([]models.PopularTag, error)
	Create(ctx context.Context, req models.CreateTagRequest) (*models.TagItem, error)
}

type tagService struct {
	uow repositories.UnitOfWork
	now func() time.Time
}

func NewTagService(uow repositories.UnitOfWork) TagService {
	return &tagService{uow: uow, now: utcNow}
}

func (s *tagService) List(ctx context.Context) ([]models.TagItem, error) {
	var items []models.TagItem
	err := s.uow.Do(ctx, func(repos repositories.Repositories) error {
		tags, err := repos.Tag.List(ctx)
		if err != nil {
			return err
		}
		items = make([]models.TagItem, 0, len(tags))
		for i := range tags {
			items = append(items, models.NewTagItem(&tags[i]))
		}
		return nil
	})
	return items, err
}

func (s *tagService) Popular(ctx context.Context, limit int) ([]models.PopularTag, error) {
	if limit <= 0 {
		limit = defaultPopularLimit
	}

	var tags []models.PopularTag
	err := s.uow.Do(ctx, func(repos repositories.Repositories) error {
		var err error
		tags, err = repos.Tag.Popular(ctx, limit)
		return err
	})
	if tags == nil {
		tags = []models.PopularTag{}
	}
	return tags, err
}

func (s *tagService) Create(ctx context.Context, req models.CreateTagRequest) (*models.TagItem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, models.ErrorValidation{Fields: map[string][]string{"name": {"name is a required field"}}}
	}

	var item *models.TagItem
	err := s.uow.Do(ctx, func(repos repositories.Repositories) error {
		if _, err := repos.Tag.GetByName(ctx, name); err == nil {
			return models.NewConflict("tag '%s' already exists", name)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var slug string
		if req.Slug != nil && strings.TrimSpace(*req.Slug) != "" {
			slug = strings.TrimSpace(*req.Slug)
			exists, err := repos.Tag.SlugExists(ctx, slug)
			if err != nil {
				return err
			}
			if exists {
				return models.NewConflict("Slug '%s' already exists", slug)
			}
		} else {
			var err error
			slug, err = uniqueTagSlug(ctx, repos.Tag, name, s.now())
			if err != nil {
				return err
			}
		}

		tag := &models.Tag{Name: name, Slug: slug}
		if err := repos.Tag.Create(ctx, tag); err != nil {
			return err
		}
		i := models.NewTagItem(tag)
		item = &i
		return nil
	})
	return item, err
}

// resolveTags returns the tags named in names, creating the missing ones.
// Names are trimmed, blanks are skipped, and a name repeated in the same call
// yields a single tag. Input order is kept.
func resolveTags(ctx context.Context, repo repositories.TagRepository, names []string, now time.Time) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := make(map[uint]bool, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		tag, err := repo.GetByName(ctx, name)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}

			slug, err := uniqueTagSlug(ctx, repo, name, now)
			if err != nil {
				return nil, err
			}
			tag = &models.Tag{Name: name, Slug: slug}
			if err := repo.Create(ctx, tag); err != nil {
				return nil, err
			}
		}

		if seen[tag.ID] {
			continue
		}
		seen[tag.ID] = true
		tags = append(tags, *tag)
	}

	return tags, nil
}

// uniqueTagSlug derives a slug from name. A taken slug gets a timestamp
// suffix, then a counter, until it is free.
func uniqueTagSlug(ctx context.Context, repo repositories.TagRepository, name string, now time.Time) (string, error) {
	base := helper.TruncateSlug(helper.SlugOrFallback(name, "tag"), models.TagSlugMaxLen)
	stamp := "-" + now.Format("20060102150405")

	slug := base
	for counter := 1; ; counter++ {
		exists, err := repo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}

		suffix := stamp
		if counter > 1 {
			suffix = fmt.Sprintf("%s-%d", stamp, counter)
		}
		slug = helper.SuffixSlug(base, suffix, models.TagSlugMaxLen)
	}
}
