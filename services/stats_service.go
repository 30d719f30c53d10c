package services

import (
	"context"

	"autoinfo-cms/models"
	"autoinfo-cms/repositories"
)

const latestArticleCount = 5

type StatsService interface {
	Get(ctx context.Context) (*models.Stats, error)
}

type statsService struct {
	uow repositories.UnitOfWork
}

func NewStatsService(uow repositories.UnitOfWork) StatsService {
	return &statsService{uow: uow}
}

// Get computes the aggregates on every call; nothing is cached.
func (s *statsService) Get(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	err := s.uow.Do(ctx, func(repos repositories.Repositories) error {
		var err error
		if stats.ArticleCount, err = repos.Article.CountPublished(ctx); err != nil {
			return err
		}
		if stats.CategoryCount, err = repos.Category.Count(ctx); err != nil {
			return err
		}
		if stats.TagCount, err = repos.Tag.Count(ctx); err != nil {
			return err
		}
		if stats.TotalViews, err = repos.Article.SumViews(ctx); err != nil {
			return err
		}

		latest, err := repos.Article.Latest(ctx, latestArticleCount)
		if err != nil {
			return err
		}
		stats.LatestArticles = models.NewArticleListItems(latest)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
