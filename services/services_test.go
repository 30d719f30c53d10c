package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"autoinfo-cms/repositories"
	"autoinfo-cms/repositories/mocks"

	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

// repoMocks wires gomock repositories behind a unit of work that runs the
// callback directly.
type repoMocks struct {
	ctrl     *gomock.Controller
	uow      *mocks.MockUnitOfWork
	article  *mocks.MockArticleRepository
	category *mocks.MockCategoryRepository
	tag      *mocks.MockTagRepository
}

func newRepoMocks(t *testing.T) *repoMocks {
	ctrl := gomock.NewController(t)
	m := &repoMocks{
		ctrl:     ctrl,
		uow:      mocks.NewMockUnitOfWork(ctrl),
		article:  mocks.NewMockArticleRepository(ctrl),
		category: mocks.NewMockCategoryRepository(ctrl),
		tag:      mocks.NewMockTagRepository(ctrl),
	}
	m.uow.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(repositories.Repositories) error) error {
			return fn(repositories.Repositories{Article: m.article, Category: m.category, Tag: m.tag})
		}).AnyTimes()
	return m
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func uintPtr(v uint) *uint { return &v }
