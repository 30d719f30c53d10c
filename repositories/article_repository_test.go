package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"autoinfo-cms/models"
	"autoinfo-cms/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type ArticleRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo ArticleRepository
	ctx  context.Context
}

func (s *ArticleRepositoryTestSuite) SetupTest() {
	s.db = testutils.SetupTestDB(s.T())
	s.repo = NewArticleRepository(s.db)
	s.ctx = context.Background()
}

func TestArticleRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ArticleRepositoryTestSuite))
}

func ptrTime(t time.Time) *time.Time { return &t }

func (s *ArticleRepositoryTestSuite) TestCreateAndGetWithAssociations() {
	category := testutils.CreateTestCategory(s.db)
	tagA := testutils.CreateTestTag(s.db, "电动车", "电动车")
	tagB := testutils.CreateTestTag(s.db, "SUV", "suv")
	caption := "front"

	article := &models.Article{
		Title:      "New model launch",
		Slug:       "new-model-launch",
		Content:    "body",
		CategoryID: &category.ID,
		AuthorName: models.DefaultAuthorName,
		Status:     models.StatusPublished,
		Tags:       []models.Tag{*tagA, *tagB},
		MediaItems: []models.Media{
			{Type: models.MediaImage, URL: "https://img/2.jpg", OrderIndex: 2},
			{Type: models.MediaVideo, URL: "https://img/1.mp4", OrderIndex: 1, Caption: &caption},
		},
	}
	s.Require().NoError(s.repo.Create(s.ctx, article))
	s.NotZero(article.ID)

	got, err := s.repo.GetByID(s.ctx, article.ID)
	s.Require().NoError(err)
	s.Equal("new-model-launch", got.Slug)
	s.Require().NotNil(got.Category)
	s.Equal(category.Name, got.Category.Name)
	s.Len(got.Tags, 2)
	s.Require().Len(got.MediaItems, 2)
	s.Equal("https://img/1.mp4", got.MediaItems[0].URL)
	s.Equal("https://img/2.jpg", got.MediaItems[1].URL)

	bySlug, err := s.repo.GetBySlug(s.ctx, "new-model-launch")
	s.Require().NoError(err)
	s.Equal(article.ID, bySlug.ID)

	_, err = s.repo.GetBySlug(s.ctx, "missing")
	s.True(errors.Is(err, gorm.ErrRecordNotFound))
}

func (s *ArticleRepositoryTestSuite) TestCreateDuplicateSlugIsConflict() {
	testutils.CreateTestArticle(s.db, func(a *models.Article) { a.Slug = "taken" })

	err := s.repo.Create(s.ctx, &models.Article{
		Title: "again", Slug: "taken", Content: "c",
		AuthorName: models.DefaultAuthorName, Status: models.StatusPublished,
	})
	var conflict models.ErrorConflict
	s.True(errors.As(err, &conflict), "got %v", err)
}

func (s *ArticleRepositoryTestSuite) TestSlugExists() {
	a := testutils.CreateTestArticle(s.db, func(a *models.Article) { a.Slug = "hello" })

	exists, err := s.repo.SlugExists(s.ctx, "hello", 0)
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.repo.SlugExists(s.ctx, "hello", a.ID)
	s.Require().NoError(err)
	s.False(exists)

	exists, err = s.repo.SlugExists(s.ctx, "other", 0)
	s.Require().NoError(err)
	s.False(exists)
}

func (s *ArticleRepositoryTestSuite) TestListFiltersAndOrder() {
	cars := testutils.CreateTestCategory(s.db, testutils.WithCategoryName("Cars", "cars"))
	bikes := testutils.CreateTestCategory(s.db, testutils.WithCategoryName("Bikes", "bikes"))
	ev := testutils.CreateTestTag(s.db, "EV", "ev")

	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	older := testutils.CreateTestArticle(s.db, testutils.WithCategory(cars), testutils.WithPublishedAt(ptrTime(base)))
	newer := testutils.CreateTestArticle(s.db, testutils.WithCategory(cars), testutils.WithTags(*ev),
		testutils.WithPublishedAt(ptrTime(base.Add(time.Hour))))
	unpublishedAt := testutils.CreateTestArticle(s.db, testutils.WithCategory(cars), testutils.WithPublishedAt(nil))
	testutils.CreateTestArticle(s.db, testutils.WithCategory(bikes), testutils.WithTags(*ev))
	draft := testutils.CreateTestArticle(s.db, testutils.WithStatus(models.StatusDraft))

	items, total, err := s.repo.List(s.ctx, ArticleFilter{
		Status: models.StatusPublished, CategorySlug: "cars", Limit: 10,
	})
	s.Require().NoError(err)
	s.EqualValues(3, total)
	s.Require().Len(items, 3)
	s.Equal(newer.ID, items[0].ID)
	s.Equal(older.ID, items[1].ID)
	s.Equal(unpublishedAt.ID, items[2].ID)
	s.Require().NotNil(items[0].Category)
	s.Equal("cars", items[0].Category.Slug)
	s.Len(items[0].Tags, 1)

	items, total, err = s.repo.List(s.ctx, ArticleFilter{
		Status: models.StatusPublished, CategorySlug: "cars", TagSlug: "ev", Limit: 10,
	})
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Equal(newer.ID, items[0].ID)

	items, total, err = s.repo.List(s.ctx, ArticleFilter{Status: models.StatusDraft, Limit: 10})
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Equal(draft.ID, items[0].ID)
}

func (s *ArticleRepositoryTestSuite) TestListPaginationIsExhaustive() {
	category := testutils.CreateTestCategory(s.db)
	same := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		testutils.CreateTestArticle(s.db, testutils.WithCategory(category), testutils.WithPublishedAt(ptrTime(same)))
	}

	seen := map[uint]bool{}
	for page := 1; page <= 3; page++ {
		items, total, err := s.repo.List(s.ctx, ArticleFilter{
			Status: models.StatusPublished, CategorySlug: category.Slug,
			Offset: (page - 1) * 10, Limit: 10,
		})
		s.Require().NoError(err)
		s.EqualValues(25, total)
		if page == 3 {
			s.Len(items, 5)
		} else {
			s.Len(items, 10)
		}
		for _, it := range items {
			s.False(seen[it.ID], "article %d returned twice", it.ID)
			seen[it.ID] = true
		}
	}
	s.Len(seen, 25)
}

func (s *ArticleRepositoryTestSuite) TestSearch() {
	testutils.CreateTestArticle(s.db, testutils.WithTitle("Tesla Model Y review"))
	testutils.CreateTestArticle(s.db, testutils.WithContent("the new TESLA charger"))
	testutils.CreateTestArticle(s.db, testutils.WithTitle("Tesla draft"), testutils.WithStatus(models.StatusDraft))
	testutils.CreateTestArticle(s.db, testutils.WithTitle("100% electric"))
	testutils.CreateTestArticle(s.db, testutils.WithTitle("1000 km range"))

	items, total, err := s.repo.Search(s.ctx, "tesla", 0, 10)
	s.Require().NoError(err)
	s.EqualValues(2, total)
	s.Len(items, 2)

	_, total, err = s.repo.Search(s.ctx, "100%", 0, 10)
	s.Require().NoError(err)
	s.EqualValues(1, total)

	_, total, err = s.repo.Search(s.ctx, "no such words", 0, 10)
	s.Require().NoError(err)
	s.EqualValues(0, total)
}

func (s *ArticleRepositoryTestSuite) TestUpdateReplaceTagsAndMedia() {
	old := testutils.CreateTestTag(s.db, "old", "old")
	article := testutils.CreateTestArticle(s.db, testutils.WithTags(*old),
		testutils.WithMedia(models.Media{Type: models.MediaImage, URL: "https://a"}))

	article.Title = "renamed"
	article.CategoryID = nil
	s.Require().NoError(s.repo.Update(s.ctx, article))

	fresh := testutils.CreateTestTag(s.db, "fresh", "fresh")
	s.Require().NoError(s.repo.ReplaceTags(s.ctx, article, []models.Tag{*fresh}))
	s.Require().NoError(s.repo.ReplaceMedia(s.ctx, article.ID, []models.Media{
		{Type: models.MediaVideo, URL: "https://b"},
		{Type: models.MediaImage, URL: "https://c", OrderIndex: 1},
	}))

	got, err := s.repo.GetByID(s.ctx, article.ID)
	s.Require().NoError(err)
	s.Equal("renamed", got.Title)
	s.Require().Len(got.Tags, 1)
	s.Equal("fresh", got.Tags[0].Name)
	s.Require().Len(got.MediaItems, 2)
	s.Equal("https://b", got.MediaItems[0].URL)

	s.Require().NoError(s.repo.ReplaceTags(s.ctx, got, nil))
	got, err = s.repo.GetByID(s.ctx, article.ID)
	s.Require().NoError(err)
	s.Empty(got.Tags)
}

func (s *ArticleRepositoryTestSuite) TestDeleteCascadesMediaKeepsTags() {
	tag := testutils.CreateTestTag(s.db, "keep", "keep")
	category := testutils.CreateTestCategory(s.db)
	article := testutils.CreateTestArticle(s.db, testutils.WithCategory(category), testutils.WithTags(*tag),
		testutils.WithMedia(models.Media{Type: models.MediaImage, URL: "https://a"}, models.Media{Type: models.MediaImage, URL: "https://b"}))

	s.Require().NoError(s.repo.Delete(s.ctx, article.ID))

	var mediaCount, linkCount, tagCount, categoryCount int64
	s.db.Model(&models.Media{}).Where("article_id = ?", article.ID).Count(&mediaCount)
	s.db.Table("article_tags").Where("article_id = ?", article.ID).Count(&linkCount)
	s.db.Model(&models.Tag{}).Count(&tagCount)
	s.db.Model(&models.Category{}).Count(&categoryCount)
	s.Zero(mediaCount)
	s.Zero(linkCount)
	s.EqualValues(1, tagCount)
	s.EqualValues(1, categoryCount)

	err := s.repo.Delete(s.ctx, article.ID)
	s.True(errors.Is(err, gorm.ErrRecordNotFound))
}

func (s *ArticleRepositoryTestSuite) TestIncrementViewsAndStats() {
	a := testutils.CreateTestArticle(s.db, testutils.WithViews(3))
	testutils.CreateTestArticle(s.db, testutils.WithViews(4), testutils.WithStatus(models.StatusDraft))

	for i := 0; i < 2; i++ {
		s.Require().NoError(s.repo.IncrementViews(s.ctx, a.ID))
	}
	got, err := s.repo.GetByID(s.ctx, a.ID)
	s.Require().NoError(err)
	s.EqualValues(5, got.Views)

	s.True(errors.Is(s.repo.IncrementViews(s.ctx, 9999), gorm.ErrRecordNotFound))

	sum, err := s.repo.SumViews(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(9, sum)

	count, err := s.repo.CountPublished(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(1, count)
}

func (s *ArticleRepositoryTestSuite) TestLatest() {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var ids []uint
	for i := 0; i < 7; i++ {
		a := testutils.CreateTestArticle(s.db, testutils.WithPublishedAt(ptrTime(base.Add(time.Duration(i)*time.Hour))))
		ids = append(ids, a.ID)
	}
	testutils.CreateTestArticle(s.db, testutils.WithStatus(models.StatusDraft),
		testutils.WithPublishedAt(ptrTime(base.Add(48*time.Hour))))

	latest, err := s.repo.Latest(s.ctx, 5)
	s.Require().NoError(err)
	s.Require().Len(latest, 5)
	s.Equal(ids[6], latest[0].ID)
	s.Equal(ids[2], latest[4].ID)
}

func TestSumViewsEmpty(t *testing.T) {
	repo := NewArticleRepository(testutils.SetupTestDB(t))
	sum, err := repo.SumViews(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sum)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%tesla%", likePattern("Tesla"))
	assert.Equal(t, "%100!%%", likePattern("100%"))
	assert.Equal(t, "%a!_b%", likePattern("a_b"))
	assert.Equal(t, fmt.Sprintf("%%%s%%", "!!x"), likePattern("!x"))
}
