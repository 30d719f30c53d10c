package models

import (
	"time"
)

type CategoryRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type TagRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type MediaItem struct {
	ID           uint      `json:"id"`
	Type         MediaType `json:"type"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	Caption      *string   `json:"caption"`
	OrderIndex   int       `json:"order_index"`
}

// ArticleListItem is the list projection: no body, no media.
type ArticleListItem struct {
	ID           uint         `json:"id"`
	Title        string       `json:"title"`
	Slug         string       `json:"slug"`
	Summary      *string      `json:"summary"`
	CoverImage   *string      `json:"cover_image"`
	Category     *CategoryRef `json:"category"`
	Tags         []TagRef     `json:"tags"`
	AuthorName   string       `json:"author_name"`
	AuthorAvatar *string      `json:"author_avatar"`
	Views        int64        `json:"views"`
	PublishedAt  *time.Time   `json:"published_at"`
	CreatedAt    time.Time    `json:"created_at"`
}

// ArticleDetail is the detail projection returned by single-article reads
// and by create/update.
type ArticleDetail struct {
	ArticleListItem
	Content    string        `json:"content"`
	Status     ArticleStatus `json:"status"`
	IsOriginal bool          `json:"is_original"`
	UpdatedAt  time.Time     `json:"updated_at"`
	MediaItems []MediaItem   `json:"media_items"`
}

type CategoryItem struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  *string `json:"description"`
	Icon         *string `json:"icon"`
	ArticleCount *int64  `json:"article_count,omitempty"`
}

type TagItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type PageResult struct {
	Items      []ArticleListItem `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

type SearchResult struct {
	PageResult
	Keyword string `json:"keyword"`
}

type Stats struct {
	ArticleCount   int64             `json:"article_count"`
	CategoryCount  int64             `json:"category_count"`
	TagCount       int64             `json:"tag_count"`
	TotalViews     int64             `json:"total_views"`
	LatestArticles []ArticleListItem `json:"latest_articles"`
}

func NewArticleListItem(a *Article) ArticleListItem {
	item := ArticleListItem{
		ID:           a.ID,
		Title:        a.Title,
		Slug:         a.Slug,
		Summary:      a.Summary,
		CoverImage:   a.CoverImage,
		Tags:         make([]TagRef, 0, len(a.Tags)),
		AuthorName:   a.AuthorName,
		AuthorAvatar: a.AuthorAvatar,
		Views:        a.Views,
		PublishedAt:  a.PublishedAt,
		CreatedAt:    a.CreatedAt,
	}
	if a.Category != nil {
		item.Category = &CategoryRef{ID: a.Category.ID, Name: a.Category.Name, Slug: a.Category.Slug}
	}
	for _, t := range a.Tags {
		item.Tags = append(item.Tags, TagRef{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}
	return item
}

func NewArticleListItems(articles []Article) []ArticleListItem {
	items := make([]ArticleListItem, 0, len(articles))
	for i := range articles {
		items = append(items, NewArticleListItem(&articles[i]))
	}
	return items
}

func NewArticleDetail(a *Article) ArticleDetail {
	detail := ArticleDetail{
		ArticleListItem: NewArticleListItem(a),
		Content:         a.Content,
		Status:          a.Status,
		IsOriginal:      a.IsOriginal,
		UpdatedAt:       a.UpdatedAt,
		MediaItems:      make([]MediaItem, 0, len(a.MediaItems)),
	}
	for _, m := range a.MediaItems {
		detail.MediaItems = append(detail.MediaItems, MediaItem{
			ID:           m.ID,
			Type:         m.Type,
			URL:          m.URL,
			ThumbnailURL: m.ThumbnailURL,
			Caption:      m.Caption,
			OrderIndex:   m.OrderIndex,
		})
	}
	return detail
}

func NewCategoryItem(c *Category) CategoryItem {
	return CategoryItem{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Icon:        c.Icon,
	}
}

func NewTagItem(t *Tag) TagItem {
	return TagItem{ID: t.ID, Name: t.Name, Slug: t.Slug}
}
