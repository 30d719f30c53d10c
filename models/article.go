package models

import (
	"time"
)

type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
)

const DefaultAuthorName = "AI助手"

// ArticleSlugMaxLen is the width of the article slug column.
const ArticleSlugMaxLen = 255

type Article struct {
	ID           uint          `json:"id" gorm:"primarykey"`
	Title        string        `json:"title" gorm:"type:varchar(255);not null;index"`
	Slug         string        `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex"`
	Summary      *string       `json:"summary" gorm:"type:text"`
	Content      string        `json:"content" gorm:"type:text;not null"`
	CoverImage   *string       `json:"cover_image" gorm:"type:varchar(500)"`
	CategoryID   *uint         `json:"category_id" gorm:"index"`
	Category     *Category     `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Tags         []Tag         `json:"tags" gorm:"many2many:article_tags;constraint:OnDelete:CASCADE"`
	MediaItems   []Media       `json:"media_items" gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE"`
	AuthorName   string        `json:"author_name" gorm:"type:varchar(100);not null"`
	AuthorAvatar *string       `json:"author_avatar" gorm:"type:varchar(500)"`
	Status       ArticleStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	IsOriginal   bool          `json:"is_original" gorm:"not null"`
	Views        int64         `json:"views" gorm:"not null;default:0"`
	PublishedAt  *time.Time    `json:"published_at" gorm:"index"`
	CreatedAt    time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// IsPublished reports whether the article is visible on the public listing.
func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}
