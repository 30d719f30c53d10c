package models

import (
	"encoding/json"
	"time"
)

type MediaItemRequest struct {
	Type         MediaType `json:"type" validate:"omitempty,oneof=image video"`
	URL          string    `json:"url" validate:"required,max=500"`
	ThumbnailURL *string   `json:"thumbnail_url" validate:"omitempty,max=500"`
	Caption      *string   `json:"caption" validate:"omitempty,max=255"`
	OrderIndex   int       `json:"order_index"`
}

type CreateArticleRequest struct {
	Title        string             `json:"title" validate:"required,min=1,max=255"`
	Slug         *string            `json:"slug" validate:"omitempty,max=255"`
	Summary      *string            `json:"summary"`
	Content      string             `json:"content" validate:"required,min=1"`
	CoverImage   *string            `json:"cover_image" validate:"omitempty,max=500"`
	CategoryID   *uint              `json:"category_id"`
	Tags         []string           `json:"tags" validate:"omitempty,dive,max=50"`
	AuthorName   *string            `json:"author_name" validate:"omitempty,max=100"`
	AuthorAvatar *string            `json:"author_avatar" validate:"omitempty,max=500"`
	IsOriginal   *bool              `json:"is_original"`
	Status       ArticleStatus      `json:"status" validate:"omitempty,oneof=draft published"`
	MediaItems   []MediaItemRequest `json:"media_items" validate:"omitempty,dive"`
	PublishedAt  *time.Time         `json:"published_at"`
}

// UpdateArticleRequest is a partial update: a nil field is left untouched.
type UpdateArticleRequest struct {
	Title        *string             `json:"title" validate:"omitempty,min=1,max=255"`
	Slug         *string             `json:"slug" validate:"omitempty,max=255"`
	Summary      *string             `json:"summary"`
	Content      *string             `json:"content" validate:"omitempty,min=1"`
	CoverImage   *string             `json:"cover_image" validate:"omitempty,max=500"`
	CategoryID   OptionalID          `json:"category_id"`
	Tags         *[]string           `json:"tags" validate:"omitempty,dive,max=50"`
	AuthorName   *string             `json:"author_name" validate:"omitempty,max=100"`
	AuthorAvatar *string             `json:"author_avatar" validate:"omitempty,max=500"`
	IsOriginal   *bool               `json:"is_original"`
	Status       *ArticleStatus      `json:"status" validate:"omitempty,oneof=draft published"`
	PublishedAt  *time.Time          `json:"published_at"`
	MediaItems   *[]MediaItemRequest `json:"media_items" validate:"omitempty,dive"`
}

// OptionalID distinguishes an absent JSON field from an explicit null.
// Set is true whenever the key was present in the payload.
type OptionalID struct {
	Set bool
	ID  *uint
}

func (o *OptionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.ID = nil
		return nil
	}
	var id uint
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	o.ID = &id
	return nil
}

func (o OptionalID) MarshalJSON() ([]byte, error) {
	if o.ID == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.ID)
}

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=50"`
	Slug        *string `json:"slug" validate:"omitempty,max=50"`
	Description *string `json:"description"`
	Icon        *string `json:"icon" validate:"omitempty,max=100"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=50"`
	Slug        *string `json:"slug" validate:"omitempty,min=1,max=50"`
	Description *string `json:"description"`
	Icon        *string `json:"icon" validate:"omitempty,max=100"`
}

type CreateTagRequest struct {
	Name string  `json:"name" validate:"required,min=1,max=50"`
	Slug *string `json:"slug" validate:"omitempty,max=50"`
}

type ArticleListParams struct {
	Page     int           `form:"page" validate:"omitempty,min=1"`
	PageSize int           `form:"page_size" validate:"omitempty,min=1"`
	Category string        `form:"category"`
	Tag      string        `form:"tag"`
	Status   ArticleStatus `form:"status" validate:"omitempty,oneof=draft published"`
}

type SearchParams struct {
	Q        string `form:"q"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1"`
}

type PopularTagParams struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}
