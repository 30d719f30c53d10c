package models

import (
	"time"
)

// TagSlugMaxLen is the width of the tag slug column.
const TagSlugMaxLen = 80

type Tag struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"type:varchar(50);not null;uniqueIndex"`
	Slug      string    `json:"slug" gorm:"type:varchar(80);not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

// PopularTag is a tag together with the number of articles carrying it.
type PopularTag struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int64  `json:"count" gorm:"column:article_count"`
}

// PopularTagList wraps popular tags the way other list endpoints do.
type PopularTagList struct {
	Items []PopularTag `json:"items"`
}
