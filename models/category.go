package models

import (
	"time"
)

// CategorySlugMaxLen is the width of the category slug column.
const CategorySlugMaxLen = 50

type Category struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"name" gorm:"type:varchar(50);not null;uniqueIndex"`
	Slug        string    `json:"slug" gorm:"type:varchar(50);not null;uniqueIndex"`
	Description *string   `json:"description" gorm:"type:text"`
	Icon        *string   `json:"icon" gorm:"type:varchar(100)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
