package models

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Media is an image or video attached to an article. Rows are owned by the
// article and removed together with it.
type Media struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	ArticleID    uint      `json:"article_id" gorm:"not null;index"`
	Type         MediaType `json:"type" gorm:"type:varchar(10);not null"`
	URL          string    `json:"url" gorm:"type:varchar(500);not null"`
	ThumbnailURL *string   `json:"thumbnail_url" gorm:"type:varchar(500)"`
	Caption      *string   `json:"caption" gorm:"type:varchar(255)"`
	OrderIndex   int       `json:"order_index" gorm:"not null;default:0"`
}

func (Media) TableName() string {
	return "media"
}
