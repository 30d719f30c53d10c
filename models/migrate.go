package models

import "gorm.io/gorm"

// AutoMigrate creates the schema if it does not exist yet. The article_tags
// join table is created together with Article.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Category{},
		&Tag{},
		&Article{},
		&Media{},
	)
}
