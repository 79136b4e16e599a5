package models

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema. Parents are listed before children
// so foreign keys resolve.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Quiz{},
		&Question{},
		&Option{},
		&Score{},
	)
}
