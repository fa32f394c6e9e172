package scopes

import "gorm.io/gorm"

// Active filters out soft-deleted rows. Records are never physically
// removed, only flagged with is_deleted.
func Active() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_deleted = ?", false)
	}
}
