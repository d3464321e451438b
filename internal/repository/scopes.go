package repository

import "gorm.io/gorm"

// OwnedBy filters rows by the owning user's subject.
func OwnedBy(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// FiledBy filters reports by the reporter's subject.
func FiledBy(subject string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("reporter_id = ?", subject)
	}
}

// newestFirst breaks created_at ties by id so pages are stable.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}
