package database

import (
	"gorm.io/gorm"
)

// OwnedBy restricts a task query to a single owner.
func OwnedBy(ownerID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}

// OldestFirst orders rows by creation time, breaking ties by ID.
func OldestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}
