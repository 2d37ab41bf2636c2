package database

import (
	"fmt"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

type tableIndex struct {
	model   any
	table   string
	name    string
	columns string
}

// Indexes not expressible through struct tags.
var indexes = []tableIndex{
	// Task listing is always scoped by owner and ordered by creation time.
	{&models.Task{}, "tasks", "idx_tasks_owner_id_created_at", "owner_id, created_at"},
}

// AddIndexes creates any missing secondary indexes.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
