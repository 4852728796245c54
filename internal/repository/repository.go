package repository

import "gorm.io/gorm"

// Repository groups every repository of the console
type Repository struct {
	ActivityLog ActivityLogRepository
}

// NewRepository builds the repositories on db. A nil db yields no-op
// repositories so the console runs without PostgreSQL.
func NewRepository(db *gorm.DB) *Repository {
	if db == nil {
		return &Repository{ActivityLog: NewNoopActivityLogRepo()}
	}
	return &Repository{
		ActivityLog: NewActivityLogRepo(db),
	}
}
