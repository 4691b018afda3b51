package db

import (
	"gorm.io/gorm"

	types "github.com/yungbote/skillmatch-backend/internal/domain"
)

func (s *PostgresService) AutoMigrateAll() error {
	return AutoMigrateAll(s.db)
}

func AutoMigrateAll(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.PushSubscription{},

		&types.Entry{},
		&types.Match{},
		&types.Notification{},
	)
}
