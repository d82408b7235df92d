package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"discord-clone/pkg/chat"
)

const (
	DefaultDBPath = "discordclone.db"
)

func Connect(path string) (*gorm.DB, error) {
	if path == "" {
		path = DefaultDBPath
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&chat.User{},
		&chat.Server{},
		&chat.Channel{},
		&chat.Message{},
		&chat.AuditLog{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
