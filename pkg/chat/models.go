package chat

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;not null"`
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`

	Servers []*Server `gorm:"many2many:server_members;"`
}

type Server struct {
	gorm.Model
	Name    string `gorm:"index;not null"`
	OwnerID uint   `gorm:"not null"`

	Members  []*User `gorm:"many2many:server_members;"`
	Channels []Channel
}

type Channel struct {
	gorm.Model
	Name     string `gorm:"index;not null"`
	ServerID uint   `gorm:"not null"`

	Messages []Message
}

type Message struct {
	gorm.Model
	Content   string
	FileURL   string
	ChannelID uint `gorm:"index;not null"`
	OwnerID   uint `gorm:"not null"`

	Owner User `gorm:"foreignKey:OwnerID"`
}

type AuditLog struct {
	gorm.Model
	Action      string `gorm:"index;not null"`
	ActorID     uint   `gorm:"index;not null"`
	ServerID    *uint  `gorm:"index"`
	ChannelID   *uint
	Description string
	Metadata    string

	Actor User `gorm:"foreignKey:ActorID"`
}
