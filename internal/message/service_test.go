package message

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"discord-clone/pkg/chat"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(&chat.User{}, &chat.Server{}, &chat.Channel{}, &chat.Message{})
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func seedChannel(t *testing.T, db *gorm.DB) (chat.User, chat.Channel) {
	user := chat.User{Username: "alice", Email: "alice@example.com", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	server := chat.Server{Name: "general", OwnerID: user.ID, Members: []*chat.User{&user}}
	if err := db.Create(&server).Error; err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	channel := chat.Channel{Name: "random", ServerID: server.ID}
	if err := db.Create(&channel).Error; err != nil {
		t.Fatalf("Failed to create channel: %v", err)
	}

	return user, channel
}

func TestMessageService_Persist(t *testing.T) {
	db := setupTestDB(t)
	service := NewMessageService(db)
	user, channel := seedChannel(t, db)

	stored, err := service.Persist(channel.ID, user.ID, "hello", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if stored.ID == 0 {
		t.Error("Expected an assigned message id")
	}
	if stored.Timestamp.IsZero() {
		t.Error("Expected a server timestamp")
	}

	var msg chat.Message
	if err := db.First(&msg, "id = ?", stored.ID).Error; err != nil {
		t.Fatalf("Message not stored: %v", err)
	}
	if msg.Content != "hello" || msg.OwnerID != user.ID || msg.ChannelID != channel.ID {
		t.Errorf("Stored message fields wrong: %+v", msg)
	}
}

func TestMessageService_PersistWithAttachment(t *testing.T) {
	db := setupTestDB(t)
	service := NewMessageService(db)
	user, channel := seedChannel(t, db)

	stored, err := service.Persist(channel.ID, user.ID, "see attached", "/uploads/a1b2.png")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var msg chat.Message
	if err := db.First(&msg, "id = ?", stored.ID).Error; err != nil {
		t.Fatalf("Message not stored: %v", err)
	}
	if msg.FileURL != "/uploads/a1b2.png" {
		t.Errorf("Expected file url to be stored, got %q", msg.FileURL)
	}
}

func TestMessageService_GetChannelMessages(t *testing.T) {
	db := setupTestDB(t)
	service := NewMessageService(db)
	user, channel := seedChannel(t, db)

	for i := 0; i < HistoryLimit+10; i++ {
		if _, err := service.Persist(channel.ID, user.ID, fmt.Sprintf("msg %d", i), ""); err != nil {
			t.Fatalf("Failed to persist message %d: %v", i, err)
		}
	}

	messages, err := service.GetChannelMessages(user.ID, channel.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(messages) != HistoryLimit {
		t.Fatalf("Expected %d messages, got %d", HistoryLimit, len(messages))
	}

	// Oldest first, and the window must be the most recent messages.
	for i := 1; i < len(messages); i++ {
		if messages[i].ID < messages[i-1].ID {
			t.Fatal("Expected messages in chronological order")
		}
	}
	if messages[len(messages)-1].Content != fmt.Sprintf("msg %d", HistoryLimit+9) {
		t.Errorf("Expected window to end at the newest message, got %q", messages[len(messages)-1].Content)
	}
}

func TestMessageService_GetChannelMessagesAccess(t *testing.T) {
	db := setupTestDB(t)
	service := NewMessageService(db)
	_, channel := seedChannel(t, db)

	outsider := chat.User{Username: "mallory", Email: "mallory@example.com", Password: "x"}
	if err := db.Create(&outsider).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	if _, err := service.GetChannelMessages(outsider.ID, channel.ID); err == nil {
		t.Error("Expected error for non-member history fetch")
	}

	if _, err := service.GetChannelMessages(outsider.ID, 9999); err == nil {
		t.Error("Expected error for unknown channel")
	}
}
