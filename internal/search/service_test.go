package search

import (
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

func seedChannel(t *testing.T, db *gorm.DB) (chat.User, chat.User, chat.Channel) {
	member := chat.User{Username: "alice", Email: "alice@example.com", Password: "x"}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	outsider := chat.User{Username: "mallory", Email: "mallory@example.com", Password: "x"}
	if err := db.Create(&outsider).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	server := chat.Server{Name: "gaming", OwnerID: member.ID, Members: []*chat.User{&member}}
	if err := db.Create(&server).Error; err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	channel := chat.Channel{Name: "general", ServerID: server.ID}
	if err := db.Create(&channel).Error; err != nil {
		t.Fatalf("Failed to create channel: %v", err)
	}

	return member, outsider, channel
}

func TestSearchService_SearchMessages(t *testing.T) {
	db := setupTestDB(t)
	service := NewSearchService(db)
	member, outsider, channel := seedChannel(t, db)

	contents := []string{"hello world", "Hello again", "goodbye", "HELLO THERE"}
	for _, content := range contents {
		msg := chat.Message{Content: content, ChannelID: channel.ID, OwnerID: member.ID}
		if err := db.Create(&msg).Error; err != nil {
			t.Fatalf("Failed to create message: %v", err)
		}
	}

	messages, total, err := service.SearchMessages(member.ID, channel.ID, "hello", 10)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("Expected total 3, got %d", total)
	}
	if len(messages) != 3 {
		t.Errorf("Expected 3 messages, got %d", len(messages))
	}
	for _, msg := range messages {
		if msg.Owner.Username != "alice" {
			t.Errorf("Expected owner to be preloaded, got %q", msg.Owner.Username)
		}
	}

	if _, _, err := service.SearchMessages(outsider.ID, channel.ID, "hello", 10); err == nil {
		t.Error("Expected error for non-member search")
	}

	if _, _, err := service.SearchMessages(member.ID, 9999, "hello", 10); err == nil {
		t.Error("Expected error for unknown channel")
	}
}

func TestSearchService_SearchMessagesLimit(t *testing.T) {
	db := setupTestDB(t)
	service := NewSearchService(db)
	member, _, channel := seedChannel(t, db)

	for i := 0; i < 5; i++ {
		msg := chat.Message{Content: "match", ChannelID: channel.ID, OwnerID: member.ID}
		if err := db.Create(&msg).Error; err != nil {
			t.Fatalf("Failed to create message: %v", err)
		}
	}

	messages, total, err := service.SearchMessages(member.ID, channel.ID, "match", 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if total != 5 {
		t.Errorf("Expected total 5, got %d", total)
	}
	if len(messages) != 2 {
		t.Errorf("Expected 2 messages with limit 2, got %d", len(messages))
	}
}
