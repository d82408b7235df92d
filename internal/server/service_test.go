package server

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

func createUser(t *testing.T, db *gorm.DB, username string) chat.User {
	user := chat.User{Username: username, Email: username + "@example.com", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func TestServerService_CreateServer(t *testing.T) {
	db := setupTestDB(t)
	service := NewServerService(db)
	owner := createUser(t, db, "alice")

	server, err := service.CreateServer(owner.ID, "gaming")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if server.OwnerID != owner.ID {
		t.Errorf("Expected owner %d, got %d", owner.ID, server.OwnerID)
	}

	member, err := service.IsMember(owner.ID, server.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !member {
		t.Error("Expected creator to be a member")
	}

	if _, err := service.CreateServer(owner.ID, ""); err == nil {
		t.Error("Expected error for empty server name")
	}
}

func TestServerService_JoinAndLeave(t *testing.T) {
	db := setupTestDB(t)
	service := NewServerService(db)
	owner := createUser(t, db, "alice")
	joiner := createUser(t, db, "bob")

	server, err := service.CreateServer(owner.ID, "gaming")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := service.JoinServer(joiner.ID, server.ID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := service.JoinServer(joiner.ID, server.ID); err == nil {
		t.Error("Expected error for double join")
	}
	if err := service.JoinServer(joiner.ID, 9999); err == nil {
		t.Error("Expected error for unknown server")
	}

	members, err := service.GetServerMembers(joiner.ID, server.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("Expected 2 members, got %d", len(members))
	}

	if err := service.LeaveServer(owner.ID, server.ID); err == nil {
		t.Error("Expected error when owner leaves own server")
	}
	if err := service.LeaveServer(joiner.ID, server.ID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	member, _ := service.IsMember(joiner.ID, server.ID)
	if member {
		t.Error("Expected joiner to be gone after leaving")
	}
}

func TestServerService_GetUserServers(t *testing.T) {
	db := setupTestDB(t)
	service := NewServerService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	if _, err := service.CreateServer(alice.ID, "one"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := service.CreateServer(alice.ID, "two")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := service.JoinServer(bob.ID, second.ID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	aliceServers, err := service.GetUserServers(alice.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(aliceServers) != 2 {
		t.Errorf("Expected 2 servers for alice, got %d", len(aliceServers))
	}

	bobServers, err := service.GetUserServers(bob.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(bobServers) != 1 {
		t.Errorf("Expected 1 server for bob, got %d", len(bobServers))
	}
}

func TestServerService_DeleteServer(t *testing.T) {
	db := setupTestDB(t)
	service := NewServerService(db)
	owner := createUser(t, db, "alice")
	other := createUser(t, db, "bob")

	server, err := service.CreateServer(owner.ID, "gaming")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	channel := chat.Channel{Name: "general", ServerID: server.ID}
	if err := db.Create(&channel).Error; err != nil {
		t.Fatalf("Failed to create channel: %v", err)
	}
	msg := chat.Message{Content: "hi", ChannelID: channel.ID, OwnerID: owner.ID}
	if err := db.Create(&msg).Error; err != nil {
		t.Fatalf("Failed to create message: %v", err)
	}

	if err := service.DeleteServer(other.ID, server.ID); err == nil {
		t.Error("Expected error when non-owner deletes server")
	}

	if err := service.DeleteServer(owner.ID, server.ID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var channels int64
	db.Model(&chat.Channel{}).Where("server_id = ?", server.ID).Count(&channels)
	if channels != 0 {
		t.Error("Expected channels to be removed with the server")
	}

	var messages int64
	db.Model(&chat.Message{}).Where("channel_id = ?", channel.ID).Count(&messages)
	if messages != 0 {
		t.Error("Expected messages to be removed with the server")
	}
}
