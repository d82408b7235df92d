package audit

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

	err = db.AutoMigrate(&chat.User{}, &chat.Server{}, &chat.Channel{}, &chat.AuditLog{})
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func TestAuditService_LogAndRetrieve(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuditService(db)

	owner := chat.User{Username: "alice", Email: "alice@example.com", Password: "x"}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	other := chat.User{Username: "bob", Email: "bob@example.com", Password: "x"}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	server := chat.Server{Name: "gaming", OwnerID: owner.ID}
	if err := db.Create(&server).Error; err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	if err := service.LogServerCreation(owner.ID, server.ID, "gaming"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := service.LogServerJoin(other.ID, server.ID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := service.LogChannelCreation(owner.ID, server.ID, 1, "general"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	logs, total, err := service.GetServerAuditLogs(owner.ID, server.ID, 10, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("Expected total 3, got %d", total)
	}
	if len(logs) != 3 {
		t.Errorf("Expected 3 logs, got %d", len(logs))
	}

	actions := make(map[string]bool)
	for _, entry := range logs {
		actions[entry.Action] = true
	}
	for _, want := range []string{ActionCreateServer, ActionJoinServer, ActionCreateChannel} {
		if !actions[want] {
			t.Errorf("Expected action %q in audit trail", want)
		}
	}

	if _, _, err := service.GetServerAuditLogs(other.ID, server.ID, 10, 0); err == nil {
		t.Error("Expected error when non-owner reads audit trail")
	}
}

func TestAuditService_Pagination(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuditService(db)

	owner := chat.User{Username: "alice", Email: "alice@example.com", Password: "x"}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	server := chat.Server{Name: "gaming", OwnerID: owner.ID}
	if err := db.Create(&server).Error; err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := service.LogServerJoin(owner.ID, server.ID); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	logs, total, err := service.GetServerAuditLogs(owner.ID, server.ID, 2, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if total != 5 {
		t.Errorf("Expected total 5, got %d", total)
	}
	if len(logs) != 2 {
		t.Errorf("Expected 2 logs on first page, got %d", len(logs))
	}

	logs, _, err = service.GetServerAuditLogs(owner.ID, server.ID, 2, 4)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("Expected 1 log on last page, got %d", len(logs))
	}
}
