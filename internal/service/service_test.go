package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/threadlog/internal/audit"
	"github.com/threadlog/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	// 每个测试使用独立的内存库，避免用例间数据串扰
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(
		&db.Category{},
		&db.Board{},
		&db.Thread{},
		&db.Post{},
		&db.PostRevision{},
		&db.ThreadReport{},
		&db.PostReport{},
		&db.ThreadRead{},
		&db.AuditEvent{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

var (
	testModerator = Actor{ID: 1, Capabilities: []Capability{CapModerate, CapViewHistory, CapRestore}}
	testAuthor    = Actor{ID: 2}
	testReader    = Actor{ID: 3}
)

// seedBoard creates a category with one board for tests that need a
// place to put threads.
func seedBoard(t *testing.T, gdb *gorm.DB) (*db.Category, *db.Board) {
	t.Helper()
	ordering := NewOrderingService(gdb)
	categories := NewCategoryService(gdb, ordering)
	boards := NewBoardService(gdb, ordering)

	category, err := categories.Create(testModerator, CategoryInput{Title: "General"})
	if err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	board, err := boards.Create(testModerator, category.ID, BoardInput{Title: "Chat"})
	if err != nil {
		t.Fatalf("failed to seed board: %v", err)
	}
	return category, board
}

// seedThread opens a thread as testAuthor on a fresh board.
func seedThread(t *testing.T, gdb *gorm.DB, sink audit.Sink) (*ThreadService, *db.Thread) {
	t.Helper()
	if sink == nil {
		sink = &audit.MemorySink{}
	}
	_, board := seedBoard(t, gdb)
	threads := NewThreadService(gdb, sink)
	thread, err := threads.Create(testAuthor, ThreadInput{
		BoardID: board.ID,
		Title:   "Hello world",
		Body:    "First post body",
	})
	if err != nil {
		t.Fatalf("failed to seed thread: %v", err)
	}
	return threads, thread
}
