package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/threadlog/internal/audit"
	"github.com/threadlog/internal/config"
	"github.com/threadlog/internal/db"
	"github.com/threadlog/internal/handler"
	"github.com/threadlog/internal/router"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type apiClient struct {
	t       *testing.T
	base    string
	actorID string
	caps    string
}

func (c *apiClient) do(method, path string, payload interface{}) (*http.Response, []byte) {
	c.t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			c.t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.base+path, body)
	if err != nil {
		c.t.Fatalf("failed to build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.actorID != "" {
		req.Header.Set("X-Actor-ID", c.actorID)
		req.Header.Set("X-Actor-Capabilities", c.caps)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		c.t.Fatalf("failed to read response body: %v", err)
	}
	return resp, data
}

func (c *apiClient) expect(method, path string, payload interface{}, want int) []byte {
	c.t.Helper()
	resp, data := c.do(method, path, payload)
	if resp.StatusCode != want {
		c.t.Fatalf("%s %s: expected status %d, got %d (%s)", method, path, want, resp.StatusCode, data)
	}
	return data
}

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	api := handler.NewAPI(gdb, audit.NewDBSink(gdb), []config.ReasonPair{
		{Key: "spam", Label: "Spam"},
		{Key: "abuse", Label: "Abuse"},
	}, 20)

	srv := httptest.NewServer(router.SetupRouter(api, "e2e-secret"))
	t.Cleanup(func() {
		srv.Close()
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return srv
}

func TestForumLifecycleEndToEnd(t *testing.T) {
	srv := startTestServer(t)

	moderator := &apiClient{t: t, base: srv.URL, actorID: "1", caps: "moderate,view_history,restore"}
	author := &apiClient{t: t, base: srv.URL, actorID: "2"}
	reader := &apiClient{t: t, base: srv.URL, actorID: "3"}
	anonymous := &apiClient{t: t, base: srv.URL}

	// 版主搭建分区和版块
	var category struct {
		ID uint `json:"ID"`
	}
	data := moderator.expect(http.MethodPost, "/api/mod/categories",
		map[string]string{"title": "General"}, http.StatusCreated)
	if err := json.Unmarshal(data, &category); err != nil {
		t.Fatalf("failed to decode category: %v", err)
	}

	var board struct {
		ID uint `json:"ID"`
	}
	data = moderator.expect(http.MethodPost, fmt.Sprintf("/api/mod/categories/%d/boards", category.ID),
		map[string]string{"title": "Chat"}, http.StatusCreated)
	if err := json.Unmarshal(data, &board); err != nil {
		t.Fatalf("failed to decode board: %v", err)
	}

	// 普通用户无权建版块
	reader.expect(http.MethodPost, fmt.Sprintf("/api/mod/categories/%d/boards", category.ID),
		map[string]string{"title": "Rogue"}, http.StatusForbidden)

	// 作者开帖
	var thread struct {
		ID   uint   `json:"ID"`
		Slug string `json:"Slug"`
	}
	data = author.expect(http.MethodPost, fmt.Sprintf("/api/forum/boards/%d/threads", board.ID),
		map[string]string{"title": "Hello world", "body": "First post body"}, http.StatusCreated)
	if err := json.Unmarshal(data, &thread); err != nil {
		t.Fatalf("failed to decode thread: %v", err)
	}
	if thread.Slug == "" {
		t.Fatal("expected thread slug to be generated")
	}

	// 读者回帖
	var reply struct {
		Post struct {
			ID uint `json:"ID"`
		} `json:"post"`
		Page int `json:"page"`
	}
	data = reader.expect(http.MethodPost, fmt.Sprintf("/api/forum/threads/%d/posts", thread.ID),
		map[string]string{"body": "Nice to meet you"}, http.StatusCreated)
	if err := json.Unmarshal(data, &reply); err != nil {
		t.Fatalf("failed to decode reply: %v", err)
	}
	if reply.Page != 1 {
		t.Fatalf("expected reply on page 1, got %d", reply.Page)
	}

	// 匿名可以浏览，但不能回帖
	anonymous.expect(http.MethodGet, fmt.Sprintf("/api/forum/threads/%d/posts", thread.ID),
		nil, http.StatusOK)
	anonymous.expect(http.MethodPost, fmt.Sprintf("/api/forum/threads/%d/posts", thread.ID),
		map[string]string{"body": "drive-by"}, http.StatusUnauthorized)

	// 读者举报主题
	reader.expect(http.MethodPost, fmt.Sprintf("/api/forum/threads/%d/reports", thread.ID),
		map[string]string{"reason_category": "spam", "reason": "looks spammy"}, http.StatusCreated)

	// 举报队列只对版主开放
	reader.expect(http.MethodGet, "/api/mod/reports", nil, http.StatusForbidden)

	var queue struct {
		Data []struct {
			ID   uint   `json:"id"`
			Type string `json:"type"`
		} `json:"data"`
		Total int64 `json:"total"`
	}
	data = moderator.expect(http.MethodGet, "/api/mod/reports", nil, http.StatusOK)
	if err := json.Unmarshal(data, &queue); err != nil {
		t.Fatalf("failed to decode report queue: %v", err)
	}
	if queue.Total != 1 || queue.Data[0].Type != "thread" {
		t.Fatalf("unexpected report queue: %s", data)
	}

	// 审核举报并锁定主题
	moderator.expect(http.MethodPost, fmt.Sprintf("/api/mod/reports/thread/%d/review", queue.Data[0].ID),
		map[string]string{"status": "reviewed", "action": "lock"}, http.StatusNoContent)

	// 锁定后普通用户无法回帖
	reader.expect(http.MethodPost, fmt.Sprintf("/api/forum/threads/%d/posts", thread.ID),
		map[string]string{"body": "too late"}, http.StatusForbidden)

	// 处理完的举报离开默认队列
	data = moderator.expect(http.MethodGet, "/api/mod/reports", nil, http.StatusOK)
	if err := json.Unmarshal(data, &queue); err != nil {
		t.Fatalf("failed to decode report queue: %v", err)
	}
	if queue.Total != 0 {
		t.Fatalf("expected empty pending queue, got %d", queue.Total)
	}

	// 读者标记已读
	reader.expect(http.MethodPost, fmt.Sprintf("/api/forum/threads/%d/read", thread.ID),
		map[string]uint{"post_id": reply.Post.ID}, http.StatusNoContent)

	var unread struct {
		Unread bool `json:"unread"`
	}
	data = reader.expect(http.MethodGet, fmt.Sprintf("/api/forum/threads/%d/unread", thread.ID),
		nil, http.StatusOK)
	if err := json.Unmarshal(data, &unread); err != nil {
		t.Fatalf("failed to decode unread: %v", err)
	}
	if unread.Unread {
		t.Fatal("expected thread read after marking newest post")
	}

	// 版主删除主题，相关数据一并清理
	moderator.expect(http.MethodDelete, fmt.Sprintf("/api/mod/threads/%d", thread.ID),
		nil, http.StatusNoContent)
	anonymous.expect(http.MethodGet, fmt.Sprintf("/api/forum/threads/%d", thread.ID),
		nil, http.StatusNotFound)
}
