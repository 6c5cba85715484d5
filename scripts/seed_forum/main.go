package main

import (
	"fmt"
	"log"

	"github.com/threadlog/internal/audit"
	"github.com/threadlog/internal/config"
	"github.com/threadlog/internal/db"
	"github.com/threadlog/internal/service"
)

// 测试数据生成器：创建示例分区、版块、主题和回帖
func main() {
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")

	moderator := service.Actor{
		ID: 1,
		Capabilities: []service.Capability{
			service.CapModerate,
			service.CapViewHistory,
			service.CapRestore,
		},
	}
	author := service.Actor{ID: 2}

	ordering := service.NewOrderingService(db.DB)
	categories := service.NewCategoryService(db.DB, ordering)
	boards := service.NewBoardService(db.DB, ordering)
	threads := service.NewThreadService(db.DB, audit.NewDBSink(db.DB))
	posts := service.NewPostService(db.DB, cfg.PageSize)

	// 已有数据时跳过，脚本可以重复执行
	var count int64
	db.DB.Model(&db.Category{}).Count(&count)
	if count > 0 {
		fmt.Println("分区已存在，跳过创建")
		return
	}

	seeds := []struct {
		category string
		boards   []string
	}{
		{category: "综合讨论", boards: []string{"闲聊灌水", "新人报到"}},
		{category: "技术交流", boards: []string{"Go语言", "Web开发", "数据库"}},
		{category: "站务公告", boards: []string{"公告", "意见反馈"}},
	}

	threadSeeds := []struct {
		board string
		title string
		body  string
	}{
		{
			board: "Go语言",
			title: "Go并发模式讨论",
			body:  "大家在实际项目里常用哪些并发模式？worker pool 还是 pipeline？",
		},
		{
			board: "Go语言",
			title: "GORM软删除的坑",
			body:  "分享一个被 `deleted_at` 索引坑过的经历，附解决方案。",
		},
		{
			board: "闲聊灌水",
			title: "今天你写代码了吗",
			body:  "日常打卡帖，回复即可。",
		},
		{
			board: "公告",
			title: "论坛使用规范",
			body:  "发帖前请先阅读版规，举报入口在每个帖子的菜单里。",
		},
	}

	boardByTitle := make(map[string]uint)
	for _, seed := range seeds {
		category, err := categories.Create(moderator, service.CategoryInput{Title: seed.category})
		if err != nil {
			log.Printf("创建分区失败: %v", err)
			continue
		}
		for _, title := range seed.boards {
			board, err := boards.Create(moderator, category.ID, service.BoardInput{Title: title})
			if err != nil {
				log.Printf("创建版块失败: %v", err)
				continue
			}
			boardByTitle[title] = board.ID
		}
	}
	fmt.Println("✅ 分区与版块创建完成")

	for _, seed := range threadSeeds {
		boardID, ok := boardByTitle[seed.board]
		if !ok {
			continue
		}
		thread, err := threads.Create(author, service.ThreadInput{
			BoardID: boardID,
			Title:   seed.title,
			Body:    seed.body,
		})
		if err != nil {
			log.Printf("创建主题失败: %v", err)
			continue
		}
		if _, err := posts.Create(moderator, thread.ID, "欢迎讨论，注意保持友善。"); err != nil {
			log.Printf("创建回帖失败: %v", err)
		}
	}
	fmt.Println("✅ 主题与回帖创建完成")

	fmt.Println("测试数据生成完成！")
}
