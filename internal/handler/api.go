package handler

import (
	"github.com/threadlog/internal/audit"
	"github.com/threadlog/internal/config"
	"github.com/threadlog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	categories *service.CategoryService
	boards     *service.BoardService
	threads    *service.ThreadService
	posts      *service.PostService
	reports    *service.ReportService
	revisions  *service.RevisionService
	reads      *service.ReadService
}

// NewAPI constructs a handler set with shared services. The audit sink
// and report reason set are injected; the engine never reaches for
// globals to find them.
func NewAPI(gdb *gorm.DB, sink audit.Sink, reasons []config.ReasonPair, pageSize int) *API {
	ordering := service.NewOrderingService(gdb)
	threads := service.NewThreadService(gdb, sink)
	posts := service.NewPostService(gdb, pageSize)

	reasonSet := make(service.ReportReasons, 0, len(reasons))
	for _, pair := range reasons {
		reasonSet = append(reasonSet, service.ReportReason{Key: pair.Key, Label: pair.Label})
	}

	return &API{
		db:         gdb,
		categories: service.NewCategoryService(gdb, ordering),
		boards:     service.NewBoardService(gdb, ordering),
		threads:    threads,
		posts:      posts,
		reports:    service.NewReportService(gdb, reasonSet, threads, posts),
		revisions:  service.NewRevisionService(gdb),
		reads:      service.NewReadService(gdb),
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
