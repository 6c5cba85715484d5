package service

import (
	"errors"
	"testing"
	"time"

	"github.com/threadlog/internal/db"
	"gorm.io/gorm"
)

var testReasons = ReportReasons{
	{Key: "spam", Label: "Spam"},
	{Key: "abuse", Label: "Abuse"},
}

func newReportService(gdb *gorm.DB, threads *ThreadService) (*ReportService, *PostService) {
	posts := NewPostService(gdb, 20)
	return NewReportService(gdb, testReasons, threads, posts), posts
}

func TestFileReportValidatesReasonCategory(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	threads, thread := seedThread(t, gdb, nil)
	reports, _ := newReportService(gdb, threads)

	if _, err := reports.FileThreadReport(testReader, thread.ID, ReportInput{ReasonCategory: "spam"}); err != nil {
		t.Fatalf("expected configured reason to pass, got %v", err)
	}

	_, err := reports.FileThreadReport(testReader, thread.ID, ReportInput{ReasonCategory: "nonsense"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for unknown reason, got %v", err)
	}
}

func TestFileReportValidatesEvidenceURL(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	threads, thread := seedThread(t, gdb, nil)
	reports, _ := newReportService(gdb, threads)

	_, err := reports.FileThreadReport(testReader, thread.ID, ReportInput{
		ReasonCategory: "spam",
		EvidenceURL:    "not a url",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for bad url, got %v", err)
	}

	if _, err := reports.FileThreadReport(testReader, thread.ID, ReportInput{
		ReasonCategory: "spam",
		EvidenceURL:    "https://example.com/screenshot.png",
	}); err != nil {
		t.Fatalf("expected well-formed url to pass, got %v", err)
	}
}

func TestDuplicateReportUpdatesExistingRow(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	threads, thread := seedThread(t, gdb, nil)
	reports, _ := newReportService(gdb, threads)

	if _, err := reports.FileThreadReport(testReader, thread.ID, ReportInput{
		ReasonCategory: "spam",
		Reason:         "looks spammy",
	}); err != nil {
		t.Fatalf("first filing returned error: %v", err)
	}

	second, err := reports.FileThreadReport(testReader, thread.ID, ReportInput{
		ReasonCategory: "abuse",
		Reason:         "actually abusive",
	})
	if err != nil {
		t.Fatalf("second filing returned error: %v", err)
	}

	var count int64
	gdb.Model(&db.ThreadReport{}).
		Where("thread_id = ? AND reporter_id = ?", thread.ID, testReader.ID).
		Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly 1 report row, got %d", count)
	}
	if second.ReasonCategory != "abuse" || second.Reason != "actually abusive" {
		t.Fatalf("expected refreshed reason, got %+v", second)
	}

	// A different reporter gets their own row.
	if _, err := reports.FileThreadReport(Actor{ID: 77}, thread.ID, ReportInput{ReasonCategory: "spam"}); err != nil {
		t.Fatalf("other reporter filing returned error: %v", err)
	}
	gdb.Model(&db.ThreadReport{}).Where("thread_id = ?", thread.ID).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 rows for 2 reporters, got %d", count)
	}
}

func TestReviewStampsAndReopenClears(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	threads, thread := seedThread(t, gdb, nil)
	reports, _ := newReportService(gdb, threads)

	filed, err := reports.FileThreadReport(testReader, thread.ID, ReportInput{ReasonCategory: "spam"})
	if err != nil {
		t.Fatalf("filing returned error: %v", err)
	}

	if err := reports.Review(testReader, ReportTargetThread, filed.ID, db.ReportStatusReviewed, ModerationNone); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for non-moderator, got %v", err)
	}

	if err := reports.Review(testModerator, ReportTargetThread, filed.ID, db.ReportStatusReviewed, ModerationNone); err != nil {
		t.Fatalf("Review returned error: %v", err)
	}

	var reloaded db.ThreadReport
	gdb.First(&reloaded, filed.ID)
	if reloaded.Review.Status != db.ReportStatusReviewed {
		t.Fatalf("expected reviewed status, got %s", reloaded.Review.Status)
	}
	if reloaded.Review.ReviewedAt == nil || reloaded.Review.ReviewedBy == nil {
		t.Fatal("expected review stamp to be set")
	}

	// Explicit re-open clears the stamp.
	if err := reports.Review(testModerator, ReportTargetThread, filed.ID, db.ReportStatusPending, ModerationNone); err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	// GORM skips NULL columns when scanning into a reused struct, so reset it
	// before reloading to observe the cleared stamp.
	reloaded = db.ThreadReport{}
	gdb.First(&reloaded, filed.ID)
	if reloaded.Review.Status != db.ReportStatusPending {
		t.Fatalf("expected pending after reopen, got %s", reloaded.Review.Status)
	}
	if reloaded.Review.ReviewedAt != nil || reloaded.Review.ReviewedBy != nil {
		t.Fatal("expected review stamp cleared on reopen")
	}
}

func TestReviewAppliesThreadModeration(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	threads, thread := seedThread(t, gdb, nil)
	reports, _ := newReportService(gdb, threads)

	filed, _ := reports.FileThreadReport(testReader, thread.ID, ReportInput{ReasonCategory: "abuse"})

	if err := reports.Review(testModerator, ReportTargetThread, filed.ID, db.ReportStatusReviewed, ModerationLockThread); err != nil {
		t.Fatalf("Review returned error: %v", err)
	}

	var reloaded db.Thread
	gdb.First(&reloaded, thread.ID)
	if !reloaded.IsLocked {
		t.Fatal("expected moderation action to lock the thread")
	}
}

func TestReviewRejectsMismatchedAction(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	threads, thread := seedThread(t, gdb, nil)
	reports, _ := newReportService(gdb, threads)

	filed, _ := reports.FileThreadReport(testReader, thread.ID, ReportInput{ReasonCategory: "spam"})

	err := reports.Review(testModerator, ReportTargetThread, filed.ID, db.ReportStatusReviewed, ModerationDeletePost)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for post action on thread report, got %v", err)
	}
}

func TestReviewSkipsVanishedTarget(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	threads, thread := seedThread(t, gdb, nil)
	reports, posts := newReportService(gdb, threads)

	created, err := posts.Create(testReader, thread.ID, "report me")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	filed, err := reports.FilePostReport(Actor{ID: 55}, created.Post.ID, ReportInput{ReasonCategory: "abuse"})
	if err != nil {
		t.Fatalf("filing returned error: %v", err)
	}

	// The author removes the post before the moderator gets to it.
	if err := posts.Delete(testReader, thread.ID, created.Post.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	// The delete action is silently skipped; the transition still lands.
	if err := reports.Review(testModerator, ReportTargetPost, filed.ID, db.ReportStatusReviewed, ModerationDeletePost); err != nil {
		t.Fatalf("Review returned error: %v", err)
	}

	var reloaded db.PostReport
	gdb.First(&reloaded, filed.ID)
	if reloaded.Review.Status != db.ReportStatusReviewed {
		t.Fatalf("expected reviewed status, got %s", reloaded.Review.Status)
	}
}

func TestListMergesThreadAndPostReports(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	threads, thread := seedThread(t, gdb, nil)
	reports, posts := newReportService(gdb, threads)

	created, err := posts.Create(testReader, thread.ID, "a post")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	threadReport, err := reports.FileThreadReport(testReader, thread.ID, ReportInput{ReasonCategory: "spam"})
	if err != nil {
		t.Fatalf("thread filing returned error: %v", err)
	}
	// Make the post report strictly newer so the merged order is fixed.
	postReport, err := reports.FilePostReport(testReader, created.Post.ID, ReportInput{ReasonCategory: "abuse"})
	if err != nil {
		t.Fatalf("post filing returned error: %v", err)
	}
	if err := gdb.Model(&db.PostReport{}).Where("id = ?", postReport.ID).
		UpdateColumn("created_at", time.Now().Add(time.Hour)).Error; err != nil {
		t.Fatalf("failed to adjust report time: %v", err)
	}

	page, err := reports.List(testModerator, ReportFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 pending reports, got %d", page.Total)
	}
	if page.Data[0].Type != ReportTargetPost || page.Data[0].ID != postReport.ID {
		t.Fatalf("expected newest (post) report first, got %+v", page.Data[0])
	}
	if page.Data[1].Type != ReportTargetThread || page.Data[1].ID != threadReport.ID {
		t.Fatalf("expected thread report second, got %+v", page.Data[1])
	}
	if page.Data[0].TargetTitle != thread.Title {
		t.Fatalf("expected post report to carry thread title, got %q", page.Data[0].TargetTitle)
	}

	// Reviewing the thread report drops it from the default queue.
	if err := reports.Review(testModerator, ReportTargetThread, threadReport.ID, db.ReportStatusDismissed, ModerationNone); err != nil {
		t.Fatalf("Review returned error: %v", err)
	}
	page, err = reports.List(testModerator, ReportFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Total != 1 || page.Data[0].Type != ReportTargetPost {
		t.Fatalf("expected only the pending post report, got %+v", page.Data)
	}

	// The pseudo-status keeps everything visible.
	page, err = reports.List(testModerator, ReportFilter{Status: ReportStatusAll})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 reports under status=all, got %d", page.Total)
	}
}

func TestListFiltersByTypeBoardAndSearch(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	threads, thread := seedThread(t, gdb, nil)
	reports, posts := newReportService(gdb, threads)

	created, _ := posts.Create(testReader, thread.ID, "a post")
	reports.FileThreadReport(testReader, thread.ID, ReportInput{ReasonCategory: "spam"})
	reports.FilePostReport(testReader, created.Post.ID, ReportInput{ReasonCategory: "abuse"})

	page, err := reports.List(testModerator, ReportFilter{Type: ReportTargetThread})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Total != 1 || page.Data[0].Type != ReportTargetThread {
		t.Fatalf("expected only thread reports, got %+v", page.Data)
	}

	page, err = reports.List(testModerator, ReportFilter{BoardID: thread.BoardID})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected both reports on the board, got %d", page.Total)
	}

	page, err = reports.List(testModerator, ReportFilter{BoardID: thread.BoardID + 100})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("expected no reports on other board, got %d", page.Total)
	}

	page, err = reports.List(testModerator, ReportFilter{Search: "Hello"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected title search to match both, got %d", page.Total)
	}

	page, err = reports.List(testModerator, ReportFilter{Reason: "abuse"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Total != 1 || page.Data[0].Type != ReportTargetPost {
		t.Fatalf("expected only the abuse report, got %+v", page.Data)
	}
}
