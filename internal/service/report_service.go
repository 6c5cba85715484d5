package service

import (
	"errors"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/threadlog/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Report target types accepted by the queue.
const (
	ReportTargetThread = "thread"
	ReportTargetPost   = "post"
	ReportTargetAll    = "all"
)

// ReportStatusAll is the listing pseudo-status matching every report.
const ReportStatusAll = "all"

// ModerationAction optionally applied to a report's target during
// review. The empty action applies nothing.
type ModerationAction string

const (
	ModerationNone            ModerationAction = ""
	ModerationLockThread      ModerationAction = "lock"
	ModerationUnlockThread    ModerationAction = "unlock"
	ModerationUnpublishThread ModerationAction = "unpublish"
	ModerationRepublishThread ModerationAction = "republish"
	ModerationDeletePost      ModerationAction = "delete"
)

// ReportReason is one entry of the externally configured reason set.
type ReportReason struct {
	Key   string
	Label string
}

// ReportReasons is the ordered reason mapping injected at construction
// time; the engine never reads it from global state.
type ReportReasons []ReportReason

// Valid reports whether the key belongs to the configured set.
func (r ReportReasons) Valid(key string) bool {
	for _, reason := range r {
		if reason.Key == key {
			return true
		}
	}
	return false
}

// ReportInput carries the reporter-supplied fields.
type ReportInput struct {
	ReasonCategory string
	Reason         string
	EvidenceURL    string
}

// ReportFilter narrows the review queue listing. The zero value lists
// pending reports of both types.
type ReportFilter struct {
	Type    string // thread | post | all
	Status  string // pending | reviewed | dismissed | all
	Reason  string
	BoardID uint
	Search  string
	Page    PageRequest
}

// ReportView is the merged listing row for either report type.
type ReportView struct {
	Type           string     `json:"type"`
	ID             uint       `json:"id"`
	TargetID       uint       `json:"target_id"`
	ReporterID     uint       `json:"reporter_id"`
	ReasonCategory string     `json:"reason_category"`
	Reason         string     `json:"reason"`
	EvidenceURL    string     `json:"evidence_url"`
	Status         string     `json:"status"`
	ReviewedAt     *time.Time `json:"reviewed_at"`
	ReviewedBy     *uint      `json:"reviewed_by"`
	CreatedAt      time.Time  `json:"created_at"`
	TargetTitle    string     `json:"target_title"`
	BoardID        uint       `json:"board_id"`
}

// ReportService owns report intake and the review state machine.
type ReportService struct {
	db      *gorm.DB
	reasons ReportReasons
	threads *ThreadService
	posts   *PostService
}

// NewReportService creates a ReportService instance. The reason set is
// injected configuration (see config.ReportReasons).
func NewReportService(gdb *gorm.DB, reasons ReportReasons, threads *ThreadService, posts *PostService) *ReportService {
	return &ReportService{db: gdb, reasons: reasons, threads: threads, posts: posts}
}

// Reasons exposes the configured reason set for listing in clients.
func (s *ReportService) Reasons() ReportReasons {
	return s.reasons
}

func (s *ReportService) validateInput(input *ReportInput) error {
	input.ReasonCategory = strings.TrimSpace(input.ReasonCategory)
	if !s.reasons.Valid(input.ReasonCategory) {
		return ErrUnknownReason
	}
	input.Reason = strings.TrimSpace(input.Reason)
	input.EvidenceURL = strings.TrimSpace(input.EvidenceURL)
	if input.EvidenceURL != "" {
		parsed, err := url.Parse(input.EvidenceURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return ErrInvalidEvidenceURL
		}
	}
	return nil
}

// FileThreadReport files (or refreshes) the reporter's report against a
// thread. One row per (thread, reporter): a second filing updates
// reason and evidence instead of duplicating.
func (s *ReportService) FileThreadReport(actor Actor, threadID uint, input ReportInput) (*db.ThreadReport, error) {
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}

	var thread db.Thread
	if err := s.db.First(&thread, threadID).Error; err != nil {
		return nil, wrapNotFound(err, ErrThreadNotFound)
	}

	report := db.ThreadReport{
		ThreadID:       threadID,
		ReporterID:     actor.ID,
		ReasonCategory: input.ReasonCategory,
		Reason:         input.Reason,
		EvidenceURL:    input.EvidenceURL,
		Review:         db.Review{Status: db.ReportStatusPending},
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "thread_id"}, {Name: "reporter_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"reason_category": input.ReasonCategory,
			"reason":          input.Reason,
			"evidence_url":    input.EvidenceURL,
			"updated_at":      time.Now(),
		}),
	}).Create(&report).Error
	if err != nil {
		return nil, err
	}

	var saved db.ThreadReport
	if err := s.db.Where("thread_id = ? AND reporter_id = ?", threadID, actor.ID).
		First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// FilePostReport files (or refreshes) the reporter's report against a
// post.
func (s *ReportService) FilePostReport(actor Actor, postID uint, input ReportInput) (*db.PostReport, error) {
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}

	var post db.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		return nil, wrapNotFound(err, ErrPostNotFound)
	}

	report := db.PostReport{
		PostID:         postID,
		ReporterID:     actor.ID,
		ReasonCategory: input.ReasonCategory,
		Reason:         input.Reason,
		EvidenceURL:    input.EvidenceURL,
		Review:         db.Review{Status: db.ReportStatusPending},
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "post_id"}, {Name: "reporter_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"reason_category": input.ReasonCategory,
			"reason":          input.Reason,
			"evidence_url":    input.EvidenceURL,
			"updated_at":      time.Now(),
		}),
	}).Create(&report).Error
	if err != nil {
		return nil, err
	}

	var saved db.PostReport
	if err := s.db.Where("post_id = ? AND reporter_id = ?", postID, actor.ID).
		First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// Review transitions a report and optionally applies a moderation
// action to its target. Setting the status back to pending is the
// explicit re-open and clears the review stamp. A vanished target
// silently skips the action; the status transition still lands.
func (s *ReportService) Review(actor Actor, targetType string, reportID uint, status string, action ModerationAction) error {
	if !actor.IsModerator() {
		return ErrNotPermitted
	}
	switch status {
	case db.ReportStatusPending, db.ReportStatusReviewed, db.ReportStatusDismissed:
	default:
		return ErrInvalidReportStatus
	}

	switch targetType {
	case ReportTargetThread:
		return s.reviewThreadReport(actor, reportID, status, action)
	case ReportTargetPost:
		return s.reviewPostReport(actor, reportID, status, action)
	default:
		return validation("unknown report target type")
	}
}

func reviewUpdates(status string, actor Actor) map[string]interface{} {
	if status == db.ReportStatusPending {
		return map[string]interface{}{
			"status":      db.ReportStatusPending,
			"reviewed_at": nil,
			"reviewed_by": nil,
		}
	}
	return map[string]interface{}{
		"status":      status,
		"reviewed_at": time.Now(),
		"reviewed_by": actor.ID,
	}
}

func (s *ReportService) reviewThreadReport(actor Actor, reportID uint, status string, action ModerationAction) error {
	switch action {
	case ModerationNone, ModerationLockThread, ModerationUnlockThread,
		ModerationUnpublishThread, ModerationRepublishThread:
	default:
		return ErrInvalidModeration
	}

	var report db.ThreadReport
	if err := s.db.First(&report, reportID).Error; err != nil {
		return wrapNotFound(err, ErrReportNotFound)
	}

	if err := s.db.Model(&db.ThreadReport{}).Where("id = ?", report.ID).
		Updates(reviewUpdates(status, actor)).Error; err != nil {
		return err
	}

	return s.applyThreadAction(actor, report.ThreadID, action)
}

func (s *ReportService) reviewPostReport(actor Actor, reportID uint, status string, action ModerationAction) error {
	switch action {
	case ModerationNone, ModerationDeletePost:
	default:
		return ErrInvalidModeration
	}

	var report db.PostReport
	if err := s.db.First(&report, reportID).Error; err != nil {
		return wrapNotFound(err, ErrReportNotFound)
	}

	if err := s.db.Model(&db.PostReport{}).Where("id = ?", report.ID).
		Updates(reviewUpdates(status, actor)).Error; err != nil {
		return err
	}

	return s.applyPostAction(actor, report.PostID, action)
}

func (s *ReportService) applyThreadAction(actor Actor, threadID uint, action ModerationAction) error {
	var err error
	switch action {
	case ModerationNone:
		return nil
	case ModerationLockThread:
		err = s.threads.Lock(actor, threadID)
	case ModerationUnlockThread:
		err = s.threads.Unlock(actor, threadID)
	case ModerationUnpublishThread:
		err = s.threads.Unpublish(actor, threadID)
	case ModerationRepublishThread:
		err = s.threads.Publish(actor, threadID)
	}
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func (s *ReportService) applyPostAction(actor Actor, postID uint, action ModerationAction) error {
	if action != ModerationDeletePost {
		return nil
	}
	post, err := s.posts.GetIncludingDeleted(postID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if post.DeletedAt.Valid {
		// Already gone; nothing left to moderate.
		return nil
	}
	if err := s.posts.Delete(actor, post.ThreadID, post.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// List merges thread and post reports, sorts by created_at descending
// and paginates in memory. The two result sets come from distinct
// tables, so global recency order can only be established after the
// merge; that trade is intentional for review-queue volumes.
func (s *ReportService) List(actor Actor, filter ReportFilter) (*Page[ReportView], error) {
	if !actor.IsModerator() {
		return nil, ErrNotPermitted
	}

	status := strings.TrimSpace(filter.Status)
	if status == "" {
		status = db.ReportStatusPending
	}
	switch status {
	case ReportStatusAll, db.ReportStatusPending, db.ReportStatusReviewed, db.ReportStatusDismissed:
	default:
		return nil, ErrInvalidReportStatus
	}

	reportType := strings.TrimSpace(filter.Type)
	if reportType == "" {
		reportType = ReportTargetAll
	}

	var merged []ReportView
	if reportType == ReportTargetAll || reportType == ReportTargetThread {
		rows, err := s.listThreadReports(status, filter)
		if err != nil {
			return nil, err
		}
		merged = append(merged, rows...)
	}
	if reportType == ReportTargetAll || reportType == ReportTargetPost {
		rows, err := s.listPostReports(status, filter)
		if err != nil {
			return nil, err
		}
		merged = append(merged, rows...)
	}

	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].CreatedAt.Equal(merged[j].CreatedAt) {
			return merged[i].CreatedAt.After(merged[j].CreatedAt)
		}
		return merged[i].ID > merged[j].ID
	})

	page, perPage := filter.Page.normalized()
	total := int64(len(merged))

	start := (page - 1) * perPage
	if start > len(merged) {
		start = len(merged)
	}
	end := start + perPage
	if end > len(merged) {
		end = len(merged)
	}

	return newPage(merged[start:end], total, page, perPage), nil
}

type reportRow struct {
	ID             uint
	TargetID       uint
	ReporterID     uint
	ReasonCategory string
	Reason         string
	EvidenceURL    string
	Status         string
	ReviewedAt     *time.Time
	ReviewedBy     *uint
	CreatedAt      time.Time
	TargetTitle    string
	BoardID        uint
}

func (s *ReportService) listThreadReports(status string, filter ReportFilter) ([]ReportView, error) {
	query := s.db.Model(&db.ThreadReport{}).
		Select(`thread_reports.id, thread_reports.thread_id AS target_id,
			thread_reports.reporter_id, thread_reports.reason_category,
			thread_reports.reason, thread_reports.evidence_url,
			thread_reports.status, thread_reports.reviewed_at,
			thread_reports.reviewed_by, thread_reports.created_at,
			COALESCE(threads.title, '') AS target_title,
			COALESCE(threads.board_id, 0) AS board_id`).
		Joins("LEFT JOIN threads ON threads.id = thread_reports.thread_id")

	query = applyReportFilters(query, "thread_reports", status, filter)

	var rows []reportRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toViews(ReportTargetThread, rows), nil
}

func (s *ReportService) listPostReports(status string, filter ReportFilter) ([]ReportView, error) {
	// The posts join is raw, so soft-deleted posts still resolve; a
	// deleted post must stay visible in the queue behind its reports.
	query := s.db.Model(&db.PostReport{}).
		Select(`post_reports.id, post_reports.post_id AS target_id,
			post_reports.reporter_id, post_reports.reason_category,
			post_reports.reason, post_reports.evidence_url,
			post_reports.status, post_reports.reviewed_at,
			post_reports.reviewed_by, post_reports.created_at,
			COALESCE(threads.title, '') AS target_title,
			COALESCE(threads.board_id, 0) AS board_id`).
		Joins("LEFT JOIN posts ON posts.id = post_reports.post_id").
		Joins("LEFT JOIN threads ON threads.id = posts.thread_id")

	query = applyReportFilters(query, "post_reports", status, filter)

	var rows []reportRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toViews(ReportTargetPost, rows), nil
}

func applyReportFilters(query *gorm.DB, table, status string, filter ReportFilter) *gorm.DB {
	if status != ReportStatusAll {
		query = query.Where(table+".status = ?", status)
	}
	if reason := strings.TrimSpace(filter.Reason); reason != "" {
		query = query.Where(table+".reason_category = ?", reason)
	}
	if filter.BoardID != 0 {
		query = query.Where("threads.board_id = ?", filter.BoardID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("threads.title LIKE ?", "%"+search+"%")
	}
	return query
}

func toViews(reportType string, rows []reportRow) []ReportView {
	views := make([]ReportView, 0, len(rows))
	for _, row := range rows {
		views = append(views, ReportView{
			Type:           reportType,
			ID:             row.ID,
			TargetID:       row.TargetID,
			ReporterID:     row.ReporterID,
			ReasonCategory: row.ReasonCategory,
			Reason:         row.Reason,
			EvidenceURL:    row.EvidenceURL,
			Status:         row.Status,
			ReviewedAt:     row.ReviewedAt,
			ReviewedBy:     row.ReviewedBy,
			CreatedAt:      row.CreatedAt,
			TargetTitle:    row.TargetTitle,
			BoardID:        row.BoardID,
		})
	}
	return views
}
