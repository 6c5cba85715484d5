package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/threadlog/internal/service"
)

type reportRequest struct {
	ReasonCategory string `json:"reason_category"`
	Reason         string `json:"reason"`
	EvidenceURL    string `json:"evidence_url"`
}

type reviewRequest struct {
	Status string `json:"status"`
	Action string `json:"action"`
}

// ListReportReasons returns the configured reason set in order.
func (a *API) ListReportReasons(c *gin.Context) {
	reasons := a.reports.Reasons()
	out := make([]gin.H, 0, len(reasons))
	for _, reason := range reasons {
		out = append(out, gin.H{"key": reason.Key, "label": reason.Label})
	}
	c.JSON(http.StatusOK, gin.H{"reasons": out})
}

// ReportThread files (or refreshes) a report against a thread.
func (a *API) ReportThread(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var req reportRequest
	if !bindJSON(c, &req, "invalid report payload") {
		return
	}
	report, err := a.reports.FileThreadReport(currentActor(c), id, service.ReportInput{
		ReasonCategory: req.ReasonCategory,
		Reason:         req.Reason,
		EvidenceURL:    req.EvidenceURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// ReportPost files (or refreshes) a report against a post.
func (a *API) ReportPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var req reportRequest
	if !bindJSON(c, &req, "invalid report payload") {
		return
	}
	report, err := a.reports.FilePostReport(currentActor(c), id, service.ReportInput{
		ReasonCategory: req.ReasonCategory,
		Reason:         req.Reason,
		EvidenceURL:    req.EvidenceURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// ListReports serves the merged review queue with filters.
func (a *API) ListReports(c *gin.Context) {
	boardID := uint(0)
	if raw := c.Query("board"); raw != "" {
		if parsed, err := parseUintQuery(raw); err == nil {
			boardID = parsed
		}
	}

	page, err := a.reports.List(currentActor(c), service.ReportFilter{
		Type:    c.Query("type"),
		Status:  c.Query("status"),
		Reason:  c.Query("reason"),
		BoardID: boardID,
		Search:  c.Query("search"),
		Page:    pageRequest(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ReviewReport transitions a report and optionally applies a moderation
// action to its target.
func (a *API) ReviewReport(c *gin.Context) {
	targetType := c.Param("type")
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var req reviewRequest
	if !bindJSON(c, &req, "invalid review payload") {
		return
	}
	err = a.reports.Review(currentActor(c), targetType, id, req.Status,
		service.ModerationAction(req.Action))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
