package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskhub/internal/models"
	"taskhub/internal/services"
)

type assigneeBreakdownResponse struct {
	User       *string `json:"user"`
	Todo       int     `json:"todo"`
	InProgress int     `json:"in_progress"`
	Review     int     `json:"review"`
	Done       int     `json:"done"`
}

type trendPointResponse struct {
	Date string `json:"date"`
	Done int    `json:"done"`
}

type overviewResponse struct {
	Total           int                         `json:"total"`
	ByStatus        map[string]int              `json:"byStatus"`
	ByPriority      map[string]int              `json:"byPriority"`
	Overdue         int                         `json:"overdue"`
	DueSoon         int                         `json:"dueSoon"`
	ProgressAvg     float64                     `json:"progressAvg"`
	ByAssignee      []assigneeBreakdownResponse `json:"byAssignee"`
	CompletionTrend []trendPointResponse        `json:"completionTrend"`
}

func newOverviewResponse(metrics *models.Metrics) overviewResponse {
	byAssignee := make([]assigneeBreakdownResponse, len(metrics.ByAssignee))
	for i, breakdown := range metrics.ByAssignee {
		byAssignee[i] = assigneeBreakdownResponse{
			User:       breakdown.UserID,
			Todo:       breakdown.Todo,
			InProgress: breakdown.InProgress,
			Review:     breakdown.Review,
			Done:       breakdown.Done,
		}
	}

	trend := make([]trendPointResponse, len(metrics.CompletionTrend))
	for i, point := range metrics.CompletionTrend {
		trend[i] = trendPointResponse{
			Date: point.Date,
			Done: point.Done,
		}
	}

	return overviewResponse{
		Total:           metrics.Total,
		ByStatus:        metrics.ByStatus,
		ByPriority:      metrics.ByPriority,
		Overdue:         metrics.Overdue,
		DueSoon:         metrics.DueSoon,
		ProgressAvg:     metrics.ProgressAvg,
		ByAssignee:      byAssignee,
		CompletionTrend: trend,
	}
}

func (h *handlerImpl) HandleOverviewReport(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	days, _ := strconv.Atoi(c.Query("days"))

	metrics, err := h.reports.Overview(c, userID, services.OverviewParams{
		Scope:     c.Query("scope"),
		ProjectID: c.Query("project"),
		Days:      days,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newOverviewResponse(metrics))
}

type burndownPointResponse struct {
	Date      string `json:"date"`
	Remaining int    `json:"remaining"`
}

type burndownResponse struct {
	Project string                  `json:"project"`
	Start   string                  `json:"start"`
	End     string                  `json:"end"`
	Series  []burndownPointResponse `json:"series"`
}

func (h *handlerImpl) HandleBurndownReport(c *gin.Context) {
	if _, ok := h.callerID(c); !ok {
		return
	}

	projectID := c.Query("project")
	startValue := c.Query("start")
	endValue := c.Query("end")
	if projectID == "" || startValue == "" || endValue == "" {
		abort(c, newBadRequestError("project, start, end required"))
		return
	}

	start, okStart := parseDateQuery(startValue)
	end, okEnd := parseDateQuery(endValue)
	if !okStart || !okEnd {
		abort(c, newBadRequestError("project, start, end required"))
		return
	}

	burndown, err := h.reports.Burndown(c, projectID, *start, *end)
	if err != nil {
		h.respondError(c, err)
		return
	}

	series := make([]burndownPointResponse, len(burndown.Series))
	for i, point := range burndown.Series {
		series[i] = burndownPointResponse{
			Date:      point.Date,
			Remaining: point.Remaining,
		}
	}

	c.JSON(http.StatusOK, burndownResponse{
		Project: burndown.Project,
		Start:   burndown.Start,
		End:     burndown.End,
		Series:  series,
	})
}
