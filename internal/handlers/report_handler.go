package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fizcal/internal/errors"
	"fizcal/internal/services"
)

// ReportHandler serves reports and the dashboard
type ReportHandler struct {
	reportService services.ReportServicer
	now           func() time.Time
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService, now: time.Now}
}

// ReportQuery selects the report window. Defaults to month.
type ReportQuery struct {
	Timeframe string `form:"timeframe" binding:"omitempty,timeframe"`
}

// GetReport totals income and expenses over a trailing window
// @Summary     Income and expense report
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       timeframe query string false "week, month (default) or year"
// @Success     200 {object} map[string]services.Report "Report"
// @Failure     400 {object} ErrorResponse "Invalid timeframe"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.ErrInvalidTimeframe)
		return
	}
	timeframe := services.TimeframeMonth
	if q.Timeframe != "" {
		timeframe = services.Timeframe(q.Timeframe)
	}

	report, err := h.reportService.GetReport(userID, timeframe, h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// GetDashboard returns the home screen payload
// @Summary     Dashboard
// @Description Balance summary, recent transactions and budget progress
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]services.Dashboard "Dashboard"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Aggregation unavailable"
// @Router      /dashboard [get]
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard, err := h.reportService.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": dashboard})
}
