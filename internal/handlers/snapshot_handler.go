package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fizcal/internal/errors"
	"fizcal/internal/pagination"
	"fizcal/internal/services"
)

// SnapshotHandler handles balance snapshot requests.
type SnapshotHandler struct {
	snapshotService services.SnapshotServicer
	now             func() time.Time
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(snapshotService services.SnapshotServicer) *SnapshotHandler {
	return &SnapshotHandler{snapshotService: snapshotService, now: time.Now}
}

// ComputeSnapshotsRequest represents the request payload for computing
// snapshots. RecordedAt defaults to now.
type ComputeSnapshotsRequest struct {
	RecordedAt *time.Time `json:"recorded_at"`
}

// ComputeSnapshots handles computing and recording balance snapshots.
// @Summary     Compute balance snapshots
// @Description Compute and record balance snapshots for all users (pipeline endpoint)
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Param       X-API-Key  header   string                   true  "Pipeline API key"
// @Param       request    body     ComputeSnapshotsRequest  false "Snapshot parameters"
// @Success     200        {object} services.SnapshotRunResult "Snapshot run"
// @Failure     400        {object} ErrorResponse            "Invalid input"
// @Failure     401        {object} ErrorResponse            "Invalid API key"
// @Failure     503        {object} ErrorResponse            "Pipeline not configured"
// @Router      /pipeline/snapshots [post]
func (h *SnapshotHandler) ComputeSnapshots(c *gin.Context) {
	var req ComputeSnapshotsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	recordedAt := h.now()
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	result, err := h.snapshotService.ComputeAndRecordSnapshots(recordedAt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSnapshots handles retrieving balance snapshots for the authenticated user.
// @Summary     Get balance snapshots
// @Description Get paginated balance snapshots, newest first
// @Tags        snapshots
// @Produce     json
// @Security    BearerAuth
// @Param       from_date query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "End date (RFC3339 or YYYY-MM-DD)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.BalanceSnapshot] "Paginated snapshots"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /snapshots [get]
func (h *SnapshotHandler) GetSnapshots(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.snapshotService.GetSnapshots(userID, page, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
