package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fizcal/internal/errors"
	"fizcal/internal/logger"
	"fizcal/internal/middleware"
	"fizcal/internal/models"
	"fizcal/internal/services"
	"fizcal/internal/uuid"
)

const dateLayout = "2006-01-02"

// ErrorBody is the payload of an error response.
type ErrorBody struct {
	Code    string `json:"code" example:"INVALID_INPUT"`
	Message string `json:"message" example:"Invalid input"`
}

// ErrorResponse is returned by every endpoint on failure.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// MessageResponse is returned by endpoints that have nothing else to say.
type MessageResponse struct {
	Message string `json:"message"`
}

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	v, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return "", apperrors.ErrUnauthorized
	}
	userID, ok := v.(string)
	if !ok || userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// parsePathID reads a UUID path parameter.
//
//nolint:unparam // every route names its id "id" today
func parsePathID(c *gin.Context, param string) (string, error) {
	id := c.Param(param)
	if !uuid.IsValid(id) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parseFlexibleTime accepts RFC3339 or YYYY-MM-DD and returns UTC. A bare
// date resolves to the end of that day when endOfDay is set, so it can be used
// as an inclusive upper bound.
func parseFlexibleTime(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// parseDateRange reads the optional from_date/to_date query pair.
func parseDateRange(c *gin.Context) (from, to *time.Time, err error) {
	if v := c.Query("from_date"); v != "" {
		t, parseErr := parseFlexibleTime(v, false)
		if parseErr != nil {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from_date format, use RFC3339 or YYYY-MM-DD")
		}
		from = &t
	}
	if v := c.Query("to_date"); v != "" {
		t, parseErr := parseFlexibleTime(v, true)
		if parseErr != nil {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to_date format, use RFC3339 or YYYY-MM-DD")
		}
		to = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, apperrors.ErrInvalidDateRange
	}
	return from, to, nil
}

type transactionFilterQuery struct {
	Type models.TransactionType `form:"type" binding:"omitempty,transaction_type"`
}

// parseTransactionFilter reads the list filters shared by the transaction
// list, account transactions and export endpoints.
func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	from, to, err := parseDateRange(c)
	if err != nil {
		return filter, err
	}
	filter.FromDate, filter.ToDate = from, to

	var q transactionFilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid type, must be income or expense")
	}
	if q.Type != "" {
		filter.Type = &q.Type
	}

	if v, ok := c.GetQuery("category"); ok {
		filter.Category = &v
	}
	filter.Search = c.Query("search")

	if v := c.Query("min_amount"); v != "" {
		amt, err := strconv.ParseInt(v, 10, 64)
		if err != nil || amt < 0 {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid min_amount")
		}
		filter.MinAmount = &amt
	}

	if v := c.Query("max_amount"); v != "" {
		amt, err := strconv.ParseInt(v, 10, 64)
		if err != nil || amt < 0 {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid max_amount")
		}
		filter.MaxAmount = &amt
	}

	if filter.MinAmount != nil && filter.MaxAmount != nil && *filter.MinAmount > *filter.MaxAmount {
		return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "min_amount must not exceed max_amount")
	}

	if v := c.Query("account_id"); v != "" {
		if !uuid.IsValid(v) {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid account_id")
		}
		filter.AccountID = &v
	}

	if err := c.ShouldBindQuery(&filter.Sort); err != nil {
		return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	return filter, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, ErrorResponse{Error: ErrorBody{Code: appErr.Code, Message: appErr.Message}})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, ErrorResponse{Error: ErrorBody{
		Code:    apperrors.ErrInternalServer.Code,
		Message: apperrors.ErrInternalServer.Message,
	}})
}
