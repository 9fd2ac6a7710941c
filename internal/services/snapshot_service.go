package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "fizcal/internal/errors"
	"fizcal/internal/models"
	"fizcal/internal/pagination"
)

// snapshotService records and lists balance snapshots.
type snapshotService struct {
	db *gorm.DB
}

// NewSnapshotService creates a new SnapshotServicer.
func NewSnapshotService(db *gorm.DB) SnapshotServicer {
	return &snapshotService{db: db}
}

// ComputeAndRecordSnapshots stores a snapshot at recordedAt for every user
// that owns at least one account. Re-running for the same instant
// overwrites the earlier rows.
func (s *snapshotService) ComputeAndRecordSnapshots(recordedAt time.Time) (*SnapshotRunResult, error) {
	recordedAt = recordedAt.UTC().Truncate(time.Second)

	var userIDs []string
	if err := s.db.Model(&models.Account{}).
		Distinct("user_id").
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := &SnapshotRunResult{RecordedAt: recordedAt, Users: len(userIDs)}
	for _, userID := range userIDs {
		snapshot, err := s.computeSnapshot(userID, recordedAt)
		if err != nil {
			return result, err
		}

		err = s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "recorded_at"}},
			DoUpdates: clause.AssignmentColumns([]string{"total_balance", "income_total", "expense_total", "account_count"}),
		}).Create(snapshot).Error
		if err != nil {
			return result, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		result.Recorded++
	}

	return result, nil
}

// computeSnapshot totals a user's balances and their lifetime income and
// expenses up to recordedAt.
func (s *snapshotService) computeSnapshot(userID string, recordedAt time.Time) (*models.BalanceSnapshot, error) {
	var accounts struct {
		Total int64
		Count int
	}
	if err := s.db.Model(&models.Account{}).
		Select("COALESCE(SUM(balance), 0) AS total, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Scan(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var flows struct {
		Income  int64
		Expense int64
	}
	if err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS income, "+
			"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS expense",
			models.TransactionTypeIncome, models.TransactionTypeExpense).
		Where("user_id = ? AND date <= ?", userID, recordedAt).
		Scan(&flows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &models.BalanceSnapshot{
		UserID:       userID,
		RecordedAt:   recordedAt,
		TotalBalance: accounts.Total,
		IncomeTotal:  flows.Income,
		ExpenseTotal: flows.Expense,
		AccountCount: accounts.Count,
	}, nil
}

// GetSnapshots returns a user's snapshots newest first, optionally bounded.
func (s *snapshotService) GetSnapshots(userID string, page pagination.PageRequest, from, to *time.Time) (*pagination.PageResponse[models.BalanceSnapshot], error) {
	page.Defaults()

	base := s.db.Model(&models.BalanceSnapshot{}).Where("user_id = ?", userID)
	if from != nil {
		base = base.Where("recorded_at >= ?", from.UTC())
	}
	if to != nil {
		base = base.Where("recorded_at <= ?", to.UTC())
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var snapshots []models.BalanceSnapshot
	if err := base.Order("recorded_at DESC").Scopes(pagination.Paginate(page)).Find(&snapshots).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(snapshots, page.Page, page.PageSize, totalItems)
	return &result, nil
}
